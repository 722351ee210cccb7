package server

import (
	"context"
	"fmt"

	"github.com/JakeFAU/stackdump-mirror/internal/config"
	"github.com/JakeFAU/stackdump-mirror/internal/site"
	"github.com/JakeFAU/stackdump-mirror/internal/storage/postgres"
	"github.com/JakeFAU/stackdump-mirror/internal/storage/sqlite"
)

// database hides which driver backs the dump.
type database struct {
	sites func(ctx context.Context) ([]string, error)
	site  func(name string) (site.Store, error)
	close func()
}

func openDatabase(ctx context.Context, c config.Config) (*database, error) {
	cfg, timeout := c.Database, c.QueryTimeout()
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.DSN, QueryTimeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("sqlite init failed: %w", err)
		}
		return &database{
			sites: db.Sites,
			site:  func(name string) (site.Store, error) { return db.Site(name) },
			close: db.Close,
		}, nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:             cfg.DSN,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			QueryTimeout:    timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres init failed: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &database{
			sites: db.Sites,
			site:  func(name string) (site.Store, error) { return db.Site(name) },
			close: db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
