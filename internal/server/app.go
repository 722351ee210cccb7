// Package server builds the mirror's dependencies and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/JakeFAU/stackdump-mirror/internal/api"
	"github.com/JakeFAU/stackdump-mirror/internal/assets"
	"github.com/JakeFAU/stackdump-mirror/internal/clock/system"
	"github.com/JakeFAU/stackdump-mirror/internal/config"
	"github.com/JakeFAU/stackdump-mirror/internal/metrics"
	"github.com/JakeFAU/stackdump-mirror/internal/render"
	"github.com/JakeFAU/stackdump-mirror/internal/site"
	"github.com/JakeFAU/stackdump-mirror/internal/storage/memory"
)

const shutdownTimeout = 10 * time.Second

// App contains the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	registry  *site.Registry
	apiServer *api.Server
	database  *database
	storage   *storage.Client
}

// Build creates the application's dependencies.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}
	app.logger.Info("building application dependencies",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("demo", cfg.Demo),
	)
	metrics.Init()

	registry, err := app.setupSites(ctx)
	if err != nil {
		app.closeInfrastructure()
		return nil, err
	}
	app.registry = registry
	metrics.SetSites(registry.Len())

	clock, err := system.NewInZone(cfg.Site.Timezone)
	if err != nil {
		app.closeInfrastructure()
		return nil, err
	}
	renderer, err := render.New()
	if err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("renderer init failed: %w", err)
	}

	var opts []api.Option
	src, err := app.setupAssets(ctx)
	if err != nil {
		app.closeInfrastructure()
		return nil, err
	}
	if src != nil {
		opts = append(opts, api.WithAssets(src))
	}

	app.apiServer = api.NewServer(registry, renderer, clock, cfg, logger.Named("api"), opts...)
	return app, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Sites returns the names being served.
func (a *App) Sites() []string {
	return a.registry.Names()
}

// Run serves HTTP until ctx is canceled or SIGINT/SIGTERM arrives, then
// drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started",
			zap.Int("port", a.cfg.Server.Port),
			zap.Strings("sites", a.registry.Names()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	a.Close()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve http: %w", err)
	default:
		return nil
	}
}

// Close releases database and storage clients.
func (a *App) Close() {
	a.closeInfrastructure()
	a.logger.Info("shutdown complete")
}

func (a *App) closeInfrastructure() {
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Warn("gcs client close failed", zap.Error(err))
		}
		a.storage = nil
	}
	if a.database != nil {
		a.database.close()
		a.database = nil
	}
}

func (a *App) setupSites(ctx context.Context) (*site.Registry, error) {
	if a.cfg.Demo {
		a.logger.Info("serving built-in demo data", zap.String("site", a.cfg.Site.Default))
		registry, err := site.NewRegistry(map[string]site.Store{
			a.cfg.Site.Default: metrics.InstrumentStore(a.cfg.Site.Default, memory.New(memory.Demo())),
		})
		if err != nil {
			return nil, fmt.Errorf("demo registry: %w", err)
		}
		return registry, nil
	}

	db, err := openDatabase(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.database = db

	discovered, err := db.sites(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sites: %w", err)
	}
	names, err := selectSites(discovered, a.cfg.Database.Sites)
	if err != nil {
		return nil, err
	}

	stores := make(map[string]site.Store, len(names))
	for _, name := range names {
		store, err := db.site(name)
		if err != nil {
			return nil, fmt.Errorf("open site %q: %w", name, err)
		}
		stores[name] = metrics.InstrumentStore(name, store)
	}
	registry, err := site.NewRegistry(stores)
	if err != nil {
		return nil, fmt.Errorf("site registry: %w", err)
	}
	if registry.Len() == 0 {
		a.logger.Warn("no sites found in database")
	}
	a.logger.Info("sites registered", zap.Strings("sites", registry.Names()))
	return registry, nil
}

func (a *App) setupAssets(ctx context.Context) (assets.Source, error) {
	switch a.cfg.Assets.Backend {
	case config.AssetsGCS:
		a.logger.Info("using GCS asset backend", zap.String("bucket", a.cfg.Assets.Bucket))
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("gcs client init failed: %w", err)
		}
		a.storage = client
		src, err := assets.NewGCS(client, assets.GCSConfig{Bucket: a.cfg.Assets.Bucket, Prefix: a.cfg.Assets.Prefix})
		if err != nil {
			return nil, fmt.Errorf("gcs asset source init failed: %w", err)
		}
		return src, nil
	case config.AssetsLocal:
		a.logger.Info("using local asset backend", zap.String("dir", a.cfg.Assets.Dir))
		src, err := assets.NewLocal(a.cfg.Assets.Dir)
		if err != nil {
			return nil, fmt.Errorf("local asset source init failed: %w", err)
		}
		return src, nil
	default:
		a.logger.Debug("static assets disabled")
		return nil, nil
	}
}

// DiscoverSites lists the site names the configured database holds.
func DiscoverSites(ctx context.Context, cfg config.Config) ([]string, error) {
	if cfg.Demo {
		return []string{cfg.Site.Default}, nil
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.close()

	names, err := db.sites(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sites: %w", err)
	}
	return names, nil
}

// selectSites applies the allow-list to the discovered names. Every allowed
// name must exist.
func selectSites(discovered, allowed []string) ([]string, error) {
	if len(allowed) == 0 {
		return discovered, nil
	}
	known := make(map[string]struct{}, len(discovered))
	for _, name := range discovered {
		known[name] = struct{}{}
	}
	out := make([]string, 0, len(allowed))
	for _, name := range allowed {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("configured site %q has no tables in the database", name)
		}
		out = append(out, name)
	}
	return out, nil
}
