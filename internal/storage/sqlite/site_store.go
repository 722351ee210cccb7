// Package sqlite serves mirrored sites from a SQLite file holding the
// Stack Exchange dump tables.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/JakeFAU/stackdump-mirror/internal/site"
	"github.com/JakeFAU/stackdump-mirror/internal/storage/dumpsql"
)

// Config locates the dump database.
type Config struct {
	Path         string
	QueryTimeout time.Duration
}

// DB owns the connection shared by every site store.
type DB struct {
	conn    *sql.DB
	timeout time.Duration
}

// Open opens the dump file. The mirror never writes, so every pooled
// connection is put in query-only mode.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	conn, err := sql.Open("sqlite", withPragmas(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db := &DB{conn: conn, timeout: cfg.QueryTimeout}
	if err := db.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=query_only(1)"
}

// NewWithDB wraps an existing handle (primarily for testing).
func NewWithDB(conn *sql.DB, queryTimeout time.Duration) (*DB, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection is required")
	}
	return &DB{conn: conn, timeout: queryTimeout}, nil
}

// Ping verifies the database file is readable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// Close releases the connection.
func (db *DB) Close() {
	if db == nil || db.conn == nil {
		return
	}
	_ = db.conn.Close()
}

const discoverSitesQuery = `
SELECT name FROM sqlite_master
WHERE type = 'table' AND name LIKE '%\_posts' ESCAPE '\'
ORDER BY name`

// Sites lists the site names that have a posts table.
func (db *DB) Sites(ctx context.Context) ([]string, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, discoverSitesQuery)
	if err != nil {
		return nil, fmt.Errorf("list site tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, fmt.Errorf("scan site table: %w", err)
		}
		name := strings.TrimSuffix(table, "_posts")
		if site.ValidName(name) {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate site tables: %w", err)
	}
	return names, nil
}

// Site returns the store for one site.
func (db *DB) Site(name string) (*SiteStore, error) {
	q, err := dumpsql.New(name, dumpsql.SQLite)
	if err != nil {
		return nil, err
	}
	return &SiteStore{db: db, q: q}, nil
}

func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.timeout)
}

// SiteStore implements site.Store for one site's tables.
type SiteStore struct {
	db *DB
	q  dumpsql.Queries
}

var _ site.Store = (*SiteStore)(nil)

// Posts returns the first limit posts by id.
func (s *SiteStore) Posts(ctx context.Context, limit int) ([]site.Post, error) {
	return s.queryPosts(ctx, "list posts", s.q.Posts, limit)
}

// Post loads one post.
func (s *SiteStore) Post(ctx context.Context, id int64) (site.Post, error) {
	return s.queryPost(ctx, "get post", s.q.Post, id)
}

// Answers returns the answers to parentID.
func (s *SiteStore) Answers(ctx context.Context, parentID int64) ([]site.Post, error) {
	return s.queryPosts(ctx, "list answers", s.q.Answers, parentID)
}

// Comments returns the comments on postID.
func (s *SiteStore) Comments(ctx context.Context, postID int64) ([]site.Comment, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.conn.QueryContext(ctx, s.q.Comments, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []site.Comment
	for rows.Next() {
		c, err := dumpsql.ScanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

// User loads one user.
func (s *SiteStore) User(ctx context.Context, id int64) (site.User, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	u, err := dumpsql.ScanUser(s.db.conn.QueryRowContext(ctx, s.q.User, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return site.User{}, site.ErrNotFound
		}
		return site.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Users loads the users among ids that exist.
func (s *SiteStore) Users(ctx context.Context, ids []int64) (map[int64]site.User, error) {
	out := make(map[int64]site.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.conn.QueryContext(ctx, s.q.UsersIn(len(ids)), args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := dumpsql.ScanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// SearchBody returns posts whose body contains query, best score first.
func (s *SiteStore) SearchBody(ctx context.Context, query string, limit int) ([]site.Post, error) {
	return s.queryPosts(ctx, "search posts", s.q.SearchBody, dumpsql.ContainsPattern(query), limit)
}

// SearchTag returns posts tagged with tag, best score first.
func (s *SiteStore) SearchTag(ctx context.Context, tag string, limit int) ([]site.Post, error) {
	return s.queryPosts(ctx, "search tag", s.q.SearchTag, dumpsql.TagPattern(tag), limit)
}

// CountPopular counts posts scoring above minScore.
func (s *SiteStore) CountPopular(ctx context.Context, minScore int64) (int, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.db.conn.QueryRowContext(ctx, s.q.CountPopular, minScore).Scan(&n); err != nil {
		return 0, fmt.Errorf("count popular posts: %w", err)
	}
	return n, nil
}

// PopularAt returns the offset-th popular post by id.
func (s *SiteStore) PopularAt(ctx context.Context, minScore int64, offset int) (site.Post, error) {
	return s.queryPost(ctx, "get popular post", s.q.PopularAt, minScore, offset)
}

// Ping checks that the site's posts table answers queries.
func (s *SiteStore) Ping(ctx context.Context) error {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.conn.QueryContext(ctx, s.q.Ping)
	if err != nil {
		return fmt.Errorf("ping posts table: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("ping posts table: %w", err)
	}
	return nil
}

func (s *SiteStore) queryPost(ctx context.Context, op, query string, args ...any) (site.Post, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	p, err := dumpsql.ScanPost(s.db.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return site.Post{}, site.ErrNotFound
		}
		return site.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *SiteStore) queryPosts(ctx context.Context, op, query string, args ...any) ([]site.Post, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []site.Post
	for rows.Next() {
		p, err := dumpsql.ScanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
