package server

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/stackdump-mirror/internal/config"
)

const dumpSchema = `
CREATE TABLE math_posts (
	id INTEGER NOT NULL PRIMARY KEY, parentid INTEGER, posttypeid INTEGER, acceptedanswerid INTEGER,
	creationdate DATETIME, owneruserid INTEGER, score INTEGER, viewcount INTEGER,
	title VARCHAR(255), body TEXT, tags VARCHAR(255), answercount INTEGER, commentcount INTEGER
);
CREATE TABLE math_users (
	id INTEGER NOT NULL PRIMARY KEY, reputation INTEGER, creationdate DATETIME, displayname VARCHAR(255),
	lastaccessdate DATETIME, location VARCHAR(255), aboutme TEXT, views INTEGER, upvotes INTEGER,
	downvotes INTEGER, age INTEGER, websiteurl VARCHAR(255)
);
CREATE TABLE math_comments (
	id INTEGER NOT NULL PRIMARY KEY, postid INTEGER NOT NULL, score INTEGER, text TEXT,
	creationdate DATETIME, userid INTEGER
);
CREATE TABLE physics_posts (id INTEGER PRIMARY KEY);

INSERT INTO math_posts (id, score, title, body, tags) VALUES (1, 40, 'Is 0.999... = 1?', '<p>Proof please</p>', '<real-analysis>');
INSERT INTO math_users (id, displayname) VALUES (7, 'Euler');
`

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.db")
	seed, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = seed.Exec(dumpSchema)
	require.NoError(t, err)
	require.NoError(t, seed.Close())
	return path
}

func baseConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Port: 8080, RequestTimeoutSeconds: 5, ReadHeaderTimeoutSeconds: 5},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, QueryTimeoutSeconds: 5},
		Site:     config.SiteConfig{Default: "stackoverflow", Timezone: "UTC"},
	}
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestBuildDemo(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Demo = true

	app, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Equal(t, []string{"stackoverflow"}, app.Sites())
	assert.Equal(t, http.StatusOK, serve(t, app.Handler(), "/stackoverflow/post/1").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, app.Handler(), "/static/style.css").Code)
}

func TestBuildSQLiteDiscoversSites(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Database.DSN = writeDump(t)

	app, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Equal(t, []string{"math", "physics"}, app.Sites())
	rec := serve(t, app.Handler(), "/math/post/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Proof please")
	assert.Equal(t, http.StatusOK, serve(t, app.Handler(), "/math/user/7").Code)
}

func TestBuildSQLiteAllowList(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Database.DSN = writeDump(t)
	cfg.Database.Sites = []string{"math"}

	app, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Equal(t, []string{"math"}, app.Sites())
	assert.Equal(t, http.StatusNotFound, serve(t, app.Handler(), "/physics").Code)

	cfg.Database.Sites = []string{"chemistry"}
	_, err = Build(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "chemistry")
}

func TestBuildRejectsReservedSiteName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dump.db")
	seed, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = seed.Exec(`CREATE TABLE metrics_posts (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	cfg := baseConfig()
	cfg.Database.DSN = path

	_, err = Build(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "reserved")
}

func TestBuildLocalAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("h1{}"), 0o600))

	cfg := baseConfig()
	cfg.Demo = true
	cfg.Assets = config.AssetsConfig{Backend: config.AssetsLocal, Dir: dir}

	app, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	rec := serve(t, app.Handler(), "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "h1{}", rec.Body.String())

	cfg.Assets.Dir = filepath.Join(dir, "missing")
	_, err = Build(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestDiscoverSites(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Database.DSN = writeDump(t)

	names, err := DiscoverSites(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "physics"}, names)

	cfg.Demo = true
	names, err = DiscoverSites(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"stackoverflow"}, names)
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := openDatabase(context.Background(), config.Config{Database: config.DatabaseConfig{Driver: "mysql", DSN: "x", QueryTimeoutSeconds: 1}})
	require.ErrorContains(t, err, "mysql")
}

func TestSelectSites(t *testing.T) {
	t.Parallel()

	discovered := []string{"math", "physics", "unix"}

	got, err := selectSites(discovered, nil)
	require.NoError(t, err)
	assert.Equal(t, discovered, got)

	got, err = selectSites(discovered, []string{"unix", "math"})
	require.NoError(t, err)
	assert.Equal(t, []string{"unix", "math"}, got)

	_, err = selectSites(discovered, []string{"gaming"})
	require.Error(t, err)
}
