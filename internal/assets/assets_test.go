package assets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func newLocal(t *testing.T) *LocalSource {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o750))
	src, err := NewLocal(dir)
	require.NoError(t, err)
	return src
}

func TestNewLocalValidation(t *testing.T) {
	t.Parallel()

	_, err := NewLocal("")
	require.Error(t, err)
	_, err = NewLocal(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestHandlerServesLocalFiles(t *testing.T) {
	t.Parallel()

	h := http.StripPrefix("/static", Handler(newLocal(t), zap.NewNop()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))
}

func TestHandlerNotFound(t *testing.T) {
	t.Parallel()

	h := http.StripPrefix("/static", Handler(newLocal(t), zap.NewNop()))
	for _, p := range []string{"/static/missing.css", "/static/img", "/static/", "/static/../../etc/passwd"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}

func TestLocalOpenStaysInsideBase(t *testing.T) {
	t.Parallel()

	src := newLocal(t)
	_, err := src.Open(context.Background(), "../outside.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGCSSourceReadsObjects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "assets/style.css") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/css")
		_, _ = io.WriteString(w, "body{}")
	}))
	defer server.Close()

	client, err := storage.NewClient(context.Background(), option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	src, err := NewGCS(client, GCSConfig{Bucket: "mirror-assets", Prefix: "/assets/"})
	require.NoError(t, err)

	obj, err := src.Open(context.Background(), "style.css")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "body{}", string(body))

	_, err = src.Open(context.Background(), "missing.css")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewGCSValidation(t *testing.T) {
	t.Parallel()

	_, err := NewGCS(nil, GCSConfig{Bucket: "b"})
	require.Error(t, err)
}
