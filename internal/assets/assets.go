// Package assets serves the mirror's static files (stylesheets, images) from
// a local directory or a Google Cloud Storage bucket.
package assets

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound signals a missing asset.
var ErrNotFound = errors.New("asset not found")

// Object is an opened asset. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Source opens assets by slash-separated name.
type Source interface {
	Open(ctx context.Context, name string) (Object, error)
}

// cleanName normalizes a request path into an asset name, rejecting
// anything that escapes the root.
func cleanName(name string) (string, bool) {
	cleaned := path.Clean("/" + name)
	if cleaned == "/" || strings.Contains(cleaned, "\x00") {
		return "", false
	}
	return strings.TrimPrefix(cleaned, "/"), true
}

// Handler serves GET requests for assets; the URL path (after any
// http.StripPrefix) is the asset name.
func Handler(src Source, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := cleanName(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		obj, err := src.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			logger.Error("open asset failed", zap.String("name", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer func() {
			if cerr := obj.Body.Close(); cerr != nil {
				logger.Warn("close asset failed", zap.String("name", name), zap.Error(cerr))
			}
		}()

		contentType := obj.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(path.Ext(name))
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		if !obj.ModTime.IsZero() {
			w.Header().Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
		}
		if _, err := io.Copy(w, obj.Body); err != nil {
			logger.Warn("write asset failed", zap.String("name", name), zap.Error(err))
		}
	})
}
