package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalSource reads assets from a directory.
type LocalSource struct {
	baseDir string
}

// NewLocal creates a LocalSource rooted at baseDir, which must exist.
func NewLocal(baseDir string) (*LocalSource, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("assets.dir is required")
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("stat assets dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets dir %q is not a directory", baseDir)
	}
	return &LocalSource{baseDir: filepath.Clean(baseDir)}, nil
}

// Open opens name below the base directory.
func (s *LocalSource) Open(_ context.Context, name string) (Object, error) {
	name, ok := cleanName(name)
	if !ok {
		return Object{}, ErrNotFound
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(name))
	if !strings.HasPrefix(fullPath, s.baseDir+string(filepath.Separator)) {
		return Object{}, ErrNotFound
	}
	f, err := os.Open(fullPath) // #nosec G304 -- path confined to baseDir above.
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("open asset: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Object{}, fmt.Errorf("stat asset: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return Object{}, ErrNotFound
	}
	return Object{Body: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}
