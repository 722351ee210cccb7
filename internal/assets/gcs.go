package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
)

// GCSConfig locates assets in a bucket.
type GCSConfig struct {
	Bucket string
	Prefix string
}

// GCSSource reads assets from a Cloud Storage bucket.
type GCSSource struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates a GCSSource over an existing client.
func NewGCS(client *storage.Client, cfg GCSConfig) (*GCSSource, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &GCSSource{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Open starts reading the object for name.
func (s *GCSSource) Open(ctx context.Context, name string) (Object, error) {
	name, ok := cleanName(name)
	if !ok {
		return Object{}, ErrNotFound
	}
	if s.prefix != "" {
		name = s.prefix + "/" + name
	}
	reader, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("read gs://%s/%s: %w", s.bucket, name, err)
	}
	return Object{
		Body:        reader,
		ContentType: reader.Attrs.ContentType,
		Size:        reader.Attrs.Size,
		ModTime:     reader.Attrs.LastModified,
	}, nil
}
