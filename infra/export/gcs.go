package export

import (
	"context"
	"fmt"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/amirasaad/fundledger/pkg/report"
)

// GCSSink uploads reports to a Cloud Storage bucket. It relies on
// Application Default Credentials.
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSink opens a storage client for bucket.
func NewGCSSink(ctx context.Context, bucket, prefix string) (*GCSSink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs export: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSSink{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads data as <prefix><name> and returns its gs:// URI.
func (s *GCSSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := path.Join(s.prefix, name)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gcs object %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %q: %w", object, err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, object), nil
}

// Close releases the storage client.
func (s *GCSSink) Close() error {
	return s.client.Close()
}

var _ report.Sink = (*GCSSink)(nil)
