// Package export stores rendered reports on local disk or in a Cloud Storage bucket.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amirasaad/fundledger/pkg/report"
)

// LocalSink writes reports under a directory.
type LocalSink struct {
	dir string
}

// NewLocalSink creates the directory if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir %q: %w", dir, err)
	}
	return &LocalSink{dir: dir}, nil
}

// Put writes data to <dir>/<name> and returns the file path.
func (s *LocalSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export %q: %w", path, err)
	}
	return path, nil
}

var _ report.Sink = (*LocalSink)(nil)
