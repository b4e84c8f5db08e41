package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource reads the dataset from a local path.
type FileSource struct {
	path string
}

// NewFile constructs a filesystem-backed source for path.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

// Driver implements Source.
func (s *FileSource) Driver() Driver { return DriverFilesystem }

// Path returns the configured dataset path.
func (s *FileSource) Path() string { return s.path }

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	return f, nil
}
