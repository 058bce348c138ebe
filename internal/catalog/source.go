package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source is a read-only byte source for a catalog snapshot.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads a snapshot from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed snapshot source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Read returns the snapshot bytes.
func (s *FileSource) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	return data, nil
}
