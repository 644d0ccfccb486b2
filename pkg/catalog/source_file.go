package catalog

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a catalog from local disk. The encoding follows the
// file extension.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }
func (s *FileSource) Type() string { return "file" }

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) ([]MatchEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	entries, err := Decode(f, EncodingFor(s.path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return entries, nil
}
