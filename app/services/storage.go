package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore is a directory-backed blob client, the third simulated external
// resource of the demo.
type BlobStore struct {
	dir string
}

// NewBlobStore ensures dir exists and returns a store rooted there.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %q: %w", dir, err)
	}
	return &BlobStore{dir: dir}, nil
}

// Put writes data under name and returns the full path.
func (s *BlobStore) Put(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing blob %q: %w", name, err)
	}
	return path, nil
}

// Get reads the blob stored under name.
func (s *BlobStore) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading blob %q: %w", name, err)
	}
	return data, nil
}
