package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrObjectNotFound is returned by Get when no object exists for the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is a flat key to JSON-document store. Keys use forward
// slashes regardless of platform.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// FSStore keeps objects as files under a base directory, mirroring the
// key hierarchy.
type FSStore struct {
	basePath string
}

func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

func (s *FSStore) Put(_ context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return nil
}
