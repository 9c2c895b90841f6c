package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store holds uploaded art files, addressed by opaque keys recorded on the
// submission. Upload mechanics live at the edge; this service only needs
// best-effort removal when a submission is deleted.
type Store interface {
	Remove(ctx context.Context, key string) error
}

var ErrInvalidKey = errors.New("storage: invalid key")

// DiskStore keeps files under a single root directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Remove(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(path)
}

// resolve rejects keys that would escape the root.
func (s *DiskStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", ErrInvalidKey
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Clean(s.root)+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return path, nil
}
