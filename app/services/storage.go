// Package services provides external service integrations and technical concerns like mail dispatch, object storage and document rendering
package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStorage stores binary objects under opaque keys. Keys are assigned
// by Put and never derived from user input.
type ObjectStorage interface {
	Put(ctx context.Context, kind string, ext string, r io.Reader) (key string, size int64, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// DiskStorage implements ObjectStorage on the local filesystem.
type DiskStorage struct {
	rootDir string
}

// NewDiskStorage creates a disk-backed object store rooted at rootDir
func NewDiskStorage(rootDir string) (*DiskStorage, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("storage root directory is required")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &DiskStorage{rootDir: rootDir}, nil
}

// Put writes the object and returns its generated key
func (s *DiskStorage) Put(ctx context.Context, kind string, ext string, r io.Reader) (string, int64, error) {
	key := fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), normalizeExt(ext))

	fullPath, err := s.resolve(key)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write object: %w", err)
	}

	return key, written, nil
}

// Get opens the object for reading
func (s *DiskStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s not found", key)
		}
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}

	return f, nil
}

// Delete removes the object. Deleting a missing object is not an error.
func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}

// resolve maps a key to an absolute path and rejects traversal outside the root
func (s *DiskStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(s.rootDir, cleaned), nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
