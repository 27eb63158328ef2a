package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage stores objects as files under a root directory. The root is
// served statically by the HTTP server, so stored paths double as URLs.
type DiskStorage struct {
	root string
}

func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &DiskStorage{root: root}, nil
}

func (s *DiskStorage) Save(ctx context.Context, objectPath string, r io.Reader) (string, error) {
	full, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return objectPath, nil
}

func (s *DiskStorage) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	full, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *DiskStorage) Remove(ctx context.Context, objectPath string) error {
	full, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps an object path onto the root and rejects anything that would
// escape it.
func (s *DiskStorage) resolve(objectPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(objectPath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object path: %q", objectPath)
	}
	return filepath.Join(s.root, clean), nil
}
