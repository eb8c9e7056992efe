package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/accounts/internal/filex"
)

// DiskStorage keeps objects as flat files inside one directory.
type DiskStorage struct {
	dir string
}

// NewDiskStorage creates dir if needed and returns a store rooted there.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &DiskStorage{dir: abs}, nil
}

// Dir returns the absolute directory objects are written to.
func (s *DiskStorage) Dir() string {
	return s.dir
}

func (s *DiskStorage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}

// Put writes data through a temp file and renames it into place, so a failed
// write never leaves a partial object under key.
func (s *DiskStorage) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the object; a missing file is not an error.
func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := filex.RemoveIfExists(s.path(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
