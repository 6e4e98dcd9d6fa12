package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a Storage that keeps one file per key inside a directory.
type File struct {
	dir  string
	perm fs.FileMode
}

// NewFile creates a file-backed storage rooted at dir.
// The directory is created with 0700 permissions if it does not exist.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrUnavailable)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &File{dir: dir, perm: 0o600}, nil
}

// Dir returns the storage directory.
func (f *File) Dir() string {
	return f.dir
}

// Get reads the value stored under key.
func (f *File) Get(_ context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrUnavailable, err)
	}
	return string(data), nil
}

// Set writes value under key.
// The write goes to a temp file that is renamed over the target, so readers
// never observe a partially written value.
func (f *File) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+".*")
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Join(ErrUnavailable, err)
	}
	if err := tmp.Chmod(f.perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Join(ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(ErrUnavailable, err)
	}

	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Remove deletes the file stored under key.
func (f *File) Remove(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key)
}

var _ Storage = (*File)(nil)
