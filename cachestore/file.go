package cachestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per entry in a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("cachestore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cachestore: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory entries are written to.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("cachestore: read %s: %w", p, err)
	}
	return data, nil
}

// Set replaces the entry for key. The file is written to a temporary
// name first and renamed into place.
func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("cachestore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cachestore: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cachestore: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cachestore: rename to %s: %w", p, err)
	}
	return nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cachestore: remove %s: %w", p, err)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	name, err := EntryName(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// EntryName returns the file name FileStore uses for key: the last
// segment of the key's URL path, query and fragment ignored.
func EntryName(key string) (string, error) {
	p := key
	if u, err := url.Parse(key); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	switch name {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasPrefix(name, ".tmp-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return name, nil
}
