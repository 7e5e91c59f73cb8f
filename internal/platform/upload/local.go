package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects into a directory that the router serves statically.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the directory if needed. urlPrefix is the public path the directory is mounted at.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir returns the directory objects are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes r to <dir>/<name> and returns <urlPrefix>/<name>.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return s.urlPrefix + "/" + name, nil
}
