package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSStore writes artifacts to a local directory, the default target for a
// static site build.
type FSStore struct {
	baseDir   string
	urlPrefix string
}

// FSConfig options for the filesystem store.
type FSConfig struct {
	BaseDir   string // Base directory for artifacts
	URLPrefix string // Optional URL prefix for published artifacts
}

// NewFSStore creates a filesystem store, creating the base directory if it
// does not exist.
func NewFSStore(config FSConfig) (*FSStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: config.BaseDir, urlPrefix: config.URLPrefix}, nil
}

// Put writes the artifact to disk, creating intermediate directories.
func (s *FSStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	filePath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL for a key when a prefix is configured.
func (s *FSStore) URL(key string) string {
	if s.urlPrefix == "" {
		return ""
	}
	return strings.TrimRight(s.urlPrefix, "/") + "/" + key
}
