package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"quire/internal/quire"
)

// FileSystemStore keeps objects as files below root, one file per key:
//
//	<root>/
//	  images/<documentID>/<millis>-<filename>
//	  backups/<hostID>/<timestamp>.db.age
type FileSystemStore struct {
	name    string
	root    string
	baseURL string
}

// NewFileSystemStore creates a store rooted at root. When baseURL is empty,
// URL returns file:// URLs.
func NewFileSystemStore(name, root, baseURL string) (*FileSystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileSystemStore{name: name, root: abs, baseURL: baseURL}, nil
}

// Put writes the object atomically: readers never see a partial file.
func (s *FileSystemStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	destPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return writeFile(destPath, r, size)
}

func (s *FileSystemStore) Get(ctx context.Context, key string, w io.Writer) error {
	if err := validateKey(key); err != nil {
		return err
	}
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", key, quire.ErrObjectNotFound)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

func (s *FileSystemStore) URL(key string) string {
	if s.baseURL != "" {
		return joinURL(s.baseURL, key)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(s.path(key))}
	return u.String()
}

// ValidateSetup verifies that the root is a writable directory.
func (s *FileSystemStore) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("storage root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root is not a directory: %s", s.root)
	}

	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("storage root not writable: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

func (s *FileSystemStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// writeFile copies r into destPath through a temp file in the same
// directory and renames it into place.
func writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

var _ quire.ObjectStore = (*FileSystemStore)(nil)
