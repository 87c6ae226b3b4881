package quire

import (
	"context"
	"io"
)

// ObjectStore holds binary objects (uploaded images, database backups)
// under slash-separated keys.
type ObjectStore interface {
	// Put stores size bytes read from r under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error

	// Get writes the object stored under key to w.
	Get(ctx context.Context, key string, w io.Writer) error

	// URL returns the address at which clients can fetch key.
	URL(key string) string

	// ValidateSetup verifies the backend is reachable and writable.
	ValidateSetup(ctx context.Context) error
}
