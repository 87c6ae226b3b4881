// Package storage provides the object stores that hold uploaded images and
// encrypted database backups.
package storage

import (
	"fmt"
	"strings"
)

// validateKey rejects keys that could escape a store's root.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("object key is empty")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("invalid object key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid object key %q", key)
		}
	}
	return nil
}

// joinURL appends key to base with exactly one slash between them.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
