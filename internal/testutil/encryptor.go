package testutil

import (
	"quire/internal/encryption"
	"quire/internal/storage"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}

// NewTestObjectStore creates a new in-memory object store for testing.
func NewTestObjectStore() *storage.MemoryStore {
	return storage.NewMemoryStore("test-store")
}
