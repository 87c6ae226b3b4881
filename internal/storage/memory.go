package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"quire/internal/quire"
)

// MemoryStore is an in-memory implementation of quire.ObjectStore.
// It is useful for tests and for the "memory" storage type.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	name    string
	objects map[string]memoryObject
	mu      sync.RWMutex
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemoryStore creates a new in-memory store with the given name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:    name,
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{contentType: contentType, data: data}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string, w io.Writer) error {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", key, quire.ErrObjectNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(obj.data)); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

func (m *MemoryStore) URL(key string) string {
	return "memory://" + m.name + "/" + key
}

// ContentType returns the content type recorded for key.
func (m *MemoryStore) ContentType(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.contentType, ok
}

// Keys lists the stored keys with the given prefix in lexical order.
func (m *MemoryStore) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup(ctx context.Context) error {
	return nil
}

var _ quire.ObjectStore = (*MemoryStore)(nil)
