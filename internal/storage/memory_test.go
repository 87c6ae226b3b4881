package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"quire/internal/quire"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test-store")

	tests := []struct {
		name    string
		key     string
		content string
	}{
		{name: "store and retrieve object", key: "images/doc-1/1-a.png", content: "png bytes"},
		{name: "store empty object", key: "empty", content: ""},
		{name: "store large object", key: "backups/h/large.db.age", content: strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Put(ctx, tt.key, "image/png", strings.NewReader(tt.content), int64(len(tt.content)))
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			var buf bytes.Buffer
			if err := store.Get(ctx, tt.key, &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got := buf.String(); got != tt.content {
				t.Errorf("Get() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryStore_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("size mismatch", func(t *testing.T) {
		store := NewMemoryStore("test")
		if err := store.Put(ctx, "k", "", strings.NewReader("short"), 100); err == nil {
			t.Error("Put() expected size mismatch error")
		}
		if keys := store.Keys(""); len(keys) != 0 {
			t.Errorf("Keys() = %v, want nothing stored", keys)
		}
	})

	t.Run("overwrites existing key", func(t *testing.T) {
		store := NewMemoryStore("test")
		store.Put(ctx, "k", "text/plain", strings.NewReader("one"), 3)
		store.Put(ctx, "k", "image/gif", strings.NewReader("two"), 3)

		var buf bytes.Buffer
		store.Get(ctx, "k", &buf)
		if buf.String() != "two" {
			t.Errorf("Get() = %q, want %q", buf.String(), "two")
		}
		if ct, _ := store.ContentType("k"); ct != "image/gif" {
			t.Errorf("ContentType() = %q, want %q", ct, "image/gif")
		}
	})

	t.Run("rejects traversal keys", func(t *testing.T) {
		store := NewMemoryStore("test")
		for _, key := range []string{"", "/abs", "a/../b", "a//b"} {
			if err := store.Put(ctx, key, "", strings.NewReader(""), 0); err == nil {
				t.Errorf("Put(%q) expected error", key)
			}
		}
	})
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore("test")
	var buf bytes.Buffer
	err := store.Get(context.Background(), "nope", &buf)
	if !errors.Is(err, quire.ErrObjectNotFound) {
		t.Errorf("Get() error = %v, want ErrObjectNotFound", err)
	}
}

func TestMemoryStore_Keys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test")
	for _, k := range []string{"images/b", "backups/x", "images/a"} {
		store.Put(ctx, k, "", strings.NewReader(""), 0)
	}

	got := store.Keys("images/")
	if len(got) != 2 || got[0] != "images/a" || got[1] != "images/b" {
		t.Errorf("Keys(images/) = %v, want [images/a images/b]", got)
	}
}

func TestMemoryStore_URL(t *testing.T) {
	store := NewMemoryStore("scratch")
	if got, want := store.URL("images/a.png"), "memory://scratch/images/a.png"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
