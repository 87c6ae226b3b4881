package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quire/internal/quire"
)

func TestNewFileSystemStore(t *testing.T) {
	t.Run("creates root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "objects")

		s, err := NewFileSystemStore("test", root, "")
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if _, err := os.Stat(root); err != nil {
			t.Errorf("root directory not created: %v", err)
		}
		if err := s.ValidateSetup(context.Background()); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		os.WriteFile(file, []byte("x"), 0644)

		if _, err := NewFileSystemStore("test", file, ""); err == nil {
			t.Error("NewFileSystemStore() expected error when root is a file")
		}
	})
}

func TestFileSystemStore_Put(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "nested key", key: "images/doc-1/1700000000000-cat.png", data: "meow", size: 4},
		{name: "size mismatch", key: "images/doc-1/short.png", data: "hello", size: 100, wantErr: true},
		{name: "empty object", key: "empty", data: "", size: 0},
		{name: "traversal", key: "../outside", data: "x", size: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFileSystemStore("test", t.TempDir(), "")
			if err != nil {
				t.Fatalf("NewFileSystemStore() error = %v", err)
			}

			err = s.Put(context.Background(), tt.key, "image/png", strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Put() error = %v, wantErr %v", err, tt.wantErr)
			}

			path := filepath.Join(s.root, filepath.FromSlash(tt.key))
			data, readErr := os.ReadFile(path)
			if tt.wantErr {
				if readErr == nil {
					t.Errorf("file %s exists after failed Put()", path)
				}
				return
			}
			if readErr != nil {
				t.Fatalf("failed to read object file: %v", readErr)
			}
			if string(data) != tt.data {
				t.Errorf("content = %q, want %q", string(data), tt.data)
			}
		})
	}
}

func TestFileSystemStore_PutLeavesNoTempFiles(t *testing.T) {
	s, err := NewFileSystemStore("test", t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	ctx := context.Background()

	s.Put(ctx, "a/ok", "", strings.NewReader("fine"), 4)
	s.Put(ctx, "a/bad", "", strings.NewReader("nope"), 99)

	entries, err := os.ReadDir(filepath.Join(s.root, "a"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "ok" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory entries = %v, want [ok]", names)
	}
}

func TestFileSystemStore_Get(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileSystemStore("test", t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := s.Put(ctx, "backups/h1/x.db.age", "", strings.NewReader("cipher"), 6); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var buf bytes.Buffer
	if err := s.Get(ctx, "backups/h1/x.db.age", &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != "cipher" {
		t.Errorf("Get() = %q, want %q", buf.String(), "cipher")
	}

	err = s.Get(ctx, "backups/h1/missing", &buf)
	if !errors.Is(err, quire.ErrObjectNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrObjectNotFound", err)
	}
}

func TestFileSystemStore_URL(t *testing.T) {
	root := t.TempDir()

	t.Run("public base url", func(t *testing.T) {
		s, _ := NewFileSystemStore("test", root, "https://cdn.example.com/")
		if got, want := s.URL("images/d/1-a.png"), "https://cdn.example.com/images/d/1-a.png"; got != want {
			t.Errorf("URL() = %q, want %q", got, want)
		}
	})

	t.Run("file url", func(t *testing.T) {
		s, _ := NewFileSystemStore("test", root, "")
		got := s.URL("images/d/1-a.png")
		if !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, "/images/d/1-a.png") {
			t.Errorf("URL() = %q, want file:// URL ending in the key", got)
		}
	})
}
