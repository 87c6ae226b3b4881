package storage

import (
	"context"
	"fmt"

	"quire/internal/config"
	"quire/internal/quire"
)

// NewObjectStoreFromConfig creates an ObjectStore based on cfg.Type.
func NewObjectStoreFromConfig(ctx context.Context, cfg config.StorageConfig) (quire.ObjectStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.Name), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem storage requires fs_root to be set")
		}
		s, err := NewFileSystemStore(cfg.Name, cfg.FSRoot, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
