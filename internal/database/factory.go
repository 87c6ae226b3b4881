package database

import (
	"fmt"
	"os"
	"path/filepath"

	"quire/internal/config"
	"quire/internal/quire"
)

// NewDatabaseFromConfig opens the store selected by cfg.Type. File databases
// must already be migrated; in-memory databases are migrated on open.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string, clock quire.Clock, ids quire.IDGenerator) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data_dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, hostID+".db")
		return NewSQLiteDatabase(dbPath, clock, ids)
	case "memory":
		db, err := NewSQLiteDatabase(":memory:", clock, ids)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateUp(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating in-memory database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
