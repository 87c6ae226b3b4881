package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"documents", "blocks", "images", "operations", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckDBMigrationStatus() expected error for fresh database, got nil")
	}
	if err.Error() != "database has no schema version (needs migration)" {
		t.Errorf("CheckDBMigrationStatus() error = %q, want error about needing migration", err.Error())
	}
}

func TestGetStatus(t *testing.T) {
	db := openTestDB(t)

	before, err := GetStatus(db)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if before.Current != 0 {
		t.Errorf("Current = %d, want 0 before migration", before.Current)
	}
	if before.Latest != 3 {
		t.Errorf("Latest = %d, want 3", before.Latest)
	}
	if before.Pending() != 3 {
		t.Errorf("Pending() = %d, want 3", before.Pending())
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	after, err := GetStatus(db)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if after.Current != after.Latest || after.Dirty {
		t.Errorf("GetStatus() = %+v, want current == latest and clean", after)
	}
	if after.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", after.Pending())
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestForeignKeyConstraints(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	_, err := db.Exec(`
		INSERT INTO blocks (id, document_id, type, metadata, position, created_at)
		VALUES ('block-1', 'missing-document', 'paragraph', '{}', 0, datetime('now'))
	`)
	if err == nil {
		t.Error("Expected foreign key constraint violation, but insert succeeded")
	}
}

func TestSchema_BlocksCascadeWithDocument(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	stmts := []string{
		`INSERT INTO documents (id, name, created_at, updated_at) VALUES ('doc-1', 'Notes', datetime('now'), datetime('now'))`,
		`INSERT INTO blocks (id, document_id, type, content, metadata, position, created_at)
		 VALUES ('block-1', 'doc-1', 'paragraph', 'hello', '{}', 0, datetime('now'))`,
		`DELETE FROM documents WHERE id = 'doc-1'`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Exec(%q) error = %v", stmt, err)
		}
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM blocks").Scan(&n); err != nil {
		t.Fatalf("counting blocks: %v", err)
	}
	if n != 0 {
		t.Errorf("blocks remaining = %d, want 0 after document delete", n)
	}
}

func TestSchema_OperationDefaults(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO operations (name, started_at) VALUES ('EditText', datetime('now'))"); err != nil {
		t.Fatalf("Failed to insert operation: %v", err)
	}

	var status, params string
	if err := db.QueryRow("SELECT status, parameters FROM operations").Scan(&status, &params); err != nil {
		t.Fatalf("Failed to read operation: %v", err)
	}
	if status != "running" {
		t.Errorf("status = %q, want %q", status, "running")
	}
	if params != "" {
		t.Errorf("parameters = %q, want empty", params)
	}
}

// openTestDB opens an in-memory SQLite database on a single connection.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	return db
}
