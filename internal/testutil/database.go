package testutil

import (
	"testing"

	"quire/internal/database"
	"quire/internal/quire"
)

// NewTestDatabase returns an in-memory SQLiteDatabase loaded with the
// generated schema. A nil clock or ids falls back to FixedClock and a
// "db"-prefixed StubIDGenerator. The database closes with the test.
func NewTestDatabase(t *testing.T, clock quire.Clock, ids quire.IDGenerator) *database.SQLiteDatabase {
	t.Helper()

	if clock == nil {
		clock = FixedClock()
	}
	if ids == nil {
		ids = NewPrefixedIDGenerator("db")
	}

	conn, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	if _, err := conn.Exec(database.Schema); err != nil {
		conn.Close()
		t.Fatalf("applying schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(conn, clock, ids)
	t.Cleanup(func() { db.Close() })
	return db
}
