// Command generate_schema rebuilds sqlc/schema.sql by applying the embedded
// migrations to a scratch database and dumping what they created.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quire/internal/database"
	"quire/internal/database/migrations"
)

func main() {
	out := flag.String("out", filepath.Join("internal", "database", "sqlc", "schema.sql"), "schema file to write")
	check := flag.Bool("check", false, "fail if the schema file is out of date instead of writing it")
	flag.Parse()

	db, err := database.OpenConnection(":memory:")
	if err != nil {
		fail("open database: %v", err)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		fail("migrate: %v", err)
	}
	status, err := migrations.GetStatus(db)
	if err != nil {
		fail("read version: %v", err)
	}

	schema, err := dumpSchema(db, status.Current)
	if err != nil {
		fail("dump schema: %v", err)
	}

	if *check {
		existing, err := os.ReadFile(*out)
		if err != nil {
			fail("read %s: %v", *out, err)
		}
		if string(existing) != schema {
			fail("%s is stale; rerun without -check", *out)
		}
		fmt.Printf("%s is up to date (version %d)\n", *out, status.Current)
		return
	}

	if err := os.WriteFile(*out, []byte(schema), 0o644); err != nil {
		fail("write %s: %v", *out, err)
	}
	fmt.Printf("wrote %s (version %d)\n", *out, status.Current)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// dumpSchema lists tables before indexes, skipping SQLite internals and the
// migrate bookkeeping table.
func dumpSchema(db *sql.DB, version uint) (string, error) {
	rows, err := db.Query(`
		SELECT sql
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 1 ELSE 2 END, name
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "-- Generated from internal/database/migrations/files at version %d.\n", version)
	b.WriteString("-- Do not edit; run `go run ./internal/database/tools` instead.\n\n")
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", err
		}
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	return b.String(), rows.Err()
}
