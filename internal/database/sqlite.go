package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"quire/internal/database/migrations"
	"quire/internal/database/sqlc"
	"quire/internal/quire"
)

// SQLiteDatabase implements quire.Store on SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
	clock   quire.Clock
	ids     quire.IDGenerator
}

// NewSQLiteDatabase opens the database at path (a file path or ":memory:").
// A nil clock or ids falls back to the real clock and random UUIDs.
func NewSQLiteDatabase(path string, clock quire.Clock, ids quire.IDGenerator) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	s := NewSQLiteDatabaseFromDB(db, clock, ids)
	s.path = path
	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection opened with
// OpenConnection.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock quire.Clock, ids quire.IDGenerator) *SQLiteDatabase {
	if clock == nil {
		clock = quire.RealClock{}
	}
	if ids == nil {
		ids = quire.UUIDGenerator{}
	}
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
		ids:     ids,
	}
}

// OpenConnection opens and configures a SQLite connection. It is exported
// for tools and tests that need the same configuration.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: every ":memory:" connection is a separate database,
	// and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Document operations

func (s *SQLiteDatabase) ListDocuments(ctx context.Context) ([]*quire.Document, error) {
	rows, err := s.queries.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	blockRows, err := s.queries.ListAllBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing blocks: %w", err)
	}

	byDoc := make(map[string][]sqlc.Block, len(rows))
	for _, b := range blockRows {
		byDoc[b.DocumentID] = append(byDoc[b.DocumentID], b)
	}

	docs := make([]*quire.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := documentFromRows(row, byDoc[row.ID])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *SQLiteDatabase) GetDocument(ctx context.Context, id string) (*quire.Document, error) {
	return s.loadDocument(ctx, s.queries, id)
}

func (s *SQLiteDatabase) loadDocument(ctx context.Context, q *sqlc.Queries, id string) (*quire.Document, error) {
	row, err := q.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding document: %w", err)
	}
	blocks, err := q.ListBlocksByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing blocks for %s: %w", id, err)
	}
	return documentFromRows(row, blocks)
}

func (s *SQLiteDatabase) CreateDocument(ctx context.Context, name, description string) (*quire.Document, error) {
	now := s.clock.Now().UTC()
	row, err := s.queries.InsertDocument(ctx, sqlc.InsertDocumentParams{
		ID:          s.ids.New(),
		Name:        name,
		Description: nullString(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	return documentFromRows(row, nil)
}

func (s *SQLiteDatabase) UpdateDocumentMetadata(ctx context.Context, id string, fields quire.DocumentFields) (*quire.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding document: %w", err)
	}

	params := sqlc.UpdateDocumentParams{
		Name:        current.Name,
		Description: current.Description,
		UpdatedAt:   s.clock.Now().UTC(),
		ID:          id,
	}
	if fields.Name != nil {
		params.Name = *fields.Name
	}
	if fields.Description != nil {
		params.Description = nullString(*fields.Description)
	}
	if _, err := qtx.UpdateDocument(ctx, params); err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}

	doc, err := s.loadDocument(ctx, qtx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

// SaveDocument rewrites the document row and its whole block list.
func (s *SQLiteDatabase) SaveDocument(ctx context.Context, doc quire.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	_, err = qtx.UpdateDocument(ctx, sqlc.UpdateDocumentParams{
		Name:        doc.Name,
		Description: nullString(doc.Description),
		UpdatedAt:   doc.UpdatedAt.UTC(),
		ID:          doc.ID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("saving document %s: %w", doc.ID, quire.ErrDocumentNotFound)
		}
		return fmt.Errorf("updating document: %w", err)
	}

	if err := qtx.DeleteBlocksByDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("clearing blocks: %w", err)
	}

	now := s.clock.Now().UTC()
	for i, b := range doc.Blocks {
		if err := insertBlock(ctx, qtx, doc.ID, b, i, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Block operations

func (s *SQLiteDatabase) InsertBlocks(ctx context.Context, documentID string, blocks []quire.Block) (*quire.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	if _, err := qtx.GetDocument(ctx, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("inserting blocks: %w", quire.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("finding document: %w", err)
	}

	last, err := qtx.GetMaxBlockPosition(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("finding last position: %w", err)
	}

	now := s.clock.Now().UTC()
	for i, b := range blocks {
		if b.ID == "" {
			b.ID = s.ids.New()
		}
		if err := insertBlock(ctx, qtx, documentID, b, int(last)+1+i, now); err != nil {
			return nil, err
		}
	}

	if err := qtx.TouchDocument(ctx, sqlc.TouchDocumentParams{UpdatedAt: now, ID: documentID}); err != nil {
		return nil, fmt.Errorf("touching document: %w", err)
	}

	doc, err := s.loadDocument(ctx, qtx, documentID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

func (s *SQLiteDatabase) UpdateBlock(ctx context.Context, documentID string, b quire.Block) (*quire.Document, error) {
	rec := quire.EncodeRecord(b, 0)
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata for block %s: %w", b.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	n, err := qtx.UpdateBlockContent(ctx, sqlc.UpdateBlockContentParams{
		Type:       rec.Type,
		Content:    nullStringPtr(rec.Content),
		Level:      nullIntPtr(rec.Level),
		Metadata:   string(meta),
		ID:         b.ID,
		DocumentID: documentID,
	})
	if err != nil {
		return nil, fmt.Errorf("updating block: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("updating block %s: %w", b.ID, quire.ErrBlockNotFound)
	}

	now := s.clock.Now().UTC()
	if err := qtx.TouchDocument(ctx, sqlc.TouchDocumentParams{UpdatedAt: now, ID: documentID}); err != nil {
		return nil, fmt.Errorf("touching document: %w", err)
	}

	doc, err := s.loadDocument(ctx, qtx, documentID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

func (s *SQLiteDatabase) DeleteBlock(ctx context.Context, documentID, blockID string) (*quire.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	n, err := qtx.DeleteBlock(ctx, sqlc.DeleteBlockParams{ID: blockID, DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("deleting block: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("deleting block %s: %w", blockID, quire.ErrBlockNotFound)
	}

	// Close the gap so positions stay equal to array indexes.
	remaining, err := qtx.ListBlocksByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing blocks: %w", err)
	}
	for i, b := range remaining {
		if b.Position == int64(i) {
			continue
		}
		err := qtx.UpdateBlockPosition(ctx, sqlc.UpdateBlockPositionParams{Position: int64(i), ID: b.ID})
		if err != nil {
			return nil, fmt.Errorf("renumbering block %s: %w", b.ID, err)
		}
	}

	now := s.clock.Now().UTC()
	if err := qtx.TouchDocument(ctx, sqlc.TouchDocumentParams{UpdatedAt: now, ID: documentID}); err != nil {
		return nil, fmt.Errorf("touching document: %w", err)
	}

	doc, err := s.loadDocument(ctx, qtx, documentID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

// insertBlock writes one block row. A primary key collision is reported
// as a duplicate block identifier.
func insertBlock(ctx context.Context, q *sqlc.Queries, documentID string, b quire.Block, position int, now time.Time) error {
	rec := quire.EncodeRecord(b, position)
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata for block %s: %w", b.ID, err)
	}
	err = q.InsertBlock(ctx, sqlc.InsertBlockParams{
		ID:         rec.ID,
		DocumentID: documentID,
		Type:       rec.Type,
		Content:    nullStringPtr(rec.Content),
		Level:      nullIntPtr(rec.Level),
		Metadata:   string(meta),
		Position:   int64(rec.Position),
		CreatedAt:  now,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return &quire.DuplicateBlockError{ID: b.ID}
		}
		return fmt.Errorf("inserting block %s: %w", b.ID, err)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Image operations

func (s *SQLiteDatabase) CreateImage(ctx context.Context, img quire.ImageRecord) (*quire.ImageRecord, error) {
	if img.ID == "" {
		img.ID = s.ids.New()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = s.clock.Now()
	}
	row, err := s.queries.InsertImage(ctx, sqlc.InsertImageParams{
		ID:         img.ID,
		DocumentID: img.DocumentID,
		Url:        img.URL,
		Filename:   img.Filename,
		MimeType:   img.MimeType,
		Size:       img.Size,
		CreatedAt:  img.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting image: %w", err)
	}
	return imageFromRow(row), nil
}

func (s *SQLiteDatabase) ListImages(ctx context.Context, documentID string) ([]*quire.ImageRecord, error) {
	rows, err := s.queries.ListImagesByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	result := make([]*quire.ImageRecord, len(rows))
	for i := range rows {
		result[i] = imageFromRow(rows[i])
	}
	return result, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, name, parameters string) (*quire.Operation, error) {
	row, err := s.queries.InsertOperation(ctx, sqlc.InsertOperationParams{
		Name:       name,
		Parameters: parameters,
		StartedAt:  s.clock.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return operationFromRow(row), nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string) error {
	err := s.queries.FinishOperation(ctx, sqlc.FinishOperationParams{
		Status:     status,
		FinishedAt: sql.NullTime{Time: s.clock.Now().UTC(), Valid: true},
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*quire.Operation, error) {
	rows, err := s.queries.ListOperations(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	result := make([]*quire.Operation, len(rows))
	for i := range rows {
		result[i] = operationFromRow(rows[i])
	}
	return result, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the applied and embedded schema versions.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.GetStatus(s.db)
}

// MigrateUp applies any pending migrations.
func (s *SQLiteDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ quire.Store = (*SQLiteDatabase)(nil)
