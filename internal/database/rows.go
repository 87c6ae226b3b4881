package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"quire/internal/database/sqlc"
	"quire/internal/quire"
)

// documentFromRows assembles a document from its row and its block rows,
// which must already be in position order.
func documentFromRows(row sqlc.Document, blocks []sqlc.Block) (*quire.Document, error) {
	doc := &quire.Document{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description.String,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
		Blocks:      make([]quire.Block, 0, len(blocks)),
	}
	for _, b := range blocks {
		block, err := blockFromRow(b)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return doc, nil
}

func blockFromRow(row sqlc.Block) (quire.Block, error) {
	rec := quire.BlockRecord{
		ID:       row.ID,
		Type:     row.Type,
		Position: int(row.Position),
	}
	if row.Content.Valid {
		content := row.Content.String
		rec.Content = &content
	}
	if row.Level.Valid {
		level := int(row.Level.Int64)
		rec.Level = &level
	}
	if row.Metadata != "" {
		if err := json.Unmarshal([]byte(row.Metadata), &rec.Metadata); err != nil {
			return quire.Block{}, fmt.Errorf("decoding metadata for block %s: %w", row.ID, err)
		}
	}
	return quire.DecodeRecord(rec), nil
}

func imageFromRow(row sqlc.Image) *quire.ImageRecord {
	return &quire.ImageRecord{
		ID:         row.ID,
		DocumentID: row.DocumentID,
		URL:        row.Url,
		Filename:   row.Filename,
		MimeType:   row.MimeType,
		Size:       row.Size,
		CreatedAt:  row.CreatedAt.UTC(),
	}
}

func operationFromRow(row sqlc.Operation) *quire.Operation {
	op := &quire.Operation{
		ID:         row.ID,
		Name:       row.Name,
		Parameters: row.Parameters,
		Status:     row.Status,
		StartedAt:  row.StartedAt.UTC(),
	}
	if row.FinishedAt.Valid {
		t := row.FinishedAt.Time.UTC()
		op.FinishedAt = &t
	}
	return op
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullIntPtr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
