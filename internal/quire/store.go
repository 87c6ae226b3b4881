package quire

import (
	"context"
	"time"
)

// Store persists documents, their blocks and the bookkeeping around them.
// Lookups return nil, nil when the row does not exist.
type Store interface {
	// Document operations

	// ListDocuments returns every document, most recently updated first,
	// each with its blocks in position order.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// GetDocument returns the document with its blocks in position order.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// CreateDocument assigns an identifier and timestamps to a new, empty document.
	CreateDocument(ctx context.Context, name, description string) (*Document, error)

	// UpdateDocumentMetadata changes the fields that are set and refreshes
	// updated_at. Returns nil, nil for an unknown id.
	UpdateDocumentMetadata(ctx context.Context, id string, fields DocumentFields) (*Document, error)

	// SaveDocument writes the document's metadata and replaces its complete
	// block list in one transaction. Positions follow slice order.
	SaveDocument(ctx context.Context, doc Document) error

	// Block operations

	// InsertBlocks appends blocks after the document's existing blocks.
	// Blocks with an empty ID receive a generated one. An ID that is already
	// stored fails the whole batch with ErrDuplicateBlockIdentifier.
	InsertBlocks(ctx context.Context, documentID string, blocks []Block) (*Document, error)

	// UpdateBlock replaces the stored payload of b, keeping its position.
	UpdateBlock(ctx context.Context, documentID string, b Block) (*Document, error)

	// DeleteBlock removes a block and closes the gap in positions.
	DeleteBlock(ctx context.Context, documentID, blockID string) (*Document, error)

	// Image operations

	CreateImage(ctx context.Context, img ImageRecord) (*ImageRecord, error)
	ListImages(ctx context.Context, documentID string) ([]*ImageRecord, error)

	// Operation tracking

	CreateOperation(ctx context.Context, name, parameters string) (*Operation, error)
	FinishOperation(ctx context.Context, id int64, status string) error
	ListOperations(ctx context.Context, limit int) ([]*Operation, error)

	// Close closes the underlying connection.
	Close() error
}

// DocumentFields selects which metadata fields to change. Nil means keep.
type DocumentFields struct {
	Name        *string
	Description *string
}

// ImageRecord describes an uploaded image object.
type ImageRecord struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Operation is one recorded invocation of a mutating command.
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
