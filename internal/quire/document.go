package quire

import (
	"fmt"
	"time"
)

// Document is an ordered collection of blocks plus its metadata. Methods
// never modify the receiver; each returns the updated copy.
type Document struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Blocks      []Block
}

// DocumentSummary is the slice of a document offered to the content
// generator when it picks a target.
type DocumentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewDocument returns an empty document created at now.
func NewDocument(id, name, description string, now time.Time) Document {
	return Document{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Blocks:      []Block{},
	}
}

func (d Document) Summary() DocumentSummary {
	return DocumentSummary{ID: d.ID, Name: d.Name, Description: d.Description}
}

// IndexOf returns the position of the block with the given ID, or -1.
func (d Document) IndexOf(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// InsertBlock places b at index. An index outside [0, len] appends.
func (d Document) InsertBlock(b Block, index int, now time.Time) (Document, error) {
	if d.IndexOf(b.ID) >= 0 {
		return d, &DuplicateBlockError{ID: b.ID}
	}
	if index < 0 || index > len(d.Blocks) {
		index = len(d.Blocks)
	}
	blocks := make([]Block, 0, len(d.Blocks)+1)
	blocks = append(blocks, d.Blocks[:index]...)
	blocks = append(blocks, b)
	blocks = append(blocks, d.Blocks[index:]...)
	return d.withBlocks(blocks, now), nil
}

// UpdateBlock swaps the payload of block id for v. The identifier and the
// block's position are kept.
func (d Document) UpdateBlock(id string, v Variant, now time.Time) (Document, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, fmt.Errorf("updating block %s: %w", id, ErrBlockNotFound)
	}
	blocks := d.cloneBlocks()
	blocks[i] = Block{ID: id, Variant: v}
	return d.withBlocks(blocks, now), nil
}

func (d Document) RemoveBlock(id string, now time.Time) (Document, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, fmt.Errorf("removing block %s: %w", id, ErrBlockNotFound)
	}
	blocks := make([]Block, 0, len(d.Blocks)-1)
	blocks = append(blocks, d.Blocks[:i]...)
	blocks = append(blocks, d.Blocks[i+1:]...)
	return d.withBlocks(blocks, now), nil
}

func (d Document) WithMetadata(name, description string, now time.Time) Document {
	d.Blocks = d.cloneBlocks()
	d.Name = name
	d.Description = description
	d.UpdatedAt = now
	return d
}

func (d Document) cloneBlocks() []Block {
	out := make([]Block, len(d.Blocks))
	copy(out, d.Blocks)
	return out
}

func (d Document) withBlocks(blocks []Block, now time.Time) Document {
	d.Blocks = blocks
	d.UpdatedAt = now
	return d
}
