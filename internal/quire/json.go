package quire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MarshalJSON encodes the block in the flat client shape:
// {"id", "type", "content", "level", ...variant attributes}.
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Variant == nil {
		return json.Marshal(map[string]any{"id": b.ID})
	}
	out := encodeAttrs(b.Variant, keyCodeLanguage)
	out["id"] = b.ID
	out["type"] = string(b.Type())
	if content, level, ok := variantText(b.Variant); ok {
		out["content"] = content
		if level != 0 {
			out["level"] = level
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat client shape. Unrecognized types become
// Unknown variants; attributes with the wrong shape are dropped.
func (b *Block) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decoding block: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("decoding block: null")
	}

	id, _ := fields["id"].(string)
	typ, _ := fields["type"].(string)
	content, _ := fields["content"].(string)
	level := 0
	if BlockType(typ).IsKnown() {
		level = levelValue(fields["level"])
		delete(fields, "level")
	}
	delete(fields, "id")
	delete(fields, "type")
	delete(fields, "content")

	b.ID = id
	b.Variant = decodeVariant(typ, content, level, fields)
	return nil
}

type documentJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Blocks      []Block   `json:"blocks"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	blocks := d.Blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return json.Marshal(documentJSON{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		Blocks:      blocks,
	})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	*d = Document{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		Blocks:      raw.Blocks,
	}
	return nil
}

// DecodeBlocks parses a JSON array of client-shaped blocks.
func DecodeBlocks(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	return blocks, nil
}
