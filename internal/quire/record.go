package quire

// BlockRecord is the persisted wire shape of a block: the typed payload is
// flattened into a content column, an optional level column and a free-form
// metadata bag. EncodeRecord and DecodeRecord are the only translation points.
type BlockRecord struct {
	ID       string
	Type     string
	Content  *string
	Level    *int
	Metadata map[string]any
	Position int
}

// EncodeRecord flattens b for storage at the given position.
func EncodeRecord(b Block, position int) BlockRecord {
	rec := BlockRecord{
		ID:       b.ID,
		Type:     string(b.Type()),
		Metadata: map[string]any{},
		Position: position,
	}
	if b.Variant == nil {
		return rec
	}
	rec.Metadata = encodeAttrs(b.Variant, keyLanguage)
	if content, level, ok := variantText(b.Variant); ok {
		rec.Content = &content
		if level != 0 {
			rec.Level = &level
		}
	}
	return rec
}

// DecodeRecord restores the typed block held by rec. The record's position
// is not part of the block; callers order records before decoding.
func DecodeRecord(rec BlockRecord) Block {
	var content string
	if rec.Content != nil {
		content = *rec.Content
	}
	level := 0
	if rec.Level != nil {
		level = *rec.Level
	}
	meta := rec.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return Block{ID: rec.ID, Variant: decodeVariant(rec.Type, content, level, meta)}
}
