package quire

import "time"

// MergeMode selects how candidate blocks combine with a document.
type MergeMode int

const (
	// MergeReplace discards the document's blocks in favour of the
	// candidates. Used after a full-text edit.
	MergeReplace MergeMode = iota
	// MergeAppend adds the candidates after the existing blocks.
	MergeAppend
)

func (m MergeMode) String() string {
	switch m {
	case MergeReplace:
		return "replace"
	case MergeAppend:
		return "append"
	}
	return "unknown"
}

// Merge combines candidates with doc. In append mode every candidate ID must
// be new to both the document and the batch; the first collision aborts the
// merge with a *DuplicateBlockError and doc is returned unchanged.
// Candidates are not otherwise validated.
func Merge(doc Document, candidates []Block, mode MergeMode, now time.Time) (Document, error) {
	switch mode {
	case MergeAppend:
		seen := make(map[string]struct{}, len(doc.Blocks)+len(candidates))
		for _, b := range doc.Blocks {
			seen[b.ID] = struct{}{}
		}
		for _, c := range candidates {
			if _, dup := seen[c.ID]; dup {
				return doc, &DuplicateBlockError{ID: c.ID}
			}
			seen[c.ID] = struct{}{}
		}
		blocks := make([]Block, 0, len(doc.Blocks)+len(candidates))
		blocks = append(blocks, doc.Blocks...)
		blocks = append(blocks, candidates...)
		return doc.withBlocks(blocks, now), nil
	default:
		blocks := make([]Block, len(candidates))
		copy(blocks, candidates)
		return doc.withBlocks(blocks, now), nil
	}
}
