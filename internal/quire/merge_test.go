package quire

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var (
	t0 = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func para(id, content string) Block {
	return Block{ID: id, Variant: Paragraph{Content: content}}
}

func docWith(blocks ...Block) Document {
	d := NewDocument("doc-1", "Notes", "", t0)
	d.Blocks = blocks
	return d
}

func TestMerge_Append(t *testing.T) {
	doc := docWith(para("a", "1"), para("b", "2"))
	batch := []Block{para("c", "3"), para("d", "4")}

	got, err := Merge(doc, batch, MergeAppend, t1)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := append(append([]Block{}, doc.Blocks...), batch...)
	if !reflect.DeepEqual(got.Blocks, want) {
		t.Errorf("Blocks = %v, want %v", got.Blocks, want)
	}
	if !got.UpdatedAt.Equal(t1) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, t1)
	}
	if len(doc.Blocks) != 2 {
		t.Errorf("input document was modified: %v", doc.Blocks)
	}
}

func TestMerge_AppendRejectsCollisions(t *testing.T) {
	tests := []struct {
		name   string
		batch  []Block
		wantID string
	}{
		{name: "collides with existing block", batch: []Block{para("new", "x"), para("b", "y")}, wantID: "b"},
		{name: "collides within batch", batch: []Block{para("c", "x"), para("c", "y")}, wantID: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docWith(para("a", "1"), para("b", "2"))

			got, err := Merge(doc, tt.batch, MergeAppend, t1)
			if !errors.Is(err, ErrDuplicateBlockIdentifier) {
				t.Fatalf("Merge() error = %v, want ErrDuplicateBlockIdentifier", err)
			}
			var dup *DuplicateBlockError
			if !errors.As(err, &dup) || dup.ID != tt.wantID {
				t.Errorf("duplicate ID = %v, want %q", dup, tt.wantID)
			}
			if !reflect.DeepEqual(got, doc) {
				t.Errorf("Merge() changed the document on failure: %+v", got)
			}
		})
	}
}

func TestMerge_Replace(t *testing.T) {
	doc := docWith(para("a", "1"), para("b", "2"))
	batch := []Block{para("b", "kept id"), para("z", "new")}

	got, err := Merge(doc, batch, MergeReplace, t1)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !reflect.DeepEqual(got.Blocks, batch) {
		t.Errorf("Blocks = %v, want %v", got.Blocks, batch)
	}

	batch[0] = para("mutated", "")
	if got.Blocks[0].ID != "b" {
		t.Error("Merge() result aliases the candidate slice")
	}
}

func TestMergeMode_String(t *testing.T) {
	if MergeReplace.String() != "replace" || MergeAppend.String() != "append" {
		t.Errorf("String() = %q, %q", MergeReplace, MergeAppend)
	}
	if MergeMode(9).String() != "unknown" {
		t.Errorf("MergeMode(9).String() = %q, want unknown", MergeMode(9))
	}
}
