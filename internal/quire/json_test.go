package quire

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func allVariants() []Block {
	return []Block{
		{ID: "h", Variant: Heading{Content: "Title", Level: 1}},
		{ID: "s", Variant: Subheading{Content: "Part", Level: 2}},
		{ID: "p", Variant: Paragraph{Content: "Body", Formatting: Formatting{Bold: true, Underline: true}}},
		{ID: "ul", Variant: BulletedList{Items: []string{"one", "two"}}},
		{ID: "ol", Variant: NumberedList{Items: []string{"a"}}},
		{ID: "q", Variant: Quote{Content: "wise", Formatting: Formatting{Italic: true}}},
		{ID: "c", Variant: Code{Content: "x := 1\n", Language: "go", ShowLineNumbers: true, Theme: "dark", Collapsible: true, CopyButton: true}},
		{ID: "i", Variant: Image{URL: "https://cdn/x.png", AltText: "x", Width: "640", Height: "50%", Alignment: AlignRight, Caption: "cap"}},
		{ID: "u", Variant: Unknown{RawType: "table", Content: "cells", Attrs: map[string]any{"rows": float64(2), "level": float64(9)}}},
	}
}

func TestBlockJSON_RoundTrip(t *testing.T) {
	data, err := json.Marshal(allVariants())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := DecodeBlocks(data)
	if err != nil {
		t.Fatalf("DecodeBlocks() error = %v", err)
	}
	if !reflect.DeepEqual(got, allVariants()) {
		t.Errorf("round trip mismatch\ngot  %#v\nwant %#v", got, allVariants())
	}
}

func TestBlock_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  map[string]any
	}{
		{
			name:  "code uses codeLanguage",
			block: Block{ID: "c", Variant: Code{Content: "x", Language: "ts"}},
			want: map[string]any{
				"id": "c", "type": "code", "content": "x", "codeLanguage": "ts",
				"showLineNumbers": false, "collapsible": false, "copyButton": false,
			},
		},
		{
			name:  "heading without level omits it",
			block: Block{ID: "h", Variant: Heading{Content: "T"}},
			want:  map[string]any{"id": "h", "type": "heading", "content": "T"},
		},
		{
			name:  "image has no content field",
			block: Block{ID: "i", Variant: Image{URL: "u"}},
			want:  map[string]any{"id": "i", "type": "image", "imageUrl": "u"},
		},
		{
			name:  "malformed block keeps only its id",
			block: Block{ID: "m"},
			want:  map[string]any{"id": "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.block)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MarshalJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlock_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Block
	}{
		{
			name: "language alias",
			in:   `{"id":"c","type":"code","content":"x","language":"py"}`,
			want: Block{ID: "c", Variant: Code{Content: "x", Language: "py"}},
		},
		{
			name: "codeLanguage wins over language",
			in:   `{"id":"c","type":"code","codeLanguage":"go","language":"py"}`,
			want: Block{ID: "c", Variant: Code{Language: "go"}},
		},
		{
			name: "numeric dimensions",
			in:   `{"id":"i","type":"image","imageUrl":"u","width":640,"height":480.5}`,
			want: Block{ID: "i", Variant: Image{URL: "u", Width: "640", Height: "480.5"}},
		},
		{
			name: "bad alignment is dropped",
			in:   `{"id":"i","type":"image","imageUrl":"u","alignment":"justify"}`,
			want: Block{ID: "i", Variant: Image{URL: "u"}},
		},
		{
			name: "wrongly typed attributes are ignored",
			in:   `{"id":"p","type":"paragraph","content":"x","formatting":"bold"}`,
			want: Block{ID: "p", Variant: Paragraph{Content: "x"}},
		},
		{
			name: "non-string items are skipped",
			in:   `{"id":"l","type":"bulleted_list","items":["a",1,"b"]}`,
			want: Block{ID: "l", Variant: BulletedList{Items: []string{"a", "b"}}},
		},
		{
			name: "missing items decode as empty",
			in:   `{"id":"l","type":"numbered_list"}`,
			want: Block{ID: "l", Variant: NumberedList{Items: []string{}}},
		},
		{
			name: "out of range level is kept for render-time clamping",
			in:   `{"id":"h","type":"heading","content":"T","level":12}`,
			want: Block{ID: "h", Variant: Heading{Content: "T", Level: 12}},
		},
		{
			name: "unknown type keeps remaining attributes",
			in:   `{"id":"x","type":"callout","content":"hi","tone":"warn"}`,
			want: Block{ID: "x", Variant: Unknown{RawType: "callout", Content: "hi", Attrs: map[string]any{"tone": "warn"}}},
		},
		{
			name: "missing id is left empty",
			in:   `{"type":"quote","content":"q"}`,
			want: Block{Variant: Quote{Content: "q"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Block
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnmarshalJSON() = %#v, want %#v", got, tt.want)
			}
		})
	}

	t.Run("rejects non-objects", func(t *testing.T) {
		for _, in := range []string{`[1]`, `"text"`} {
			var b Block
			if err := json.Unmarshal([]byte(in), &b); err == nil {
				t.Errorf("Unmarshal(%s) expected error", in)
			}
		}
	})
}

func TestDocumentJSON(t *testing.T) {
	doc := NewDocument("d1", "Notes", "", t0)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"id":"d1"`, `"name":"Notes"`, `"createdAt":"2024-01-15T10:30:00Z"`, `"blocks":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("Marshal() = %s, missing %s", s, want)
		}
	}
	if strings.Contains(s, "description") {
		t.Errorf("Marshal() = %s, want empty description omitted", s)
	}

	doc.Blocks = allVariants()
	data, _ = json.Marshal(doc)
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("document round trip mismatch\ngot  %+v\nwant %+v", back, doc)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	for i, b := range allVariants() {
		t.Run(b.ID, func(t *testing.T) {
			rec := EncodeRecord(b, i)
			if rec.Position != i || rec.Type != string(b.Type()) {
				t.Errorf("EncodeRecord() = %+v", rec)
			}

			// Persisted metadata goes through JSON text.
			raw, err := json.Marshal(rec.Metadata)
			if err != nil {
				t.Fatalf("Marshal(metadata) error = %v", err)
			}
			rec.Metadata = nil
			if err := json.Unmarshal(raw, &rec.Metadata); err != nil {
				t.Fatalf("Unmarshal(metadata) error = %v", err)
			}

			if got := DecodeRecord(rec); !reflect.DeepEqual(got, b) {
				t.Errorf("DecodeRecord() = %#v, want %#v", got, b)
			}
		})
	}
}

func TestEncodeRecord_CodeUsesLanguageKey(t *testing.T) {
	rec := EncodeRecord(Block{ID: "c", Variant: Code{Language: "rust"}}, 0)
	if rec.Metadata["language"] != "rust" {
		t.Errorf("metadata = %v, want language=rust", rec.Metadata)
	}
	if _, ok := rec.Metadata["codeLanguage"]; ok {
		t.Errorf("metadata = %v, want no codeLanguage key", rec.Metadata)
	}
	if rec.Content == nil || *rec.Content != "" {
		t.Errorf("Content = %v, want empty string pointer", rec.Content)
	}
	if rec.Level != nil {
		t.Errorf("Level = %v, want nil", *rec.Level)
	}
}
