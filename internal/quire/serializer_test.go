package quire

import (
	"reflect"
	"testing"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		want   string
	}{
		{
			name:   "numbered list is renumbered",
			blocks: parse("1. a\n5. b\n"),
			want:   "1. a\n2. b\n\n",
		},
		{
			name: "heading and subheading have no blank line",
			blocks: []Block{
				{ID: "1", Variant: Heading{Content: "T", Level: 3}},
				{ID: "2", Variant: Subheading{Content: "S", Level: 2}},
			},
			want: "# T\n## S\n",
		},
		{
			name: "paragraph and quote",
			blocks: []Block{
				{ID: "1", Variant: Paragraph{Content: "p", Formatting: Formatting{Bold: true}}},
				{ID: "2", Variant: Quote{Content: "q"}},
			},
			want: "p\n\n> q\n\n",
		},
		{
			name:   "bulleted list",
			blocks: []Block{{ID: "1", Variant: BulletedList{Items: []string{"x", "y"}}}},
			want:   "• x\n• y\n\n",
		},
		{
			name:   "code without trailing newline gets one",
			blocks: []Block{{ID: "1", Variant: Code{Content: "x := 1", Language: "go"}}},
			want:   "```go\nx := 1\n```\n\n",
		},
		{
			name:   "code with trailing newline",
			blocks: []Block{{ID: "1", Variant: Code{Content: "x := 1\n"}}},
			want:   "```\nx := 1\n```\n\n",
		},
		{
			name: "blocks without a text form are omitted",
			blocks: []Block{
				{ID: "1", Variant: Image{URL: "https://x/y.png"}},
				{ID: "2", Variant: Unknown{RawType: "table", Content: "cells"}},
				{ID: "3"},
				{ID: "4", Variant: BulletedList{Items: []string{}}},
				{ID: "5", Variant: NumberedList{}},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.blocks); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

// shape drops identifiers and the attributes the text form cannot carry.
func shape(blocks []Block) []Variant {
	out := make([]Variant, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Variant)
	}
	return out
}

func TestSerialize_RoundTrip(t *testing.T) {
	inputs := []string{
		"# Title\n\n• one\n• two\n\nSome text.\n",
		"```ts\nconst x = 1;\n```\n",
		"1. a\n5. b\n",
		"## Part one\nIntro paragraph\nthat wraps.\n\n> a quote\n\n```\nraw # text\n\n  indented\n```\n# Next\n",
		"```go\nfunc main() {}",
		"lonely",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := parse(in)
			text := Serialize(first)
			second := parse(text)

			if !reflect.DeepEqual(shape(first), shape(second)) {
				t.Errorf("round trip changed blocks\nfirst:  %#v\nsecond: %#v\ntext: %q", shape(first), shape(second), text)
			}
			if again := Serialize(second); again != text {
				t.Errorf("serialization not idempotent: %q then %q", text, again)
			}
		})
	}
}
