package quire

// BlockType names one of the content variants a Block can hold.
type BlockType string

const (
	TypeHeading      BlockType = "heading"
	TypeSubheading   BlockType = "subheading"
	TypeParagraph    BlockType = "paragraph"
	TypeBulletedList BlockType = "bulleted_list"
	TypeNumberedList BlockType = "numbered_list"
	TypeQuote        BlockType = "quote"
	TypeCode         BlockType = "code"
	TypeImage        BlockType = "image"
)

// Block is one unit of document content. ID is assigned by the caller and
// never changes once the block exists. Variant holds the typed payload; a nil
// Variant marks a malformed block that renderers and the serializer skip.
type Block struct {
	ID      string
	Variant Variant
}

// Type returns the block's type tag. Unknown variants report the raw type
// they were decoded from.
func (b Block) Type() BlockType {
	if b.Variant == nil {
		return ""
	}
	return b.Variant.blockType()
}

// Variant is the closed set of block payloads. The unexported method keeps
// the set closed to this package.
type Variant interface {
	blockType() BlockType
}

// Formatting carries the inline text attributes supported by paragraphs and
// quotes.
type Formatting struct {
	Bold      bool
	Italic    bool
	Underline bool
}

func (f Formatting) isZero() bool {
	return !f.Bold && !f.Italic && !f.Underline
}

// Heading is a top-level heading. Level is clamped to 1–6 at render time.
type Heading struct {
	Content string
	Level   int
}

// Subheading is a secondary heading.
type Subheading struct {
	Content string
	Level   int
}

type Paragraph struct {
	Content    string
	Formatting Formatting
}

type BulletedList struct {
	Items []string
}

type NumberedList struct {
	Items []string
}

type Quote struct {
	Content    string
	Formatting Formatting
}

// Code is a fenced code block. Content keeps the verbatim lines, each
// terminated by a newline.
type Code struct {
	Content         string
	Language        string
	ShowLineNumbers bool
	Theme           string
	Collapsible     bool
	CopyButton      bool
}

// Alignment positions an image horizontally.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Image references an uploaded object by URL. Width and Height are kept as
// the strings they were provided as ("640", "50%").
type Image struct {
	URL       string
	AltText   string
	Width     string
	Height    string
	Alignment Alignment
	Caption   string
}

// Unknown preserves a block whose type this package does not recognize.
// Attrs holds every other attribute that arrived with it.
type Unknown struct {
	RawType string
	Content string
	Attrs   map[string]any
}

func (Heading) blockType() BlockType      { return TypeHeading }
func (Subheading) blockType() BlockType   { return TypeSubheading }
func (Paragraph) blockType() BlockType    { return TypeParagraph }
func (BulletedList) blockType() BlockType { return TypeBulletedList }
func (NumberedList) blockType() BlockType { return TypeNumberedList }
func (Quote) blockType() BlockType        { return TypeQuote }
func (Code) blockType() BlockType         { return TypeCode }
func (Image) blockType() BlockType        { return TypeImage }
func (u Unknown) blockType() BlockType    { return BlockType(u.RawType) }

// EffectiveLevel returns the heading level to render: level when it lies in
// 1–6, otherwise 1.
func EffectiveLevel(level int) int {
	if level < 1 || level > 6 {
		return 1
	}
	return level
}

// IsKnown reports whether t is one of the recognized block types.
func (t BlockType) IsKnown() bool {
	switch t {
	case TypeHeading, TypeSubheading, TypeParagraph, TypeBulletedList,
		TypeNumberedList, TypeQuote, TypeCode, TypeImage:
		return true
	}
	return false
}

// NewEmptyVariant returns the default payload for a freshly inserted block
// of type t, or nil when t is not a known type.
func NewEmptyVariant(t BlockType) Variant {
	switch t {
	case TypeHeading:
		return Heading{Level: 1}
	case TypeSubheading:
		return Subheading{Level: 2}
	case TypeParagraph:
		return Paragraph{}
	case TypeBulletedList:
		return BulletedList{Items: []string{}}
	case TypeNumberedList:
		return NumberedList{Items: []string{}}
	case TypeQuote:
		return Quote{}
	case TypeCode:
		return Code{ShowLineNumbers: true, CopyButton: true, Theme: "dark"}
	case TypeImage:
		return Image{}
	}
	return nil
}
