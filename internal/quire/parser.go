package quire

import (
	"regexp"
	"strings"
)

const (
	fenceMarker = "```"
	headingMark = "# "
	subheadMark = "## "
	quoteMark   = "> "
	bulletMark  = "• "
)

var numberedItem = regexp.MustCompile(`^\d+\.\s`)

// lineKind is the classification of one input line outside a fence.
type lineKind int

const (
	lineFence lineKind = iota
	lineBlank
	lineHeading
	lineSubheading
	lineQuote
	lineBullet
	lineNumbered
	lineText
)

// classifyLine applies the dialect's prefix rules to a trimmed line and
// returns its kind together with the text after the prefix.
func classifyLine(trimmed string) (lineKind, string) {
	switch {
	case strings.HasPrefix(trimmed, fenceMarker):
		return lineFence, strings.TrimSpace(trimmed[len(fenceMarker):])
	case trimmed == "":
		return lineBlank, ""
	case strings.HasPrefix(trimmed, headingMark):
		return lineHeading, trimmed[len(headingMark):]
	case strings.HasPrefix(trimmed, subheadMark):
		return lineSubheading, trimmed[len(subheadMark):]
	case strings.HasPrefix(trimmed, quoteMark):
		return lineQuote, trimmed[len(quoteMark):]
	case strings.HasPrefix(trimmed, bulletMark):
		return lineBullet, trimmed[len(bulletMark):]
	}
	if loc := numberedItem.FindStringIndex(trimmed); loc != nil {
		return lineNumbered, trimmed[loc[1]:]
	}
	return lineText, trimmed
}

// accKind tags what the parser is currently accumulating.
type accKind int

const (
	accNone accKind = iota
	accHeading
	accSubheading
	accParagraph
	accQuote
	accBulleted
	accNumbered
	accFence
)

// accumulator is the block under construction. Only the fields relevant
// to kind are meaningful.
type accumulator struct {
	kind  accKind
	text  string
	items []string
	lang  string
	code  strings.Builder
}

// Parser turns dialect text into blocks. It never fails: any line that
// matches no other rule becomes paragraph text.
type Parser struct {
	ids IDGenerator
}

func NewParser(ids IDGenerator) *Parser {
	return &Parser{ids: ids}
}

// Parse converts text to blocks with freshly generated identifiers.
func Parse(text string) []Block {
	return NewParser(UUIDGenerator{}).Parse(text)
}

// Parse converts text to blocks. Identifiers are drawn from the parser's
// generator in emission order.
func (p *Parser) Parse(text string) []Block {
	run := parseRun{ids: p.ids, out: []Block{}}
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		run.feed(strings.TrimSuffix(line, "\r"))
	}
	run.flush()
	return run.out
}

type parseRun struct {
	ids IDGenerator
	acc accumulator
	out []Block
}

func (r *parseRun) feed(line string) {
	trimmed := strings.TrimSpace(line)

	if r.acc.kind == accFence {
		if strings.HasPrefix(trimmed, fenceMarker) {
			r.flush()
			return
		}
		r.acc.code.WriteString(line)
		r.acc.code.WriteByte('\n')
		return
	}

	kind, rest := classifyLine(trimmed)
	switch kind {
	case lineFence:
		r.open(accFence)
		r.acc.lang = rest
	case lineBlank:
		r.flush()
	case lineHeading:
		r.open(accHeading)
		r.acc.text = rest
	case lineSubheading:
		r.open(accSubheading)
		r.acc.text = rest
	case lineQuote:
		r.open(accQuote)
		r.acc.text = rest
	case lineBullet:
		if r.acc.kind != accBulleted {
			r.open(accBulleted)
		}
		r.acc.items = append(r.acc.items, rest)
	case lineNumbered:
		if r.acc.kind != accNumbered {
			r.open(accNumbered)
		}
		r.acc.items = append(r.acc.items, rest)
	case lineText:
		if r.acc.kind == accParagraph {
			r.acc.text += " " + rest
			return
		}
		r.open(accParagraph)
		r.acc.text = rest
	}
}

// open emits whatever is pending and starts a new accumulator of kind k.
func (r *parseRun) open(k accKind) {
	r.flush()
	r.acc.kind = k
}

func (r *parseRun) flush() {
	var v Variant
	switch r.acc.kind {
	case accNone:
		return
	case accHeading:
		v = Heading{Content: r.acc.text, Level: 1}
	case accSubheading:
		v = Subheading{Content: r.acc.text, Level: 2}
	case accParagraph:
		v = Paragraph{Content: r.acc.text}
	case accQuote:
		v = Quote{Content: r.acc.text, Formatting: Formatting{Italic: true}}
	case accBulleted:
		v = BulletedList{Items: r.acc.items}
	case accNumbered:
		v = NumberedList{Items: r.acc.items}
	case accFence:
		v = Code{
			Content:         r.acc.code.String(),
			Language:        r.acc.lang,
			ShowLineNumbers: true,
			CopyButton:      true,
		}
	}
	r.out = append(r.out, Block{ID: r.ids.New(), Variant: v})
	r.acc = accumulator{}
}
