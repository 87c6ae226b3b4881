package quire

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// Visitor receives one call per block, selected by the block's variant.
// Unknown is called for types this package does not recognize.
type Visitor interface {
	Heading(id string, h Heading) error
	Subheading(id string, h Subheading) error
	Paragraph(id string, p Paragraph) error
	BulletedList(id string, l BulletedList) error
	NumberedList(id string, l NumberedList) error
	Quote(id string, q Quote) error
	Code(id string, c Code) error
	Image(id string, img Image) error
	Unknown(id string, u Unknown) error
}

// Walk dispatches every block to v in order. Malformed blocks are skipped.
// The first error returned by v stops the walk.
func Walk(blocks []Block, v Visitor) error {
	for _, b := range blocks {
		var err error
		switch p := b.Variant.(type) {
		case Heading:
			err = v.Heading(b.ID, p)
		case Subheading:
			err = v.Subheading(b.ID, p)
		case Paragraph:
			err = v.Paragraph(b.ID, p)
		case BulletedList:
			err = v.BulletedList(b.ID, p)
		case NumberedList:
			err = v.NumberedList(b.ID, p)
		case Quote:
			err = v.Quote(b.ID, p)
		case Code:
			err = v.Code(b.ID, p)
		case Image:
			err = v.Image(b.ID, p)
		case Unknown:
			err = v.Unknown(b.ID, p)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// HTMLRenderer writes blocks as an HTML fragment.
type HTMLRenderer struct {
	w io.Writer
}

var _ Visitor = (*HTMLRenderer)(nil)

func NewHTMLRenderer(w io.Writer) *HTMLRenderer {
	return &HTMLRenderer{w: w}
}

// RenderHTML writes the HTML fragment for blocks to w.
func RenderHTML(w io.Writer, blocks []Block) error {
	return Walk(blocks, NewHTMLRenderer(w))
}

func (r *HTMLRenderer) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(r.w, format, args...)
	return err
}

func (r *HTMLRenderer) Heading(id string, h Heading) error {
	level := EffectiveLevel(h.Level)
	return r.printf("<h%d id=\"%s\">%s</h%d>\n", level, esc(id), esc(h.Content), level)
}

func (r *HTMLRenderer) Subheading(id string, h Subheading) error {
	level := EffectiveLevel(h.Level)
	return r.printf("<h%d id=\"%s\">%s</h%d>\n", level, esc(id), esc(h.Content), level)
}

func (r *HTMLRenderer) Paragraph(id string, p Paragraph) error {
	return r.printf("<p id=\"%s\">%s</p>\n", esc(id), formatted(p.Content, p.Formatting))
}

func (r *HTMLRenderer) BulletedList(id string, l BulletedList) error {
	return r.list("ul", id, l.Items)
}

func (r *HTMLRenderer) NumberedList(id string, l NumberedList) error {
	return r.list("ol", id, l.Items)
}

func (r *HTMLRenderer) list(tag, id string, items []string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s id=\"%s\">", tag, esc(id))
	for _, item := range items {
		sb.WriteString("<li>" + esc(item) + "</li>")
	}
	fmt.Fprintf(&sb, "</%s>\n", tag)
	return r.printf("%s", sb.String())
}

func (r *HTMLRenderer) Quote(id string, q Quote) error {
	return r.printf("<blockquote id=\"%s\">%s</blockquote>\n", esc(id), formatted(q.Content, q.Formatting))
}

func (r *HTMLRenderer) Code(id string, c Code) error {
	class := ""
	if c.Language != "" {
		class = fmt.Sprintf(" class=\"language-%s\"", esc(c.Language))
	}
	return r.printf("<pre id=\"%s\"><code%s>%s</code></pre>\n", esc(id), class, esc(c.Content))
}

// Image renders nothing when the block has no URL.
func (r *HTMLRenderer) Image(id string, img Image) error {
	if img.URL == "" {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<figure id=\"%s\"", esc(id))
	if img.Alignment != "" {
		fmt.Fprintf(&sb, " class=\"align-%s\"", esc(string(img.Alignment)))
	}
	fmt.Fprintf(&sb, "><img src=\"%s\" alt=\"%s\"", esc(img.URL), esc(img.AltText))
	if img.Width != "" {
		fmt.Fprintf(&sb, " width=\"%s\"", esc(img.Width))
	}
	if img.Height != "" {
		fmt.Fprintf(&sb, " height=\"%s\"", esc(img.Height))
	}
	sb.WriteString(">")
	if img.Caption != "" {
		sb.WriteString("<figcaption>" + esc(img.Caption) + "</figcaption>")
	}
	sb.WriteString("</figure>\n")
	return r.printf("%s", sb.String())
}

// Unknown blocks have no visual form.
func (r *HTMLRenderer) Unknown(string, Unknown) error { return nil }

func formatted(content string, f Formatting) string {
	out := esc(content)
	if f.Underline {
		out = "<u>" + out + "</u>"
	}
	if f.Italic {
		out = "<em>" + out + "</em>"
	}
	if f.Bold {
		out = "<strong>" + out + "</strong>"
	}
	return out
}

func esc(s string) string { return html.EscapeString(s) }
