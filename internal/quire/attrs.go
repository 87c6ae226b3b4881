package quire

import (
	"math"
	"strconv"
)

// Attribute keys shared by the client JSON shape and the persisted metadata
// bag. Code language is the one key that differs between the two.
const (
	keyFormatting      = "formatting"
	keyItems           = "items"
	keyLanguage        = "language"
	keyCodeLanguage    = "codeLanguage"
	keyTheme           = "theme"
	keyShowLineNumbers = "showLineNumbers"
	keyCollapsible     = "collapsible"
	keyCopyButton      = "copyButton"
	keyImageURL        = "imageUrl"
	keyAltText         = "altText"
	keyWidth           = "width"
	keyHeight          = "height"
	keyAlignment       = "alignment"
	keyCaption         = "caption"
)

// decodeVariant builds the typed payload for typ from loosely typed
// attributes. Attributes with an unexpected shape are ignored.
func decodeVariant(typ string, content string, level int, attrs map[string]any) Variant {
	switch BlockType(typ) {
	case TypeHeading:
		return Heading{Content: content, Level: level}
	case TypeSubheading:
		return Subheading{Content: content, Level: level}
	case TypeParagraph:
		return Paragraph{Content: content, Formatting: formattingAttr(attrs)}
	case TypeQuote:
		return Quote{Content: content, Formatting: formattingAttr(attrs)}
	case TypeBulletedList:
		return BulletedList{Items: itemsAttr(attrs)}
	case TypeNumberedList:
		return NumberedList{Items: itemsAttr(attrs)}
	case TypeCode:
		lang := stringAttr(attrs, keyCodeLanguage)
		if lang == "" {
			lang = stringAttr(attrs, keyLanguage)
		}
		return Code{
			Content:         content,
			Language:        lang,
			ShowLineNumbers: boolAttr(attrs, keyShowLineNumbers),
			Theme:           stringAttr(attrs, keyTheme),
			Collapsible:     boolAttr(attrs, keyCollapsible),
			CopyButton:      boolAttr(attrs, keyCopyButton),
		}
	case TypeImage:
		return Image{
			URL:       stringAttr(attrs, keyImageURL),
			AltText:   stringAttr(attrs, keyAltText),
			Width:     dimensionAttr(attrs, keyWidth),
			Height:    dimensionAttr(attrs, keyHeight),
			Alignment: alignmentAttr(attrs),
			Caption:   stringAttr(attrs, keyCaption),
		}
	}
	rest := make(map[string]any, len(attrs))
	for k, v := range attrs {
		rest[k] = v
	}
	return Unknown{RawType: typ, Content: content, Attrs: rest}
}

// encodeAttrs flattens the optional attributes of v. langKey selects the
// key used for the code language.
func encodeAttrs(v Variant, langKey string) map[string]any {
	attrs := map[string]any{}
	switch p := v.(type) {
	case Paragraph:
		putFormatting(attrs, p.Formatting)
	case Quote:
		putFormatting(attrs, p.Formatting)
	case BulletedList:
		attrs[keyItems] = copyItems(p.Items)
	case NumberedList:
		attrs[keyItems] = copyItems(p.Items)
	case Code:
		if p.Language != "" {
			attrs[langKey] = p.Language
		}
		if p.Theme != "" {
			attrs[keyTheme] = p.Theme
		}
		attrs[keyShowLineNumbers] = p.ShowLineNumbers
		attrs[keyCollapsible] = p.Collapsible
		attrs[keyCopyButton] = p.CopyButton
	case Image:
		attrs[keyImageURL] = p.URL
		putString(attrs, keyAltText, p.AltText)
		putString(attrs, keyWidth, p.Width)
		putString(attrs, keyHeight, p.Height)
		putString(attrs, keyAlignment, string(p.Alignment))
		putString(attrs, keyCaption, p.Caption)
	case Unknown:
		for k, val := range p.Attrs {
			attrs[k] = val
		}
	}
	return attrs
}

// variantText returns the content string and heading level carried by v.
// ok is false for variants without a content field.
func variantText(v Variant) (content string, level int, ok bool) {
	switch p := v.(type) {
	case Heading:
		return p.Content, p.Level, true
	case Subheading:
		return p.Content, p.Level, true
	case Paragraph:
		return p.Content, 0, true
	case Quote:
		return p.Content, 0, true
	case Code:
		return p.Content, 0, true
	case Unknown:
		return p.Content, 0, p.Content != ""
	}
	return "", 0, false
}

func putFormatting(attrs map[string]any, f Formatting) {
	if f.isZero() {
		return
	}
	attrs[keyFormatting] = map[string]any{
		"bold":      f.Bold,
		"italic":    f.Italic,
		"underline": f.Underline,
	}
}

func putString(attrs map[string]any, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}

func copyItems(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func formattingAttr(attrs map[string]any) Formatting {
	m, ok := attrs[keyFormatting].(map[string]any)
	if !ok {
		return Formatting{}
	}
	return Formatting{
		Bold:      boolAttr(m, "bold"),
		Italic:    boolAttr(m, "italic"),
		Underline: boolAttr(m, "underline"),
	}
}

func itemsAttr(attrs map[string]any) []string {
	switch raw := attrs[keyItems].(type) {
	case []string:
		return copyItems(raw)
	case []any:
		items := make([]string, 0, len(raw))
		for _, it := range raw {
			if s, ok := it.(string); ok {
				items = append(items, s)
			}
		}
		return items
	}
	return []string{}
}

func stringAttr(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func boolAttr(attrs map[string]any, key string) bool {
	b, _ := attrs[key].(bool)
	return b
}

func alignmentAttr(attrs map[string]any) Alignment {
	switch a := Alignment(stringAttr(attrs, keyAlignment)); a {
	case AlignLeft, AlignCenter, AlignRight:
		return a
	}
	return ""
}

// dimensionAttr accepts either a string or a JSON number.
func dimensionAttr(attrs map[string]any, key string) string {
	switch v := attrs[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// levelValue converts a decoded JSON level to an int. Non-numeric values
// yield 0, which renders as level 1.
func levelValue(raw any) int {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
