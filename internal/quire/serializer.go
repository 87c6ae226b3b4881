package quire

import (
	"strconv"
	"strings"
)

// Serialize renders blocks back into dialect text. Images, unknown and
// malformed blocks have no text form and are left out. Parsing the result
// yields the same sequence of types, contents and items.
func Serialize(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		writeBlock(&sb, b)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, b Block) {
	switch v := b.Variant.(type) {
	case Heading:
		sb.WriteString(headingMark + v.Content + "\n")
	case Subheading:
		sb.WriteString(subheadMark + v.Content + "\n")
	case Paragraph:
		sb.WriteString(v.Content + "\n\n")
	case BulletedList:
		if len(v.Items) == 0 {
			return
		}
		for _, item := range v.Items {
			sb.WriteString(bulletMark + item + "\n")
		}
		sb.WriteString("\n")
	case NumberedList:
		if len(v.Items) == 0 {
			return
		}
		for i, item := range v.Items {
			sb.WriteString(strconv.Itoa(i+1) + ". " + item + "\n")
		}
		sb.WriteString("\n")
	case Quote:
		sb.WriteString(quoteMark + v.Content + "\n\n")
	case Code:
		sb.WriteString(fenceMarker + v.Language + "\n")
		sb.WriteString(v.Content)
		if v.Content != "" && !strings.HasSuffix(v.Content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(fenceMarker + "\n\n")
	}
}
