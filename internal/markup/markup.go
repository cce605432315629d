// Package markup parses the lightweight markup of a generated case note:
// **bold lines** are headings, *italic lines* are sub-headings and lines
// starting with --- are dividers. Everything else is paragraph text.
package markup

import (
	"strings"
)

type Kind int

const (
	Paragraph Kind = iota
	HeadingTop
	HeadingSecondary
	HeadingTertiary
	Divider
)

func (k Kind) String() string {
	switch k {
	case HeadingTop:
		return "heading_top"
	case HeadingSecondary:
		return "heading_secondary"
	case HeadingTertiary:
		return "heading_tertiary"
	case Divider:
		return "divider"
	default:
		return "paragraph"
	}
}

// topLevelKeywords promote a bold line to a top-level heading.
var topLevelKeywords = []string{"CHILD", "DEVELOPMENTAL", "SUMMARY", "RECOMMENDATIONS"}

type Block struct {
	Kind Kind
	Text string
}

// Section is a run of lines between blank lines.
type Section struct {
	Blocks []Block
}

type Document struct {
	Sections []Section
}

// Parse splits text on blank lines into sections and classifies each line.
// Inline emphasis is dropped.
func Parse(text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var doc Document
	var current Section
	flush := func() {
		if len(current.Blocks) > 0 {
			doc.Sections = append(doc.Sections, current)
		}
		current = Section{}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if block, ok := classify(trimmed); ok {
			current.Blocks = append(current.Blocks, block)
		}
	}
	flush()

	return doc
}

func classify(line string) (Block, bool) {
	switch {
	case strings.HasPrefix(line, "---"):
		return Block{Kind: Divider}, true
	case len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
		inner := strings.TrimSpace(strings.Trim(line, "*"))
		if inner == "" {
			return Block{}, false
		}
		for _, kw := range topLevelKeywords {
			if strings.Contains(inner, kw) {
				return Block{Kind: HeadingTop, Text: inner}, true
			}
		}
		return Block{Kind: HeadingSecondary, Text: inner}, true
	case len(line) > 2 && strings.HasPrefix(line, "*") && strings.HasSuffix(line, "*") && !strings.HasPrefix(line, "**"):
		inner := strings.TrimSpace(strings.Trim(line, "*"))
		if inner == "" {
			return Block{}, false
		}
		return Block{Kind: HeadingTertiary, Text: inner}, true
	default:
		return Block{Kind: Paragraph, Text: line}, true
	}
}

// Blocks flattens the document.
func (d Document) Blocks() []Block {
	var out []Block
	for _, s := range d.Sections {
		out = append(out, s.Blocks...)
	}
	return out
}

// SectionBody returns the text under the first top-level heading containing
// keyword, up to the next heading or divider. Lines are joined with "\n".
func (d Document) SectionBody(keyword string) string {
	var lines []string
	inside := false
	for _, b := range d.Blocks() {
		if inside {
			if b.Kind != Paragraph && b.Kind != HeadingTertiary {
				break
			}
			lines = append(lines, b.Text)
			continue
		}
		if b.Kind == HeadingTop && strings.Contains(b.Text, keyword) {
			inside = true
		}
	}
	return strings.Join(lines, "\n")
}
