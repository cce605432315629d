package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"

	"assessmate.app/casenote/internal/markup"
	"assessmate.app/casenote/internal/model"
)

const dividerRule = "__________________________________________________"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is the document name for a note: case-note-<childId>-<sessionDate>.docx.
func Filename(metadata model.CaseNoteMetadata) string {
	child := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(metadata.ChildID), "-")
	date := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(metadata.SessionDate), "-")
	return fmt.Sprintf("case-note-%s-%s.docx", child, date)
}

// headingLevel maps markup heading kinds to document heading levels.
var headingLevel = map[markup.Kind]uint{
	markup.HeadingTop:       1,
	markup.HeadingSecondary: 2,
	markup.HeadingTertiary:  3,
}

// ToDocument renders the note text as a word-processing document at path.
// Formatting beyond headings, dividers and paragraphs is lost.
func ToDocument(text, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	for _, block := range markup.Parse(text).Blocks() {
		switch block.Kind {
		case markup.HeadingTop, markup.HeadingSecondary, markup.HeadingTertiary:
			if _, err := doc.AddHeading(block.Text, headingLevel[block.Kind]); err != nil {
				return fmt.Errorf("adding heading: %w", err)
			}
		case markup.Divider:
			doc.AddParagraph(dividerRule)
		default:
			doc.AddParagraph(block.Text)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}
