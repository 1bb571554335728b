// Package richtext flattens structured CMS rich text into plain strings.
package richtext

import "strings"

// Block types used by the posts page.
const (
	TypeParagraph = "paragraph"
	TypeHeading1  = "heading1"
)

// Span marks formatting over a range of a block's text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

// Block is one element of a rich-text field (a heading, a paragraph, a list item...).
type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Spans []Span `json:"spans,omitempty"`
}

// AsText joins the text of every block with a single space.
func AsText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}

// FirstOfType returns the first block whose type equals blockType.
func FirstOfType(blocks []Block, blockType string) (Block, bool) {
	for _, b := range blocks {
		if b.Type == blockType {
			return b, true
		}
	}
	return Block{}, false
}
