// Package symbols builds declaration outlines of source files and locates
// named symbols in them.
package symbols

import (
	"path/filepath"
	"sort"
	"strings"
)

// Position is a zero-based line and byte column.
type Position struct {
	Line      int
	Character int
}

// Range is a span between two positions. End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// Document is an in-memory text file.
type Document struct {
	Path       string
	LanguageID string
	Text       string

	lineStarts []int
}

// NewDocument returns a Document for text read from path. The language is
// derived from the file extension.
func NewDocument(path, text string) *Document {
	starts := []int{0}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &Document{
		Path:       path,
		LanguageID: LanguageID(path),
		Text:       text,
		lineStarts: starts,
	}
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// LineAt returns line n without its line terminator. Out of range lines
// are empty.
func (d *Document) LineAt(n int) string {
	if n < 0 || n >= len(d.lineStarts) {
		return ""
	}

	start := d.lineStarts[n]
	end := len(d.Text)

	if n+1 < len(d.lineStarts) {
		end = d.lineStarts[n+1] - 1
	}

	return strings.TrimSuffix(d.Text[start:end], "\r")
}

// OffsetAt converts a position to a byte offset, clamping to the document.
func (d *Document) OffsetAt(p Position) int {
	if p.Line < 0 {
		return 0
	}

	if p.Line >= len(d.lineStarts) {
		return len(d.Text)
	}

	lineLen := len(d.LineAt(p.Line))
	col := min(max(p.Character, 0), lineLen)

	return d.lineStarts[p.Line] + col
}

// PositionAt converts a byte offset to a position, clamping to the document.
func (d *Document) PositionAt(offset int) Position {
	offset = min(max(offset, 0), len(d.Text))
	line := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1

	return Position{Line: line, Character: offset - d.lineStarts[line]}
}

// LanguageID maps a file extension to an editor language identifier.
// Unknown extensions map to "plaintext".
func LanguageID(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "typescriptreact"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	default:
		return "plaintext"
	}
}
