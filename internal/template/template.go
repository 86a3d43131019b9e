// Package template renders the initial content of newly created nested
// files. Templates are keyed by a file name pattern (the same `*` syntax as
// nesting parent patterns); the longest pattern that matches the new file's
// name wins.
package template

import (
	"strings"
	"time"

	"github.com/calvinalkan/nestkit/internal/nesting"
)

// Template is one pattern-keyed template body.
type Template struct {
	Pattern string
	Body    string
}

// Set is an ordered list of templates with unique patterns.
type Set []Template

// Merge returns s overlaid with over. A pattern already in s has its body
// replaced in place; new patterns are appended in over's order.
func (s Set) Merge(over Set) Set {
	out := make(Set, len(s), len(s)+len(over))
	copy(out, s)

	index := make(map[string]int, len(out))
	for i, t := range out {
		index[t.Pattern] = i
	}

	for _, t := range over {
		if i, ok := index[t.Pattern]; ok {
			out[i].Body = t.Body

			continue
		}

		index[t.Pattern] = len(out)
		out = append(out, t)
	}

	return out
}

// Select returns the template whose pattern matches nestedFileName and is
// the longest (by string length). Ties keep the earliest template.
func (s Set) Select(nestedFileName string) (Template, bool) {
	var (
		best  Template
		found bool
	)

	for _, t := range s {
		if !nesting.CompileParent(t.Pattern).MatchString(nestedFileName) {
			continue
		}

		if !found || len(t.Pattern) > len(best.Pattern) {
			best = t
			found = true
		}
	}

	return best, found
}

// Content selects the template for p.NestedFileName and renders it. The
// result is trimmed of surrounding whitespace. Without a matching template
// the content is empty.
func (s Set) Content(p Placeholders) string {
	t, ok := s.Select(p.NestedFileName)
	if !ok {
		return ""
	}

	return strings.TrimSpace(Render(t.Body, p))
}

// Placeholders are the values substituted into a template body.
type Placeholders struct {
	Name           string // parent file name without its final extension
	FileName       string // parent file name
	Capture        string // capture of the parent under the matched rule
	NestedFileName string // file being created
	NestedName     string // file being created, without its final extension
	Date           time.Time
}

// NewPlaceholders builds the placeholders for creating nestedFileName next
// to the parent fileName.
func NewPlaceholders(fileName, capture, nestedFileName string, now time.Time) Placeholders {
	return Placeholders{
		Name:           nesting.TrimExt(fileName),
		FileName:       fileName,
		Capture:        capture,
		NestedFileName: nestedFileName,
		NestedName:     nesting.TrimExt(nestedFileName),
		Date:           now,
	}
}

// Render replaces every {{key}} placeholder in body. Unknown keys are left
// as they are.
func Render(body string, p Placeholders) string {
	r := strings.NewReplacer(
		"{{name}}", p.Name,
		"{{fileName}}", p.FileName,
		"{{capture}}", p.Capture,
		"{{nestedFileName}}", p.NestedFileName,
		"{{nestedName}}", p.NestedName,
		"{{date}}", p.Date.Format(time.RFC3339),
	)

	return r.Replace(body)
}
