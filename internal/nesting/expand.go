package nesting

import "strings"

// SplitTemplate splits a children template on commas, trimming whitespace
// and dropping empty entries.
func SplitTemplate(template string) []string {
	parts := strings.Split(template, ",")
	entries := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		entries = append(entries, p)
	}

	return entries
}

// ExpandChildren produces the concrete child file names of a children
// template for one capture value, in template order. Duplicates are kept.
func ExpandChildren(template, capture string) []string {
	entries := SplitTemplate(template)
	names := make([]string, len(entries))

	for i, e := range entries {
		names[i] = ExpandEntry(e, capture)
	}

	return names
}

// ExpandEntry substitutes capture for every placeholder of one entry.
func ExpandEntry(entry, capture string) string {
	if placeholderPattern.MatchString(entry) {
		return placeholderPattern.ReplaceAllLiteralString(entry, capture)
	}

	return strings.ReplaceAll(entry, parentWildcard, capture)
}
