// Package nesting implements the file nesting rules: compiling parent and
// child name patterns, extracting captures, expanding children templates,
// detecting related files, and propagating renames across them.
//
// A rule pairs a parent pattern with exactly one `*` wildcard (for example
// "*.component.ts") with a comma-separated children template
// ("${capture}.spec.ts, ${capture}.html"). Matching is purely name based;
// the only filesystem access is an existence check per candidate.
package nesting

import (
	"regexp"
	"strings"
)

// captureGroup replaces each wildcard or placeholder in a compiled pattern.
const captureGroup = "(.+?)"

// parentWildcard is the wildcard token of parent patterns.
const parentWildcard = "*"

// placeholderPattern matches the explicit capture placeholders of children
// templates. Both spellings are equivalent.
var placeholderPattern = regexp.MustCompile(`\$\(capture\)|\$\{capture\}`)

// CompileParent converts a parent pattern into an anchored matcher. Every
// `*` becomes a non-greedy capture group; everything else matches literally.
// Only the first group is ever consulted, so patterns with more than one
// wildcard have no defined capture.
func CompileParent(pattern string) *regexp.Regexp {
	return compileSegments(strings.Split(pattern, parentWildcard))
}

// CompileChild converts one children-template entry into an anchored
// matcher. The entry's placeholders ($(capture), ${capture}, or a bare `*`
// when neither explicit token is present) become capture groups. An entry
// without any placeholder matches only its literal name.
func CompileChild(entry string) *regexp.Regexp {
	return compileSegments(childSegments(entry))
}

func childSegments(entry string) []string {
	if placeholderPattern.MatchString(entry) {
		return placeholderPattern.Split(entry, -1)
	}

	return strings.Split(entry, parentWildcard)
}

func compileSegments(segments []string) *regexp.Regexp {
	quoted := make([]string, len(segments))
	for i, s := range segments {
		quoted[i] = regexp.QuoteMeta(s)
	}

	return regexp.MustCompile("^" + strings.Join(quoted, captureGroup) + "$")
}

// firstGroup returns the first capture group of re matched against name.
func firstGroup(re *regexp.Regexp, name string) (string, bool) {
	m := re.FindStringSubmatch(name)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}

	return m[1], true
}

// firstNonEmptyGroup returns the first non-empty capture group, if any.
func firstNonEmptyGroup(re *regexp.Regexp, name string) (string, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}

	for _, g := range m[1:] {
		if g != "" {
			return g, true
		}
	}

	return "", false
}
