package nesting

import (
	"path/filepath"
	"strings"

	"github.com/calvinalkan/nestkit/internal/fs"
)

// Detector finds the existing children and parents of a file.
//
// Results are computed from the live filesystem on every call and are
// never cached. A candidate whose existence check fails is treated as
// absent.
type Detector struct {
	FS    fs.FS
	Rules RuleSource
}

// NewDetector returns a Detector over fsys using rules.
func NewDetector(fsys fs.FS, rules RuleSource) *Detector {
	return &Detector{FS: fsys, Rules: rules}
}

// Relations holds both directions of a file's nesting relations.
type Relations struct {
	Children []string
	Parents  []string
}

// Empty reports whether neither children nor parents were found.
func (r Relations) Empty() bool {
	return len(r.Children) == 0 && len(r.Parents) == 0
}

// Children returns the existing child files of path. Every rule whose
// parent pattern matches the file's name contributes; the result is
// deduplicated and keeps first-seen order.
func (d *Detector) Children(path string) []string {
	name := filepath.Base(path)
	dir := filepath.Dir(path)

	var found pathSet

	for _, r := range d.Rules.RulesFor(path) {
		if !CompileParent(r.Parent).MatchString(name) {
			continue
		}

		capture := Capture(name, r.Parent)

		for _, child := range ExpandChildren(r.Children, capture) {
			candidate := filepath.Join(dir, child)
			if fs.FileExists(d.FS, candidate) {
				found.add(candidate)
			}
		}
	}

	return found.list()
}

// Parents returns the existing parent files of path. Within one rule the
// first child entry that captures the file's name decides the candidate;
// across rules every match is kept.
func (d *Detector) Parents(path string) []string {
	name := filepath.Base(path)
	dir := filepath.Dir(path)

	var found pathSet

	for _, r := range d.Rules.RulesFor(path) {
		for _, re := range r.childMatchers() {
			capture, ok := firstNonEmptyGroup(re, name)
			if !ok {
				continue
			}

			candidate := filepath.Join(dir, strings.ReplaceAll(r.Parent, parentWildcard, capture))
			if fs.FileExists(d.FS, candidate) {
				found.add(candidate)
			}

			break
		}
	}

	return found.list()
}

// Relations returns children and parents of path.
func (d *Detector) Relations(path string) Relations {
	return Relations{
		Children: d.Children(path),
		Parents:  d.Parents(path),
	}
}

// pathSet is an insertion-ordered set of paths.
type pathSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *pathSet) add(p string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}

	if _, ok := s.seen[p]; ok {
		return
	}

	s.seen[p] = struct{}{}
	s.order = append(s.order, p)
}

func (s *pathSet) list() []string {
	return s.order
}
