package nesting

import "regexp"

// Rule pairs a parent pattern with its comma-separated children template.
type Rule struct {
	Parent   string
	Children string
}

// Entries returns the rule's children-template entries.
func (r Rule) Entries() []string {
	return SplitTemplate(r.Children)
}

// Rules is an ordered set of nesting rules. Order is configuration
// insertion order and decides which rule wins when several match.
type Rules []Rule

// RuleSource resolves the rules that apply to a file. Settings can differ
// per directory, so detectors ask for the rules of the path they inspect.
type RuleSource interface {
	RulesFor(path string) Rules
}

// RulesFor implements [RuleSource] for a fixed rule set.
func (rs Rules) RulesFor(string) Rules {
	return rs
}

// Match returns the first rule whose parent pattern matches fileName and
// the capture of fileName under it.
func (rs Rules) Match(fileName string) (Rule, string, bool) {
	for _, r := range rs {
		if CompileParent(r.Parent).MatchString(fileName) {
			return r, Capture(fileName, r.Parent), true
		}
	}

	return Rule{}, "", false
}

// MatchChild returns the first rule under which fileName is a child, with
// the capture taken from the first child entry that captures it.
func (rs Rules) MatchChild(fileName string) (Rule, string, bool) {
	for _, r := range rs {
		for _, entry := range r.Entries() {
			if c, ok := firstNonEmptyGroup(CompileChild(entry), fileName); ok {
				return r, c, true
			}
		}
	}

	return Rule{}, "", false
}

// childMatchers compiles every entry of r.
func (r Rule) childMatchers() []*regexp.Regexp {
	entries := r.Entries()
	res := make([]*regexp.Regexp, len(entries))

	for i, e := range entries {
		res[i] = CompileChild(e)
	}

	return res
}
