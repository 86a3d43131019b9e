package nesting

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/charmbracelet/log"
)

// Skip reasons reported by [Propagator.Sync].
const (
	SkipTargetExists = "target exists"
	SkipUnchanged    = "name unchanged"
	SkipFailed       = "rename failed"
	SkipCanceled     = "canceled"
)

// RenameOp is one rename of a related file.
type RenameOp struct {
	From string
	To   string
}

// Skipped is a rename that was considered but not performed.
type Skipped struct {
	RenameOp
	Reason string
	Err    error
}

// Report lists what a rename propagation did.
type Report struct {
	Renamed []RenameOp
	Skipped []Skipped
}

// Propagator keeps related files' names in sync when one file of a nesting
// relation is renamed. It never overwrites an existing file.
type Propagator struct {
	FS     fs.FS
	Rules  RuleSource
	Logger *log.Logger
}

// NewPropagator returns a Propagator over fsys using rules.
func NewPropagator(fsys fs.FS, rules RuleSource, logger *log.Logger) *Propagator {
	return &Propagator{FS: fsys, Rules: rules, Logger: logger}
}

// Sync renames the parents and children of oldPath to follow its rename to
// newPath. Relations are detected under the old name. Only renames within
// one directory are handled; anything else returns an empty report.
//
// Each related rename is attempted independently: a rename whose target
// already exists, or that fails, is recorded in [Report.Skipped] and the
// remaining candidates are still processed. Nothing is rolled back.
func (p *Propagator) Sync(ctx context.Context, oldPath, newPath string) Report {
	var report Report

	dir := filepath.Dir(oldPath)
	if dir != filepath.Dir(newPath) {
		p.debug("ignoring cross-directory rename", "from", oldPath, "to", newPath)

		return report
	}

	oldBase := filepath.Base(oldPath)
	newBase := filepath.Base(newPath)

	if oldBase == newBase {
		return report
	}

	rules := p.Rules.RulesFor(oldPath)
	detector := NewDetector(p.FS, rules)
	children := detector.Children(oldPath)
	parents := detector.Parents(oldPath)

	done := make(map[RenameOp]struct{})

	for _, r := range rules {
		parentRe := CompileParent(r.Parent)
		childRes := r.childMatchers()

		// This file is a child under r: rename its parents.
		for _, parent := range parents {
			parentBase := filepath.Base(parent)
			if !parentRe.MatchString(parentBase) {
				continue
			}

			oldCap, newCap, ok := firstCapturePair(childRes, oldBase, newBase)
			if !ok {
				continue
			}

			target := filepath.Join(dir, strings.Replace(parentBase, oldCap, newCap, 1))
			p.rename(ctx, &report, done, RenameOp{From: parent, To: target})
		}

		// This file is a parent under r: rename its children.
		oldCap, okOld := firstGroup(parentRe, oldBase)
		newCap, okNew := firstGroup(parentRe, newBase)

		if !okOld || !okNew {
			continue
		}

		for _, child := range children {
			childBase := filepath.Base(child)
			if !matchesAny(childRes, childBase) {
				continue
			}

			// Plain first-occurrence substitution: the old capture is
			// replaced wherever it first appears in the base name, even
			// inside a literal prefix of the entry ("test-t.ts" with
			// capture "t" becomes "uest-t.ts" for "u").
			target := filepath.Join(dir, strings.Replace(childBase, oldCap, newCap, 1))
			p.rename(ctx, &report, done, RenameOp{From: child, To: target})
		}
	}

	return report
}

func (p *Propagator) rename(ctx context.Context, report *Report, done map[RenameOp]struct{}, op RenameOp) {
	if _, ok := done[op]; ok {
		return
	}

	done[op] = struct{}{}

	if err := ctx.Err(); err != nil {
		report.Skipped = append(report.Skipped, Skipped{RenameOp: op, Reason: SkipCanceled, Err: err})

		return
	}

	if op.From == op.To {
		report.Skipped = append(report.Skipped, Skipped{RenameOp: op, Reason: SkipUnchanged})

		return
	}

	if fs.FileExists(p.FS, op.To) {
		p.debug("rename target exists", "from", op.From, "to", op.To)
		report.Skipped = append(report.Skipped, Skipped{RenameOp: op, Reason: SkipTargetExists})

		return
	}

	err := p.FS.RenameNoReplace(op.From, op.To)

	switch {
	case err == nil:
		report.Renamed = append(report.Renamed, op)
	case fs.IsTargetExists(err):
		// Target appeared between the check and the rename.
		p.debug("rename target appeared", "from", op.From, "to", op.To)
		report.Skipped = append(report.Skipped, Skipped{RenameOp: op, Reason: SkipTargetExists, Err: err})
	default:
		p.debug("rename failed", "from", op.From, "to", op.To, "err", err)
		report.Skipped = append(report.Skipped, Skipped{RenameOp: op, Reason: SkipFailed, Err: err})
	}
}

func (p *Propagator) debug(msg string, keyvals ...any) {
	if p.Logger != nil {
		p.Logger.Debug(msg, keyvals...)
	}
}

// firstCapturePair returns the captures of oldBase and newBase under the
// first matcher that captures both.
func firstCapturePair(res []*regexp.Regexp, oldBase, newBase string) (string, string, bool) {
	for _, re := range res {
		oldCap, okOld := firstGroup(re, oldBase)
		newCap, okNew := firstGroup(re, newBase)

		if okOld && okNew {
			return oldCap, newCap, true
		}
	}

	return "", "", false
}

func matchesAny(res []*regexp.Regexp, name string) bool {
	for _, re := range res {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}
