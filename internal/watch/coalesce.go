package watch

import "path/filepath"

// event is one raw filesystem event. For OpRename, path is the old name.
type event struct {
	op   Op
	path string
}

// coalesce turns a batch of raw events into changes. A rename event is
// paired with the next unpaired create in the same directory and becomes
// one OpRename change; an unpaired rename is reported as a removal. Writes
// to a path already reported in the batch are dropped.
func coalesce(events []event) []Change {
	paired := make([]bool, len(events))
	seen := make(map[Change]struct{}, len(events))
	changes := make([]Change, 0, len(events))

	add := func(c Change) {
		if c.Op == OpWrite {
			for _, op := range []Op{OpCreate, OpWrite} {
				if _, ok := seen[Change{Op: op, Path: c.Path}]; ok {
					return
				}
			}
		}

		if _, ok := seen[c]; ok {
			return
		}

		seen[c] = struct{}{}
		changes = append(changes, c)
	}

	for i, e := range events {
		if paired[i] {
			continue
		}

		if e.op != OpRename {
			add(Change{Op: e.op, Path: e.path})

			continue
		}

		j := nextCreateIn(events, paired, i+1, filepath.Dir(e.path))
		if j < 0 {
			add(Change{Op: OpRemove, Path: e.path})

			continue
		}

		paired[j] = true
		add(Change{Op: OpRename, From: e.path, Path: events[j].path})
	}

	return changes
}

func nextCreateIn(events []event, paired []bool, from int, dir string) int {
	for j := from; j < len(events); j++ {
		if paired[j] || events[j].op != OpCreate {
			continue
		}

		if filepath.Dir(events[j].path) == dir {
			return j
		}
	}

	return -1
}
