// Package config resolves nestkit settings for a file.
//
// Settings use the same keys as editor workspace settings
// (explorer.fileNesting.patterns, nested-file-toolkit.*) and are read from
// JSONC files, merged with the following precedence (highest wins):
//
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/nestkit/config.json or ~/.config/nestkit/config.json)
//  3. Editor workspace settings (.vscode/settings.json, nearest ancestor of the file)
//  4. Project config (.nestkit.json, nearest ancestor of the file)
//  5. Explicit config file (-c/--config)
package config

import (
	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/calvinalkan/nestkit/internal/template"
)

// Setting keys.
const (
	KeyPatterns          = "explorer.fileNesting.patterns"
	KeyTemplates         = "nested-file-toolkit.templates"
	KeySyncRenames       = "nested-file-toolkit.syncRenames"
	KeyShowChildrenBadge = "nested-file-toolkit.showChildrenBadge"
	KeyEnableParentRefs  = "nested-file-toolkit.enableParentRefs"
	KeyEditor            = "nested-file-toolkit.editor"
)

var knownKeys = []string{
	KeyPatterns,
	KeyTemplates,
	KeySyncRenames,
	KeyShowChildrenBadge,
	KeyEnableParentRefs,
	KeyEditor,
}

// File names searched for in a file's ancestors.
const (
	ProjectFileName      = ".nestkit.json"
	EditorSettingsDir    = ".vscode"
	EditorSettingsFile   = "settings.json"
	globalConfigDirName  = "nestkit"
	globalConfigFileName = "config.json"
)

// Settings is the effective configuration for one file.
type Settings struct {
	Patterns          nesting.Rules
	Templates         template.Set
	SyncRenames       bool
	ShowChildrenBadge bool
	EnableParentRefs  bool
	Editor            string

	// Sources tracks which config files contributed (for diagnostics).
	Sources Sources
}

// Sources tracks which config files were loaded. Empty means not loaded.
type Sources struct {
	Global   string
	Editor   string
	Project  string
	Explicit string
}

// Empty reports whether only defaults are in effect.
func (s Sources) Empty() bool {
	return s == Sources{}
}

// Defaults returns the settings in effect when no config file is present.
func Defaults() Settings {
	return Settings{
		Templates:         template.Builtin(),
		SyncRenames:       true,
		ShowChildrenBadge: true,
		EnableParentRefs:  true,
	}
}

// layer is the content of one settings file. Nil fields were not set.
type layer struct {
	patterns          nesting.Rules
	templates         template.Set
	syncRenames       *bool
	showChildrenBadge *bool
	enableParentRefs  *bool
	editor            *string
}

func (s Settings) apply(l layer) Settings {
	s.Patterns = mergeRules(s.Patterns, l.patterns)
	s.Templates = s.Templates.Merge(l.templates)

	if l.syncRenames != nil {
		s.SyncRenames = *l.syncRenames
	}

	if l.showChildrenBadge != nil {
		s.ShowChildrenBadge = *l.showChildrenBadge
	}

	if l.enableParentRefs != nil {
		s.EnableParentRefs = *l.enableParentRefs
	}

	if l.editor != nil {
		s.Editor = *l.editor
	}

	return s
}

// mergeRules overlays over onto base keyed by parent pattern. Existing
// patterns keep their position; new ones are appended.
func mergeRules(base, over nesting.Rules) nesting.Rules {
	out := make(nesting.Rules, len(base), len(base)+len(over))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, r := range out {
		index[r.Parent] = i
	}

	for _, r := range over {
		if i, ok := index[r.Parent]; ok {
			out[i].Children = r.Children

			continue
		}

		index[r.Parent] = len(out)
		out = append(out, r)
	}

	return out
}
