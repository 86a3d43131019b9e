package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/nesting"
	"github.com/charmbracelet/log"
)

// ResolverInput holds the inputs for NewResolver.
type ResolverInput struct {
	WorkDir    string            // absolute working directory (from -C or os.Getwd)
	ConfigPath string            // -c/--config flag value
	Env        map[string]string // environment variables
	Logger     *log.Logger       // optional
}

// Resolver computes [Settings] per file. Editor settings and project config
// are looked up in the ancestors of each file, so files in different
// folders of one workspace can see different rules.
//
// Parsed files are cached and re-read when their size or modification time
// changes. A Resolver is safe for concurrent use.
type Resolver struct {
	fs      fs.FS
	workDir string
	logger  *log.Logger

	global       layer
	globalPath   string
	explicit     layer
	explicitPath string

	mu    sync.Mutex
	cache map[string]cachedLayer
}

type cachedLayer struct {
	modTime time.Time
	size    int64
	layer   layer
}

// GlobalConfigPath returns the path of the global config file.
// Uses $XDG_CONFIG_HOME/nestkit/config.json if set, otherwise
// ~/.config/nestkit/config.json. Returns "" if neither variable is set.
func GlobalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, globalConfigDirName, globalConfigFileName)
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", globalConfigDirName, globalConfigFileName)
	}

	return ""
}

// NewResolver loads the global config and the explicit config file (which
// must exist when given). Per-file config is loaded lazily by [Resolver.For].
func NewResolver(fsys fs.FS, in ResolverInput) (*Resolver, error) {
	r := &Resolver{
		fs:      fsys,
		workDir: in.WorkDir,
		logger:  in.Logger,
		cache:   make(map[string]cachedLayer),
	}

	if p := GlobalConfigPath(in.Env); p != "" {
		l, loaded, err := r.load(p, false)
		if err != nil {
			return nil, err
		}

		if loaded {
			r.global, r.globalPath = l, p
		}
	}

	if in.ConfigPath != "" {
		p := in.ConfigPath
		if !filepath.IsAbs(p) {
			p = filepath.Join(in.WorkDir, p)
		}

		if !fs.FileExists(fsys, p) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, in.ConfigPath)
		}

		l, _, err := r.load(p, true)
		if err != nil {
			return nil, err
		}

		r.explicit, r.explicitPath = l, p
	}

	return r, nil
}

// For returns the settings in effect for the file at path.
func (r *Resolver) For(path string) (Settings, error) {
	return r.ForDir(filepath.Dir(r.abs(path)))
}

// ForDir returns the settings in effect for files directly inside dir.
func (r *Resolver) ForDir(dir string) (Settings, error) {
	dir = r.abs(dir)
	s := Defaults()

	if r.globalPath != "" {
		s = s.apply(r.global)
		s.Sources.Global = r.globalPath
	}

	if p := r.nearest(dir, filepath.Join(EditorSettingsDir, EditorSettingsFile)); p != "" {
		l, loaded, err := r.load(p, false)
		if err != nil {
			return Settings{}, err
		}

		if loaded {
			s = s.apply(l)
			s.Sources.Editor = p
		}
	}

	if p := r.nearest(dir, ProjectFileName); p != "" {
		l, loaded, err := r.load(p, false)
		if err != nil {
			return Settings{}, err
		}

		if loaded {
			s = s.apply(l)
			s.Sources.Project = p
		}
	}

	if r.explicitPath != "" {
		s = s.apply(r.explicit)
		s.Sources.Explicit = r.explicitPath
	}

	return s, nil
}

// RulesFor implements [nesting.RuleSource]. A broken config file yields no
// rules; the error is logged.
func (r *Resolver) RulesFor(path string) nesting.Rules {
	s, err := r.For(path)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("cannot resolve settings", "path", path, "err", err)
		}

		return nil
	}

	return s.Patterns
}

func (r *Resolver) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(r.workDir, path)
}

// nearest returns the first dir/rel that exists walking up from dir.
func (r *Resolver) nearest(dir, rel string) string {
	for {
		candidate := filepath.Join(dir, rel)
		if fs.FileExists(r.fs, candidate) {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}

// load parses the settings file at path, using the cache when the file is
// unchanged. A missing file is reported as not loaded unless mustExist.
func (r *Resolver) load(path string, mustExist bool) (layer, bool, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return layer{}, false, nil
		}

		return layer{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	r.mu.Lock()
	cached, ok := r.cache[path]
	r.mu.Unlock()

	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.layer, true, nil
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return layer{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	l, err := parseLayer(data)
	if err != nil {
		return layer{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	r.mu.Lock()
	r.cache[path] = cachedLayer{modTime: info.ModTime(), size: info.Size(), layer: l}
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debug("loaded settings", "path", path, "patterns", len(l.patterns))
	}

	return l, true, nil
}

var _ nesting.RuleSource = (*Resolver)(nil)
