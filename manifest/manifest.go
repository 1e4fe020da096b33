// Package manifest handles javelin.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/javelin/vm"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "javelin.toml"

// Manifest represents a javelin.toml project configuration.
type Manifest struct {
	Project      Project               `toml:"project"`
	Classpath    Classpath             `toml:"classpath"`
	Run          Run                   `toml:"run"`
	Runtime      Runtime               `toml:"runtime"`
	Cache        Cache                 `toml:"cache"`
	Dependencies map[string]Dependency `toml:"dependencies"`

	// Dir is the directory containing the javelin.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Classpath lists the directories class files are loaded from.
type Classpath struct {
	Dirs []string `toml:"dirs"`
}

// Run names the entry point started by the javelin command.
type Run struct {
	Class  string  `toml:"class"`
	Method string  `toml:"method"`
	Args   []int32 `toml:"args"`
}

// Runtime configures interpreter limits.
type Runtime struct {
	MaxCallDepth  int   `toml:"max-call-depth"`
	MaxSteps      int64 `toml:"max-steps"`
	MaxStackCheck bool  `toml:"max-stack-check"`
	Trace         bool  `toml:"trace"`
}

// Cache configures the parsed-class cache database. An empty path disables
// caching.
type Cache struct {
	Path string `toml:"path"`
}

// Dependency is another project whose classpath is added to this one.
type Dependency struct {
	Git  string `toml:"git"`
	Tag  string `toml:"tag"`
	Path string `toml:"path"`
}

// Load parses a javelin.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if len(m.Classpath.Dirs) == 0 {
		m.Classpath.Dirs = []string{"."}
	}
	if m.Run.Method == "" {
		m.Run.Method = "main"
	}
	defaults := vm.DefaultConfig()
	if !md.IsDefined("runtime", "max-call-depth") {
		m.Runtime.MaxCallDepth = defaults.MaxCallDepth
	}
	if !md.IsDefined("runtime", "max-stack-check") {
		m.Runtime.MaxStackCheck = defaults.CheckMaxStack
	}
	if m.Runtime.MaxCallDepth < 0 || m.Runtime.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: runtime limits must not be negative", path)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a javelin.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ClasspathDirs returns absolute paths for the configured classpath
// directories.
func (m *Manifest) ClasspathDirs() []string {
	var paths []string
	for _, d := range m.Classpath.Dirs {
		if filepath.IsAbs(d) {
			paths = append(paths, d)
			continue
		}
		paths = append(paths, filepath.Join(m.Dir, d))
	}
	return paths
}

// CachePath returns the absolute path of the class cache database, or ""
// when caching is disabled.
func (m *Manifest) CachePath() string {
	if m.Cache.Path == "" || filepath.IsAbs(m.Cache.Path) {
		return m.Cache.Path
	}
	return filepath.Join(m.Dir, m.Cache.Path)
}

// RuntimeConfig converts the [runtime] section into an interpreter
// configuration.
func (m *Manifest) RuntimeConfig() vm.Config {
	config := vm.DefaultConfig()
	config.MaxCallDepth = m.Runtime.MaxCallDepth
	config.MaxSteps = m.Runtime.MaxSteps
	config.CheckMaxStack = m.Runtime.MaxStackCheck
	config.Trace = m.Runtime.Trace
	return config
}

// DepsDir returns the path to the .javelin/deps directory.
func (m *Manifest) DepsDir() string {
	return filepath.Join(m.Dir, ".javelin", "deps")
}

// LockFilePath returns the path to .javelin/lock.toml.
func (m *Manifest) LockFilePath() string {
	return filepath.Join(m.Dir, ".javelin", "lock.toml")
}
