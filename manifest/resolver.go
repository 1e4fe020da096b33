package manifest

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javelin.manifest")

// ResolvedDep represents a dependency that has been resolved to a local path.
type ResolvedDep struct {
	Name      string    // dependency name
	LocalPath string    // local filesystem path
	Manifest  *Manifest // the dependency's own manifest (may be nil)
	Commit    string    // checked-out commit of a git dependency
}

// ClasspathDirs returns the directories the dependency contributes to the
// classpath: its manifest's classpath, or its root when it has no manifest.
func (rd ResolvedDep) ClasspathDirs() []string {
	if rd.Manifest != nil {
		return rd.Manifest.ClasspathDirs()
	}
	return []string{rd.LocalPath}
}

// Resolver manages dependency resolution.
type Resolver struct {
	manifest *Manifest
	lock     *LockFile
}

// NewResolver creates a new dependency resolver.
func NewResolver(m *Manifest) *Resolver {
	return &Resolver{manifest: m}
}

// Resolve resolves all dependencies and returns them in load order
// (topologically sorted: dependencies before dependents).
func (r *Resolver) Resolve() ([]ResolvedDep, error) {
	if len(r.manifest.Dependencies) == 0 {
		return nil, nil
	}

	lock, err := ReadLock(r.manifest.LockFilePath())
	if err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}
	r.lock = lock

	if err := os.MkdirAll(r.manifest.DepsDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating deps dir: %w", err)
	}

	resolved := make(map[string]*ResolvedDep)
	order, err := r.resolveAll(r.manifest, resolved)
	if err != nil {
		return nil, err
	}

	if err := r.writeLock(order); err != nil {
		return nil, fmt.Errorf("writing lock file: %w", err)
	}
	return order, nil
}

// Classpath resolves dependencies and returns the full classpath: the
// project's own directories first, then each dependency's in load order.
func (r *Resolver) Classpath() ([]string, error) {
	deps, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	dirs := r.manifest.ClasspathDirs()
	for _, rd := range deps {
		dirs = append(dirs, rd.ClasspathDirs()...)
	}
	return dirs, nil
}

// resolveAll resolves owner's dependencies recursively, in name order.
// Returns dependencies in topological order (deps before dependents).
func (r *Resolver) resolveAll(owner *Manifest, resolved map[string]*ResolvedDep) ([]ResolvedDep, error) {
	var order []ResolvedDep

	for _, name := range slices.Sorted(maps.Keys(owner.Dependencies)) {
		if _, ok := resolved[name]; ok {
			continue // already resolved
		}

		rd, err := r.resolveOne(owner, name, owner.Dependencies[name])
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", name, err)
		}
		resolved[name] = rd

		if rd.Manifest != nil && len(rd.Manifest.Dependencies) > 0 {
			transitive, err := r.resolveAll(rd.Manifest, resolved)
			if err != nil {
				return nil, err
			}
			order = append(order, transitive...)
		}

		order = append(order, *rd)
	}

	return order, nil
}

// resolveOne resolves a single dependency declared by owner. Path
// dependencies are relative to the declaring manifest.
func (r *Resolver) resolveOne(owner *Manifest, name string, dep Dependency) (*ResolvedDep, error) {
	switch {
	case dep.Path != "":
		localPath := dep.Path
		if !filepath.IsAbs(localPath) {
			localPath = filepath.Join(owner.Dir, localPath)
		}
		localPath = filepath.Clean(localPath)

		if _, err := os.Stat(localPath); err != nil {
			return nil, fmt.Errorf("local dependency %q not found at %s: %w", name, localPath, err)
		}
		return r.loadDep(name, localPath)

	case dep.Git != "":
		depDir := filepath.Join(r.manifest.DepsDir(), name)
		commit, err := syncGit(name, depDir, dep, r.lock.FindLockedDep(name))
		if err != nil {
			return nil, err
		}
		rd, err := r.loadDep(name, depDir)
		if err != nil {
			return nil, err
		}
		rd.Commit = commit
		return rd, nil
	}

	return nil, fmt.Errorf("dependency %q has no git or path specified", name)
}

func (r *Resolver) loadDep(name, dir string) (*ResolvedDep, error) {
	rd := &ResolvedDep{Name: name, LocalPath: dir}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
		m, err := Load(dir)
		if err != nil {
			return nil, err
		}
		rd.Manifest = m
	}
	log.Debugf("resolved %s at %s", name, dir)
	return rd, nil
}

// writeLock writes the resolved dependencies to the lock file.
func (r *Resolver) writeLock(order []ResolvedDep) error {
	lf := &LockFile{}

	for _, rd := range order {
		ld := LockedDep{Name: rd.Name}

		dep := r.declared(rd.Name, order)
		if dep.Git != "" {
			ld.Git = dep.Git
			ld.Tag = dep.Tag
			ld.Commit = rd.Commit
		} else {
			ld.Path = rd.LocalPath
		}

		lf.Deps = append(lf.Deps, ld)
	}

	return WriteLock(r.manifest.LockFilePath(), lf)
}

// declared finds the declaration of name in the root manifest or in any
// resolved dependency's manifest.
func (r *Resolver) declared(name string, order []ResolvedDep) Dependency {
	if dep, ok := r.manifest.Dependencies[name]; ok {
		return dep
	}
	for _, rd := range order {
		if rd.Manifest == nil {
			continue
		}
		if dep, ok := rd.Manifest.Dependencies[name]; ok {
			return dep
		}
	}
	return Dependency{}
}
