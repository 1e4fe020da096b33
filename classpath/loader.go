// Package classpath locates class files in a list of directories and loads
// them into the interpreter's class table.
package classpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/vm"
)

var log = commonlog.GetLogger("javelin.classpath")

// Suffix is the file extension of class files.
const Suffix = ".class"

// Cache is a store of parsed class files keyed by their raw bytes.
// *classcache.Cache implements it.
type Cache interface {
	Get(raw []byte) (*classfile.ClassFile, bool, error)
	Put(raw []byte, cf *classfile.ClassFile) error
}

// Loader reads classes from Dirs in order; the first directory holding a
// class wins. Cache may be nil.
type Loader struct {
	Dirs  []string
	Cache Cache
}

// NewLoader creates a loader over dirs.
func NewLoader(dirs []string, cache Cache) *Loader {
	return &Loader{Dirs: dirs, Cache: cache}
}

// Find returns the path of the class file for an internal class name.
func (l *Loader) Find(name string) (string, error) {
	rel := filepath.FromSlash(name) + Suffix
	for _, dir := range l.Dirs {
		path := filepath.Join(dir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, vm.ErrClassNotFound)
}

// Load finds, parses and resolves a single class.
func (l *Loader) Load(name string) (*vm.RuntimeClass, error) {
	path, err := l.Find(name)
	if err != nil {
		return nil, err
	}
	class, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if class.Name != name {
		return nil, fmt.Errorf("%s: file declares class %s", path, class.Name)
	}
	return class, nil
}

// LoadFile parses and resolves the class file at path.
func (l *Loader) LoadFile(path string) (*vm.RuntimeClass, error) {
	cf, err := l.ReadFile(path)
	if err != nil {
		return nil, err
	}
	class, err := vm.FromClassFile(cf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return class, nil
}

// ReadFile parses the class file at path, consulting the cache first.
func (l *Loader) ReadFile(path string) (*classfile.ClassFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if l.Cache != nil {
		cf, ok, err := l.Cache.Get(raw)
		if err != nil {
			log.Warningf("cache lookup for %s: %s", path, err)
		} else if ok {
			log.Debugf("cache hit %s", path)
			return cf, nil
		}
	}

	cf, err := classfile.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if l.Cache != nil {
		if err := l.Cache.Put(raw, cf); err != nil {
			log.Warningf("caching %s: %s", path, err)
		}
	}
	return cf, nil
}

// LoadAll registers every class file under the loader's directories in
// table and returns the number of classes registered. A class found in an
// earlier directory shadows one with the same name in a later directory.
func (l *Loader) LoadAll(table *vm.ClassTable) (int, error) {
	seen := make(map[string]bool)
	count := 0

	for _, dir := range l.Dirs {
		var loaded []*vm.RuntimeClass
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), Suffix) {
				return nil
			}
			class, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			loaded = append(loaded, class)
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			log.Warningf("classpath directory %s does not exist", dir)
			continue
		}
		if err != nil {
			return count, err
		}

		for _, class := range loaded {
			if seen[class.Name] {
				log.Debugf("%s in %s is shadowed", class.Name, dir)
				continue
			}
			seen[class.Name] = true
			table.Register(class)
			count++
		}
		log.Infof("loaded %d classes from %s", len(loaded), dir)
	}
	return count, nil
}
