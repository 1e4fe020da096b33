package vm

import (
	"fmt"
	"sort"
	"sync"
)

// ---------------------------------------------------------------------------
// ClassTable: registry of loaded classes
// ---------------------------------------------------------------------------

// ClassTable maps class names to resolved classes. It is filled during a
// load phase and only read while code runs; classes are never unloaded.
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]*RuntimeClass
}

// NewClassTable creates a new empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{
		classes: make(map[string]*RuntimeClass),
	}
}

// Register adds a class to the table.
// Returns the previous class with this name, or nil.
func (ct *ClassTable) Register(c *RuntimeClass) *RuntimeClass {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	old := ct.classes[c.Name]
	ct.classes[c.Name] = c
	return old
}

// Lookup finds a class by name.
func (ct *ClassTable) Lookup(name string) *RuntimeClass {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.classes[name]
}

// Resolve is Lookup that reports a missing class as ErrClassNotFound.
func (ct *ClassTable) Resolve(name string) (*RuntimeClass, error) {
	if c := ct.Lookup(name); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
}

// Has returns true if a class with this name is registered.
func (ct *ClassTable) Has(name string) bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	_, ok := ct.classes[name]
	return ok
}

// All returns all registered classes sorted by name.
func (ct *ClassTable) All() []*RuntimeClass {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	result := make([]*RuntimeClass, 0, len(ct.classes))
	for _, c := range ct.classes {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.classes)
}
