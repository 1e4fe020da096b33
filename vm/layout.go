package vm

// ---------------------------------------------------------------------------
// Layout: instance field slots of a class and its superclasses
// ---------------------------------------------------------------------------

// Layout assigns a slot to every instance field an object of a class
// carries: the non-static fields of each loaded class in its ancestry, root
// first, each class's fields in declaration order. Static fields have no
// slot.
type Layout struct {
	chain []*RuntimeClass // root first; the laid-out class is last
	slots []layoutSlot
}

type layoutSlot struct {
	depth int // index into chain of the declaring class
	field *RuntimeField
}

// NewLayout lays out the last class of chain, which lists the class and its
// loaded superclasses root first.
func NewLayout(chain ...*RuntimeClass) *Layout {
	l := &Layout{chain: chain}
	for depth, c := range chain {
		for k := range c.Fields {
			if f := &c.Fields[k]; !f.IsStatic() {
				l.slots = append(l.slots, layoutSlot{depth: depth, field: f})
			}
		}
	}
	return l
}

// Len returns the number of slots.
func (l *Layout) Len() int { return len(l.slots) }

// Field returns the field stored in slot i.
func (l *Layout) Field(i int) *RuntimeField { return l.slots[i].field }

// Index resolves a field reference className.name to a slot, or -1. The
// search starts at className and moves toward the root, so a field hides a
// same-named field of a superclass. A class outside the chain starts the
// search at the laid-out class.
func (l *Layout) Index(className, name string) int {
	depth := len(l.chain) - 1
	for d, c := range l.chain {
		if c.Name == className {
			depth = d
			break
		}
	}
	for k := len(l.slots) - 1; k >= 0; k-- {
		if s := l.slots[k]; s.depth <= depth && s.field.Name == name {
			return k
		}
	}
	return -1
}

func (l *Layout) defaults() []Value {
	values := make([]Value, len(l.slots))
	for k, s := range l.slots {
		values[k] = s.field.Type.ZeroValue()
	}
	return values
}
