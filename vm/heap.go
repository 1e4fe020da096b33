package vm

import "fmt"

// ---------------------------------------------------------------------------
// Heap: handle-addressed arena for objects and arrays
// ---------------------------------------------------------------------------

// Ref is a heap handle. Handles start at 1 so that the zero Ref never
// names a live record; objects and arrays are numbered independently and
// the Value kind says which space a handle belongs to.
type Ref uint32

// Heap owns every object and array allocated by an interpreter. Records
// are never freed: the heap lives as long as the interpreter that owns it.
type Heap struct {
	objects []*Object
	arrays  []*IntArray
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{}
}

// NewObject allocates an instance of class laid out from the class's own
// fields only. The interpreter allocates through NewInstance with the
// layout of the full superclass chain.
func (h *Heap) NewObject(class *RuntimeClass) Value {
	return h.NewInstance(NewLayout(class))
}

// NewInstance allocates an object of the layout's class with every slot at
// its default value.
func (h *Heap) NewInstance(layout *Layout) Value {
	class := layout.chain[len(layout.chain)-1]
	h.objects = append(h.objects, &Object{Class: class, layout: layout, fields: layout.defaults()})
	return FromObject(Ref(len(h.objects)))
}

// NewIntArray allocates a zero-filled int array.
func (h *Heap) NewIntArray(length int32) (Value, error) {
	if length < 0 {
		return Null, fmt.Errorf("%w: %d", ErrNegativeArraySize, length)
	}
	h.arrays = append(h.arrays, &IntArray{data: make([]int32, length)})
	return FromIntArray(Ref(len(h.arrays))), nil
}

// Object dereferences an object reference.
func (h *Heap) Object(v Value) (*Object, error) {
	switch v.kind {
	case KindNull:
		return nil, ErrNullReference
	case KindObject:
		if v.ref == 0 || int(v.ref) > len(h.objects) {
			return nil, fmt.Errorf("%w: dangling %s", ErrUnexpectedOperand, v)
		}
		return h.objects[v.ref-1], nil
	}
	return nil, fmt.Errorf("%w: want object reference, got %s", ErrUnexpectedOperand, v)
}

// IntArray dereferences an int array reference.
func (h *Heap) IntArray(v Value) (*IntArray, error) {
	switch v.kind {
	case KindNull:
		return nil, ErrNullReference
	case KindIntArray:
		if v.ref == 0 || int(v.ref) > len(h.arrays) {
			return nil, fmt.Errorf("%w: dangling %s", ErrUnexpectedOperand, v)
		}
		return h.arrays[v.ref-1], nil
	}
	return nil, fmt.Errorf("%w: want int array reference, got %s", ErrUnexpectedOperand, v)
}

// Len returns the number of live records.
func (h *Heap) Len() int {
	return len(h.objects) + len(h.arrays)
}
