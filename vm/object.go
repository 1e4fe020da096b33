package vm

import "fmt"

// ---------------------------------------------------------------------------
// Object: an instance of a loaded class
// ---------------------------------------------------------------------------

// Object holds one slot per instance field of its class and loaded
// superclasses, as assigned by its Layout. Slot indexes never change after
// allocation.
type Object struct {
	Class  *RuntimeClass
	layout *Layout
	fields []Value
}

// GetField reads the named field as seen from the object's own class.
func (o *Object) GetField(name string) (Value, error) {
	return o.Get(o.Class.Name, name)
}

// PutField writes the named field as seen from the object's own class.
func (o *Object) PutField(name string, v Value) error {
	return o.Put(o.Class.Name, name, v)
}

// Get reads the field referenced as className.name.
func (o *Object) Get(className, name string) (Value, error) {
	i := o.layout.Index(className, name)
	if i < 0 {
		return Null, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, className, name)
	}
	return o.fields[i], nil
}

// Put writes the field referenced as className.name, narrowing v to the
// field's declared type.
func (o *Object) Put(className, name string, v Value) error {
	i := o.layout.Index(className, name)
	if i < 0 {
		return fmt.Errorf("%w: %s.%s", ErrFieldNotFound, className, name)
	}
	cv, err := o.layout.Field(i).Type.Coerce(v)
	if err != nil {
		return err
	}
	o.fields[i] = cv
	return nil
}

// Fields returns a copy of the field slots.
func (o *Object) Fields() []Value {
	out := make([]Value, len(o.fields))
	copy(out, o.fields)
	return out
}

// ---------------------------------------------------------------------------
// IntArray: fixed-length int vector
// ---------------------------------------------------------------------------

// IntArray is a zero-initialised array of ints. Its length is fixed at
// allocation.
type IntArray struct {
	data []int32
}

// Len returns the array length.
func (a *IntArray) Len() int {
	return len(a.data)
}

// Get returns the element at index.
func (a *IntArray) Get(index int32) (int32, error) {
	if index < 0 || int(index) >= len(a.data) {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, index, len(a.data))
	}
	return a.data[index], nil
}

// Set stores v at index.
func (a *IntArray) Set(index int32, v int32) error {
	if index < 0 || int(index) >= len(a.data) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, index, len(a.data))
	}
	a.data[index] = v
	return nil
}
