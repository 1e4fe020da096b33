package vm

import (
	"fmt"
	"slices"
)

// ---------------------------------------------------------------------------
// Frame: locals and operand stack of one invocation
// ---------------------------------------------------------------------------

// Frame is the working state of a single method invocation. Every access is
// bounds checked: popping an empty stack, touching a local outside the
// declared range or pushing past the declared max stack each fail with a
// typed error instead of corrupting the frame.
//
// Each stack entry and local slot holds one Value. Longs and doubles still
// take two local slots, as the class file format numbers them; the second
// slot stays null.
type Frame struct {
	locals   []Value
	stack    []Value
	maxStack int // 0 disables the max stack check
}

// NewFrame creates a frame with maxLocals null locals.
func NewFrame(maxStack, maxLocals int) *Frame {
	return &Frame{
		locals:   make([]Value, maxLocals),
		stack:    make([]Value, 0, maxStack),
		maxStack: maxStack,
	}
}

// NewFrameWithLocals creates a frame whose first locals are seed, padded
// with null up to maxLocals.
func NewFrameWithLocals(maxStack, maxLocals int, seed []Value) (*Frame, error) {
	if len(seed) > maxLocals {
		return nil, fmt.Errorf("%w: %d arguments for %d locals", ErrLocalOutOfRange, len(seed), maxLocals)
	}
	f := NewFrame(maxStack, maxLocals)
	copy(f.locals, seed)
	return f, nil
}

// argumentSlots lays out invocation arguments as local slots, leaving the
// slot after each long or double empty.
func argumentSlots(args []Value) []Value {
	slots := make([]Value, 0, len(args)+2)
	for _, a := range args {
		slots = append(slots, a)
		if a.IsWide() {
			slots = append(slots, Null)
		}
	}
	return slots
}

// uncheckStack turns off the max stack check.
func (f *Frame) uncheckStack() {
	f.maxStack = 0
}

// ---------------------------------------------------------------------------
// Operand stack
// ---------------------------------------------------------------------------

// Push pushes v.
func (f *Frame) Push(v Value) error {
	if f.maxStack > 0 && len(f.stack) >= f.maxStack {
		return fmt.Errorf("%w: max %d", ErrOperandOverflow, f.maxStack)
	}
	f.stack = append(f.stack, v)
	return nil
}

// Pop removes and returns the top of the stack.
func (f *Frame) Pop() (Value, error) {
	n := len(f.stack)
	if n == 0 {
		return Null, ErrStackUnderflow
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v, nil
}

// Peek returns the top of the stack without removing it.
func (f *Frame) Peek() (Value, error) {
	if len(f.stack) == 0 {
		return Null, ErrStackUnderflow
	}
	return f.stack[len(f.stack)-1], nil
}

// PopMany pops count values. The result is in pop order: the former top of
// the stack comes first.
func (f *Frame) PopMany(count int) ([]Value, error) {
	if count > len(f.stack) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, count, len(f.stack))
	}
	out := make([]Value, count)
	for i := range out {
		out[i] = f.stack[len(f.stack)-1-i]
	}
	f.stack = f.stack[:len(f.stack)-count]
	return out, nil
}

// popArgs pops count invocation arguments and returns them in declaration
// order.
func (f *Frame) popArgs(count int) ([]Value, error) {
	args, err := f.PopMany(count)
	if err != nil {
		return nil, err
	}
	slices.Reverse(args)
	return args, nil
}

// popWords pops values totalling n words, where longs and doubles count two
// and everything else one, and returns them bottom first. Splitting a long
// or double fails with ErrUnexpectedOperand. This is the unit the pop2 and
// dup_x/dup2 instructions operate on.
func (f *Frame) popWords(n int) ([]Value, error) {
	var out []Value
	for words := 0; words < n; {
		v, err := f.Pop()
		if err != nil {
			return nil, err
		}
		w := 1
		if v.IsWide() {
			w = 2
		}
		if words+w > n {
			return nil, fmt.Errorf("%w: %s splits a %d-word operation", ErrUnexpectedOperand, v, n)
		}
		words += w
		out = append(out, v)
	}
	slices.Reverse(out)
	return out, nil
}

// pushAll pushes values in order.
func (f *Frame) pushAll(values ...Value) error {
	for _, v := range values {
		if err := f.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of values on the operand stack.
func (f *Frame) Depth() int {
	return len(f.stack)
}

// Stack returns a copy of the operand stack, bottom first.
func (f *Frame) Stack() []Value {
	return slices.Clone(f.stack)
}

// ---------------------------------------------------------------------------
// Typed stack helpers
// ---------------------------------------------------------------------------

func unexpected(want string, got Value) error {
	return fmt.Errorf("%w: want %s, got %s", ErrUnexpectedOperand, want, got)
}

// PushInt pushes an int.
func (f *Frame) PushInt(v int32) error {
	return f.Push(FromInt(v))
}

// PopInt pops a value whose computational type is int.
func (f *Frame) PopInt() (int32, error) {
	v, err := f.Pop()
	if err != nil {
		return 0, err
	}
	n, ok := v.Int32()
	if !ok {
		return 0, unexpected("int", v)
	}
	return n, nil
}

// PopLong pops a long.
func (f *Frame) PopLong() (int64, error) {
	v, err := f.Pop()
	if err != nil {
		return 0, err
	}
	n, ok := v.Int64()
	if !ok {
		return 0, unexpected("long", v)
	}
	return n, nil
}

// PopFloat pops a float.
func (f *Frame) PopFloat() (float32, error) {
	v, err := f.Pop()
	if err != nil {
		return 0, err
	}
	x, ok := v.Float32()
	if !ok {
		return 0, unexpected("float", v)
	}
	return x, nil
}

// PopDouble pops a double.
func (f *Frame) PopDouble() (float64, error) {
	v, err := f.Pop()
	if err != nil {
		return 0, err
	}
	x, ok := v.Float64()
	if !ok {
		return 0, unexpected("double", v)
	}
	return x, nil
}

// PopReference pops an object reference, array reference or null.
func (f *Frame) PopReference() (Value, error) {
	v, err := f.Pop()
	if err != nil {
		return Null, err
	}
	if !v.IsReference() {
		return Null, unexpected("reference", v)
	}
	return v, nil
}

// PopObjectRef pops a non-null object reference.
func (f *Frame) PopObjectRef() (Value, error) {
	v, err := f.Pop()
	if err != nil {
		return Null, err
	}
	switch v.kind {
	case KindObject:
		return v, nil
	case KindNull:
		return Null, ErrNullReference
	}
	return Null, unexpected("object reference", v)
}

// PopIntArray pops a non-null int array reference.
func (f *Frame) PopIntArray() (Value, error) {
	v, err := f.Pop()
	if err != nil {
		return Null, err
	}
	switch v.kind {
	case KindIntArray:
		return v, nil
	case KindNull:
		return Null, ErrNullReference
	}
	return Null, unexpected("int array reference", v)
}

// ---------------------------------------------------------------------------
// Locals
// ---------------------------------------------------------------------------

// Local returns local slot i.
func (f *Frame) Local(i int) (Value, error) {
	if i < 0 || i >= len(f.locals) {
		return Null, fmt.Errorf("%w: %d of %d", ErrLocalOutOfRange, i, len(f.locals))
	}
	return f.locals[i], nil
}

// SetLocal stores v in local slot i.
func (f *Frame) SetLocal(i int, v Value) error {
	if i < 0 || i >= len(f.locals) {
		return fmt.Errorf("%w: %d of %d", ErrLocalOutOfRange, i, len(f.locals))
	}
	f.locals[i] = v
	return nil
}

// IntLocal returns local slot i, which must hold an int-like value.
func (f *Frame) IntLocal(i int) (int32, error) {
	v, err := f.Local(i)
	if err != nil {
		return 0, err
	}
	n, ok := v.Int32()
	if !ok {
		return 0, unexpected("int local", v)
	}
	return n, nil
}

// SetIntLocal stores an int in local slot i.
func (f *Frame) SetIntLocal(i int, v int32) error {
	return f.SetLocal(i, FromInt(v))
}

// Locals returns a copy of the local slots.
func (f *Frame) Locals() []Value {
	return slices.Clone(f.locals)
}
