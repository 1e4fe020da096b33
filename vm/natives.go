package vm

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Native methods and statics
// ---------------------------------------------------------------------------

// NativeFunc implements a method in Go. this is null for static methods;
// args are in declaration order.
type NativeFunc func(i *Interpreter, this Value, args []Value) (Result, error)

// Natives is a registry of Go-implemented methods and static fields for
// classes that are not loaded from class files, keyed by
// class.name:descriptor.
type Natives struct {
	methods map[string]NativeFunc
	statics map[string]Value
}

// NewNatives creates an empty registry.
func NewNatives() *Natives {
	return &Natives{
		methods: make(map[string]NativeFunc),
		statics: make(map[string]Value),
	}
}

func nativeKey(class, name, descriptor string) string {
	return class + "." + name + ":" + descriptor
}

// Register installs fn as the implementation of class.name:descriptor.
func (n *Natives) Register(class, name, descriptor string, fn NativeFunc) {
	n.methods[nativeKey(class, name, descriptor)] = fn
}

// Lookup finds a native method.
func (n *Natives) Lookup(class, name, descriptor string) (NativeFunc, bool) {
	fn, ok := n.methods[nativeKey(class, name, descriptor)]
	return fn, ok
}

// SetStatic defines a native static field.
func (n *Natives) SetStatic(class, name string, v Value) {
	n.statics[class+"."+name] = v
}

// Static reads a native static field.
func (n *Natives) Static(class, name string) (Value, bool) {
	v, ok := n.statics[class+"."+name]
	return v, ok
}

// Len returns the number of native methods.
func (n *Natives) Len() int {
	return len(n.methods)
}

// ---------------------------------------------------------------------------
// Built-ins
// ---------------------------------------------------------------------------

const (
	classObject      = "java/lang/Object"
	classSystem      = "java/lang/System"
	classMath        = "java/lang/Math"
	classPrintStream = "java/io/PrintStream"
)

// installBuiltins registers the small slice of the platform library that
// compiled programs reach for: Object's constructor, System.out printing
// and integer Math helpers.
func (i *Interpreter) installBuiltins() {
	n := i.natives

	n.Register(classObject, "<init>", "()V", func(*Interpreter, Value, []Value) (Result, error) {
		return Void, nil
	})

	printStream := &RuntimeClass{Name: classPrintStream, Super: classObject}
	n.SetStatic(classSystem, "out", i.Heap.NewObject(printStream))

	printer := func(newline bool, format func(Value) (string, error)) NativeFunc {
		return func(i *Interpreter, _ Value, args []Value) (Result, error) {
			s := ""
			if len(args) == 1 {
				var err error
				if s, err = format(args[0]); err != nil {
					return Void, err
				}
			}
			if newline {
				s += "\n"
			}
			_, err := fmt.Fprint(i.config.Stdout, s)
			return Void, err
		}
	}
	for _, p := range []struct {
		desc   string
		format func(Value) (string, error)
	}{
		{"(I)V", formatInt},
		{"(J)V", formatLong},
		{"(C)V", formatChar},
		{"(Z)V", formatBool},
	} {
		n.Register(classPrintStream, "println", p.desc, printer(true, p.format))
		n.Register(classPrintStream, "print", p.desc, printer(false, p.format))
	}
	n.Register(classPrintStream, "println", "()V", printer(true, nil))

	n.Register(classMath, "abs", "(I)I", intFunc(func(a []int32) int32 {
		if a[0] < 0 {
			return -a[0]
		}
		return a[0]
	}))
	n.Register(classMath, "max", "(II)I", intFunc(func(a []int32) int32 { return max(a[0], a[1]) }))
	n.Register(classMath, "min", "(II)I", intFunc(func(a []int32) int32 { return min(a[0], a[1]) }))
}

func intFunc(fn func([]int32) int32) NativeFunc {
	return func(_ *Interpreter, _ Value, args []Value) (Result, error) {
		ints := make([]int32, len(args))
		for k, a := range args {
			n, ok := a.Int32()
			if !ok {
				return Void, unexpected("int", a)
			}
			ints[k] = n
		}
		return Returned(FromInt(fn(ints))), nil
	}
}

func formatInt(v Value) (string, error) {
	n, ok := v.Int32()
	if !ok {
		return "", unexpected("int", v)
	}
	return strconv.FormatInt(int64(n), 10), nil
}

func formatLong(v Value) (string, error) {
	n, ok := v.Int64()
	if !ok {
		return "", unexpected("long", v)
	}
	return strconv.FormatInt(n, 10), nil
}

func formatChar(v Value) (string, error) {
	n, ok := v.Int32()
	if !ok {
		return "", unexpected("char", v)
	}
	return string(rune(uint16(n))), nil
}

func formatBool(v Value) (string, error) {
	n, ok := v.Int32()
	if !ok {
		return "", unexpected("boolean", v)
	}
	return strconv.FormatBool(n != 0), nil
}
