package vm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/pkg/bytecode"
)

const (
	accStatic  = classfile.AccPublic | classfile.AccStatic
	accVirtual = classfile.AccPublic
)

// testClass builds a real class file and resolves it, so tests exercise the
// same path as classes loaded from disk.
type testClass struct {
	t *testing.T
	b *classfile.Builder
}

func newTestClass(t *testing.T, name, super string) *testClass {
	t.Helper()
	return &testClass{t: t, b: classfile.NewBuilder(name, super)}
}

func (c *testClass) pool() *classfile.ConstantPool {
	return c.b.Pool()
}

func (c *testClass) field(flags uint16, name, descriptor string) *testClass {
	c.b.AddField(flags, name, descriptor)
	return c
}

// method adds a method whose body is written by fn.
func (c *testClass) method(flags uint16, name, descriptor string, maxStack, maxLocals uint16, fn func(a *bytecode.Assembler)) *testClass {
	c.t.Helper()
	a := bytecode.NewAssembler()
	fn(a)
	code, err := a.Assemble()
	if err != nil {
		c.t.Fatalf("assemble %s%s: %v", name, descriptor, err)
	}
	attr := &classfile.CodeAttribute{MaxStack: maxStack, MaxLocals: maxLocals, Code: code}
	if err := c.b.AddMethod(flags, name, descriptor, attr); err != nil {
		c.t.Fatalf("add method %s: %v", name, err)
	}
	return c
}

func (c *testClass) build() *RuntimeClass {
	c.t.Helper()
	rc, err := FromClassFile(c.b.Build())
	if err != nil {
		c.t.Fatalf("FromClassFile: %v", err)
	}
	return rc
}

// newTestInterpreter registers classes in a fresh table and captures
// native output.
func newTestInterpreter(t *testing.T, config Config, classes ...*RuntimeClass) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	table := NewClassTable()
	for _, c := range classes {
		table.Register(c)
	}
	var out bytes.Buffer
	config.Stdout = &out
	return NewInterpreter(table, config), &out
}

// runStatic invokes a static method of class by name.
func runStatic(t *testing.T, interp *Interpreter, class *RuntimeClass, name string, args ...Value) (Result, error) {
	t.Helper()
	m := class.FindMethod(name)
	if m == nil {
		t.Fatalf("%s has no method %s", class.Name, name)
	}
	return interp.InvokeStatic(m, args)
}

// wantInt checks that an invocation returned the given int.
func wantInt(t *testing.T, res Result, err error, want int32) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Type != ResultValue {
		t.Fatalf("result = %s, want a value", res)
	}
	got, ok := res.Value.Int32()
	if !ok {
		t.Fatalf("result = %s, want an int", res.Value)
	}
	if got != want {
		t.Errorf("result = %d, want %d", got, want)
	}
}

// wantErr checks that err wraps target and is reported as an ExecError.
func wantErr(t *testing.T, err, target error) *ExecError {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("error %v is not an *ExecError", err)
	}
	return ee
}
