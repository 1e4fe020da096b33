package vm

import (
	"fmt"
	"sort"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// RuntimeClass: the resolved, executable form of a class file
// ---------------------------------------------------------------------------

// RuntimeClass is built once from a parsed class and never mutated after it
// is registered in a ClassTable.
type RuntimeClass struct {
	Name        string
	Super       string // empty for a root class
	AccessFlags uint16
	Pool        *classfile.ConstantPool
	Fields      []RuntimeField
	Methods     []*RuntimeMethod
}

// RuntimeField is a declared field with its decoded type.
type RuntimeField struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Type        FieldType
}

// IsStatic returns true for class (static) fields.
func (f *RuntimeField) IsStatic() bool {
	return f.AccessFlags&classfile.AccStatic != 0
}

// RuntimeMethod is a method with a code body.
type RuntimeMethod struct {
	Class       *RuntimeClass
	Name        string
	Descriptor  string
	AccessFlags uint16
	Type        MethodDescriptor
	Code        *Code
}

// IsStatic returns true for static methods.
func (m *RuntimeMethod) IsStatic() bool {
	return m.AccessFlags&classfile.AccStatic != 0
}

// String returns Class.name:descriptor.
func (m *RuntimeMethod) String() string {
	if m.Class == nil {
		return m.Name + ":" + m.Descriptor
	}
	return m.Class.Name + "." + m.Name + ":" + m.Descriptor
}

// Code is a method body: its frame limits and decoded instructions in
// code-array order.
type Code struct {
	MaxStack     int
	MaxLocals    int
	Instructions []bytecode.Instruction
}

// NewCode decodes a raw code array.
func NewCode(maxStack, maxLocals int, raw []byte) (*Code, error) {
	instrs, err := bytecode.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Code{MaxStack: maxStack, MaxLocals: maxLocals, Instructions: instrs}, nil
}

// IndexOf returns the index of the instruction starting at byte offset.
// The second result is false when no instruction starts there, which for a
// branch target means the branch is malformed.
func (c *Code) IndexOf(offset int) (int, bool) {
	i := sort.Search(len(c.Instructions), func(i int) bool {
		return c.Instructions[i].Offset >= offset
	})
	if i < len(c.Instructions) && c.Instructions[i].Offset == offset {
		return i, true
	}
	return 0, false
}

// FromClassFile resolves a parsed class. Every field descriptor and the
// descriptor of every method with a body must decode. Methods without a
// Code attribute (abstract and native methods) are not retained; calls to
// them resolve through the native registry or fail.
func FromClassFile(cf *classfile.ClassFile) (*RuntimeClass, error) {
	name, err := cf.ThisClassName()
	if err != nil {
		return nil, fmt.Errorf("resolve class name: %w", err)
	}
	c := &RuntimeClass{
		Name:        name,
		AccessFlags: cf.AccessFlags,
		Pool:        cf.ConstantPool,
	}
	if !cf.IsRoot() {
		if c.Super, err = cf.SuperClassName(); err != nil {
			return nil, fmt.Errorf("%s: resolve superclass: %w", name, err)
		}
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		fname, err := cf.FieldName(f)
		if err != nil {
			return nil, fmt.Errorf("%s: field %d name: %w", name, i, err)
		}
		desc, err := cf.FieldDescriptor(f)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: descriptor: %w", name, fname, err)
		}
		typ, err := ParseFieldDescriptor(desc)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, fname, err)
		}
		c.Fields = append(c.Fields, RuntimeField{
			AccessFlags: f.AccessFlags,
			Name:        fname,
			Descriptor:  desc,
			Type:        typ,
		})
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Code == nil {
			continue
		}
		mname, err := cf.MethodName(m)
		if err != nil {
			return nil, fmt.Errorf("%s: method %d name: %w", name, i, err)
		}
		desc, err := cf.MethodDescriptor(m)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: descriptor: %w", name, mname, err)
		}
		typ, err := ParseMethodDescriptor(desc)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, mname, err)
		}
		code, err := NewCode(int(m.Code.MaxStack), int(m.Code.MaxLocals), m.Code.Code)
		if err != nil {
			return nil, fmt.Errorf("%s.%s%s: %w", name, mname, desc, err)
		}
		c.Methods = append(c.Methods, &RuntimeMethod{
			Class:       c,
			Name:        mname,
			Descriptor:  desc,
			AccessFlags: m.AccessFlags,
			Type:        typ,
			Code:        code,
		})
	}
	return c, nil
}

// DefaultFields returns the initial value of every declared field, in
// declaration order: zero of the field's kind for primitives, null for
// references.
func (c *RuntimeClass) DefaultFields() []Value {
	values := make([]Value, len(c.Fields))
	for i := range c.Fields {
		values[i] = c.Fields[i].Type.ZeroValue()
	}
	return values
}

// FieldIndex returns the slot index of the named field, or -1.
func (c *RuntimeClass) FieldIndex(name string) int {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Field returns the named field, or nil.
func (c *RuntimeClass) Field(name string) *RuntimeField {
	if i := c.FieldIndex(name); i >= 0 {
		return &c.Fields[i]
	}
	return nil
}

// FindMethod returns the first method with the given name, or nil.
// Overloads are not distinguished; use FindMethodWithDescriptor for that.
func (c *RuntimeClass) FindMethod(name string) *RuntimeMethod {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindMethodWithDescriptor returns the method matching both name and
// descriptor, or nil.
func (c *RuntimeClass) FindMethodWithDescriptor(name, descriptor string) *RuntimeMethod {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m
		}
	}
	return nil
}

// String returns the class name.
func (c *RuntimeClass) String() string {
	return c.Name
}
