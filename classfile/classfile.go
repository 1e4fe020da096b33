// Package classfile reads, builds and writes the binary class file format.
//
// A ClassFile is the structured form of a .class file: its constant pool,
// access flags, fields, methods and attributes. Method bodies are exposed
// both as raw attributes and as a decoded CodeAttribute. Nothing in this
// package interprets bytecode; see pkg/bytecode for instruction decoding and
// vm for execution.
package classfile

import "fmt"

// Magic is the first four bytes of every class file.
const Magic uint32 = 0xCAFEBABE

// Access flags shared by classes, fields and methods.
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSuper        uint16 = 0x0020 // classes
	AccSynchronized uint16 = 0x0020 // methods
	AccVolatile     uint16 = 0x0040 // fields
	AccBridge       uint16 = 0x0040 // methods
	AccTransient    uint16 = 0x0080 // fields
	AccVarargs      uint16 = 0x0080 // methods
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
	AccAnnotation   uint16 = 0x2000
	AccEnum         uint16 = 0x4000
)

// AttrCode is the name of the attribute holding a method body.
const AttrCode = "Code"

// ClassFile is a parsed class.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16 // 0 for java/lang/Object
	Interfaces   []uint16
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute
}

// Field is a declared field.
type Field struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// Method is a declared method. Code is nil for abstract and native methods.
type Method struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
	Code            *CodeAttribute `cbor:",omitempty"`
}

// Attribute is an attribute kept in its raw encoded form.
type Attribute struct {
	NameIndex uint16
	Name      string
	Info      []byte
}

// CodeAttribute is the decoded body of a method's Code attribute.
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionHandler `cbor:",omitempty"`
	Attributes     []Attribute        `cbor:",omitempty"`
}

// ExceptionHandler is one entry of a Code attribute's exception table.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// ThisClassName resolves the name of the class itself.
func (cf *ClassFile) ThisClassName() (string, error) {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

// SuperClassName resolves the superclass name, or "" for a root class.
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

// IsRoot reports whether the class has no superclass.
func (cf *ClassFile) IsRoot() bool {
	return cf.SuperClass == 0
}

// FieldName resolves a field's name.
func (cf *ClassFile) FieldName(f *Field) (string, error) {
	return cf.ConstantPool.UTF8(f.NameIndex)
}

// FieldDescriptor resolves a field's type descriptor.
func (cf *ClassFile) FieldDescriptor(f *Field) (string, error) {
	return cf.ConstantPool.UTF8(f.DescriptorIndex)
}

// MethodName resolves a method's name.
func (cf *ClassFile) MethodName(m *Method) (string, error) {
	return cf.ConstantPool.UTF8(m.NameIndex)
}

// MethodDescriptor resolves a method's type descriptor.
func (cf *ClassFile) MethodDescriptor(m *Method) (string, error) {
	return cf.ConstantPool.UTF8(m.DescriptorIndex)
}

// FindMethod returns the first method with the given name whose access
// flags include all of flags, or nil.
func (cf *ClassFile) FindMethod(name string, flags uint16) *Method {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		n, err := cf.MethodName(m)
		if err != nil || n != name {
			continue
		}
		if m.AccessFlags&flags == flags {
			return m
		}
	}
	return nil
}

// FindAttribute returns the first attribute with the given name, or nil.
func FindAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// Version returns the class file version as "major.minor".
func (cf *ClassFile) Version() string {
	return fmt.Sprintf("%d.%d", cf.MajorVersion, cf.MinorVersion)
}
