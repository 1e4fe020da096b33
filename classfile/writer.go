package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Writer: encodes a ClassFile back into class file bytes
// ---------------------------------------------------------------------------

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) u16(v uint16) { w.buf.Write(binary.BigEndian.AppendUint16(nil, v)) }
func (w *writer) u32(v uint32) { w.buf.Write(binary.BigEndian.AppendUint32(nil, v)) }
func (w *writer) u64(v uint64) { w.buf.Write(binary.BigEndian.AppendUint64(nil, v)) }

// Encode serializes cf. Attributes are written from their raw Info bytes,
// so a Method's decoded Code is only written if it is also present as a
// raw Code attribute (Builder keeps the two in sync).
func Encode(cf *ClassFile) ([]byte, error) {
	w := &writer{}
	w.u32(Magic)
	w.u16(cf.MinorVersion)
	w.u16(cf.MajorVersion)

	if cf.ConstantPool == nil || len(cf.ConstantPool.Entries) == 0 {
		return nil, fmt.Errorf("classfile: encode: %w: empty constant pool", ErrBadConstantIndex)
	}
	if len(cf.ConstantPool.Entries) > math.MaxUint16 {
		return nil, ErrConstantPoolFull
	}
	w.u16(uint16(len(cf.ConstantPool.Entries)))
	entries := cf.ConstantPool.Entries
	for i := 1; i < len(entries); i++ {
		c := entries[i]
		if err := w.constant(c); err != nil {
			return nil, fmt.Errorf("classfile: encode #%d: %w", i, err)
		}
		if c.Tag.Wide() {
			i++
		}
	}

	w.u16(cf.AccessFlags)
	w.u16(cf.ThisClass)
	w.u16(cf.SuperClass)
	w.u16(uint16(len(cf.Interfaces)))
	for _, iface := range cf.Interfaces {
		w.u16(iface)
	}

	w.u16(uint16(len(cf.Fields)))
	for _, f := range cf.Fields {
		w.u16(f.AccessFlags)
		w.u16(f.NameIndex)
		w.u16(f.DescriptorIndex)
		if err := w.attributes(f.Attributes); err != nil {
			return nil, err
		}
	}

	w.u16(uint16(len(cf.Methods)))
	for _, m := range cf.Methods {
		w.u16(m.AccessFlags)
		w.u16(m.NameIndex)
		w.u16(m.DescriptorIndex)
		if err := w.attributes(m.Attributes); err != nil {
			return nil, err
		}
	}

	if err := w.attributes(cf.Attributes); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func (w *writer) constant(c Constant) error {
	w.u8(uint8(c.Tag))
	switch c.Tag {
	case TagUtf8:
		b := encodeMUTF8(c.Text)
		if len(b) > math.MaxUint16 {
			return fmt.Errorf("utf8 constant of %d bytes: %w", len(b), ErrAttributeTooLarge)
		}
		w.u16(uint16(len(b)))
		w.buf.Write(b)
	case TagInteger, TagFloat:
		w.u32(uint32(c.Bits))
	case TagLong, TagDouble:
		w.u64(c.Bits)
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		w.u16(c.Index1)
	case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
		w.u16(c.Index1)
		w.u16(c.Index2)
	case TagMethodHandle:
		w.u8(c.Kind)
		w.u16(c.Index1)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidConstantTag, c.Tag)
	}
	return nil
}

func (w *writer) attributes(attrs []Attribute) error {
	w.u16(uint16(len(attrs)))
	for _, a := range attrs {
		if uint64(len(a.Info)) > math.MaxUint32 {
			return fmt.Errorf("classfile: attribute %s: %w", a.Name, ErrAttributeTooLarge)
		}
		w.u16(a.NameIndex)
		w.u32(uint32(len(a.Info)))
		w.buf.Write(a.Info)
	}
	return nil
}

// EncodeCode serializes a CodeAttribute into Code attribute info bytes.
func EncodeCode(code *CodeAttribute) ([]byte, error) {
	w := &writer{}
	w.u16(code.MaxStack)
	w.u16(code.MaxLocals)
	w.u32(uint32(len(code.Code)))
	w.buf.Write(code.Code)
	w.u16(uint16(len(code.ExceptionTable)))
	for _, h := range code.ExceptionTable {
		w.u16(h.StartPC)
		w.u16(h.EndPC)
		w.u16(h.HandlerPC)
		w.u16(h.CatchType)
	}
	if err := w.attributes(code.Attributes); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Builder: assembles a ClassFile in code
// ---------------------------------------------------------------------------

// Builder constructs a ClassFile programmatically. Tools and tests use it
// to produce real class bytes without a compiler.
type Builder struct {
	cf *ClassFile
}

// NewBuilder starts a public class with the given internal name. An empty
// super makes a root class.
func NewBuilder(name, super string) *Builder {
	cp := NewConstantPool()
	cf := &ClassFile{
		MajorVersion: 52,
		ConstantPool: cp,
		AccessFlags:  AccPublic | AccSuper,
		ThisClass:    cp.AddClass(name),
	}
	if super != "" {
		cf.SuperClass = cp.AddClass(super)
	}
	return &Builder{cf: cf}
}

// Pool exposes the constant pool so callers can intern references used by
// method bodies.
func (b *Builder) Pool() *ConstantPool {
	return b.cf.ConstantPool
}

// AddField declares a field.
func (b *Builder) AddField(flags uint16, name, descriptor string) {
	cp := b.cf.ConstantPool
	b.cf.Fields = append(b.cf.Fields, Field{
		AccessFlags:     flags,
		NameIndex:       cp.AddUtf8(name),
		DescriptorIndex: cp.AddUtf8(descriptor),
	})
}

// AddMethod declares a method. A nil code declares a method without a body
// (abstract or native).
func (b *Builder) AddMethod(flags uint16, name, descriptor string, code *CodeAttribute) error {
	cp := b.cf.ConstantPool
	m := Method{
		AccessFlags:     flags,
		NameIndex:       cp.AddUtf8(name),
		DescriptorIndex: cp.AddUtf8(descriptor),
	}
	if code != nil {
		info, err := EncodeCode(code)
		if err != nil {
			return fmt.Errorf("classfile: method %s: %w", name, err)
		}
		m.Attributes = []Attribute{{NameIndex: cp.AddUtf8(AttrCode), Name: AttrCode, Info: info}}
		m.Code = code
	}
	b.cf.Methods = append(b.cf.Methods, m)
	return nil
}

// Build returns the assembled class.
func (b *Builder) Build() *ClassFile {
	return b.cf
}
