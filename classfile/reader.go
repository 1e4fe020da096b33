package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Reader: decodes class file bytes into a ClassFile
// ---------------------------------------------------------------------------

// reader is a cursor over class data. Every read failure is reported as a
// *FormatError carrying the offset where decoding stopped.
type reader struct {
	data   []byte
	offset int
}

func (r *reader) fail(err error) error {
	return &FormatError{Offset: r.offset, Err: err}
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, r.fail(ErrTruncated)
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) u16s() ([]uint16, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		if out[i], err = r.u16(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Read parses a class file from r.
func Read(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("classfile: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes a complete class file. The whole buffer must be consumed.
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{data: data}

	magic, err := r.u32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, &FormatError{Offset: 0, Err: fmt.Errorf("%w: got 0x%08X", ErrInvalidMagic, magic)}
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.ConstantPool, err = r.constantPool(); err != nil {
		return nil, err
	}
	if cf.AccessFlags, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.SuperClass, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.Interfaces, err = r.u16s(); err != nil {
		return nil, err
	}

	fieldCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	cf.Fields = make([]Field, fieldCount)
	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags, f.NameIndex, f.DescriptorIndex, err = r.memberHeader(); err != nil {
			return nil, err
		}
		if f.Attributes, err = r.attributes(cf.ConstantPool); err != nil {
			return nil, err
		}
	}

	methodCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	cf.Methods = make([]Method, methodCount)
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.AccessFlags, m.NameIndex, m.DescriptorIndex, err = r.memberHeader(); err != nil {
			return nil, err
		}
		if m.Attributes, err = r.attributes(cf.ConstantPool); err != nil {
			return nil, err
		}
		if a := FindAttribute(m.Attributes, AttrCode); a != nil {
			if m.Code, err = ParseCode(a.Info, cf.ConstantPool); err != nil {
				return nil, err
			}
		}
	}

	if cf.Attributes, err = r.attributes(cf.ConstantPool); err != nil {
		return nil, err
	}

	if r.offset != len(r.data) {
		return nil, r.fail(ErrTrailingBytes)
	}
	return cf, nil
}

func (r *reader) memberHeader() (flags, name, desc uint16, err error) {
	if flags, err = r.u16(); err != nil {
		return
	}
	if name, err = r.u16(); err != nil {
		return
	}
	desc, err = r.u16()
	return
}

func (r *reader) constantPool() (*ConstantPool, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, r.fail(fmt.Errorf("%w: constant_pool_count is 0", ErrBadConstantIndex))
	}
	cp := &ConstantPool{Entries: make([]Constant, 1, count)}
	for len(cp.Entries) < int(count) {
		c, err := r.constant()
		if err != nil {
			return nil, err
		}
		cp.Entries = append(cp.Entries, c)
		if c.Tag.Wide() {
			cp.Entries = append(cp.Entries, Constant{})
		}
	}
	if len(cp.Entries) != int(count) {
		return nil, r.fail(fmt.Errorf("%w: wide constant overruns pool", ErrBadConstantIndex))
	}
	return cp, nil
}

func (r *reader) constant() (Constant, error) {
	start := r.offset
	tag, err := r.u8()
	if err != nil {
		return Constant{}, err
	}
	c := Constant{Tag: Tag(tag)}
	switch c.Tag {
	case TagUtf8:
		n, err := r.u16()
		if err != nil {
			return c, err
		}
		raw, err := r.take(int(n))
		if err != nil {
			return c, err
		}
		if c.Text, err = decodeMUTF8(raw); err != nil {
			return c, &FormatError{Offset: start, Err: err}
		}
	case TagInteger, TagFloat:
		v, err := r.u32()
		if err != nil {
			return c, err
		}
		c.Bits = uint64(v)
	case TagLong, TagDouble:
		if c.Bits, err = r.u64(); err != nil {
			return c, err
		}
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		if c.Index1, err = r.u16(); err != nil {
			return c, err
		}
	case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
		if c.Index1, err = r.u16(); err != nil {
			return c, err
		}
		if c.Index2, err = r.u16(); err != nil {
			return c, err
		}
	case TagMethodHandle:
		if c.Kind, err = r.u8(); err != nil {
			return c, err
		}
		if c.Index1, err = r.u16(); err != nil {
			return c, err
		}
	default:
		return c, &FormatError{Offset: start, Err: fmt.Errorf("%w: %d", ErrInvalidConstantTag, tag)}
	}
	return c, nil
}

func (r *reader) attributes(cp *ConstantPool) ([]Attribute, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, n)
	for i := range attrs {
		a := &attrs[i]
		start := r.offset
		if a.NameIndex, err = r.u16(); err != nil {
			return nil, err
		}
		if a.Name, err = cp.UTF8(a.NameIndex); err != nil {
			return nil, &FormatError{Offset: start, Err: fmt.Errorf("attribute name: %w", err)}
		}
		length, err := r.u32()
		if err != nil {
			return nil, err
		}
		info, err := r.take(int(length))
		if err != nil {
			return nil, err
		}
		a.Info = append([]byte(nil), info...)
	}
	return attrs, nil
}

// ParseCode decodes the info bytes of a Code attribute. Offsets in any
// returned error are relative to the start of info.
func ParseCode(info []byte, cp *ConstantPool) (*CodeAttribute, error) {
	r := &reader{data: info}
	code := &CodeAttribute{}
	var err error
	if code.MaxStack, err = r.u16(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = r.u16(); err != nil {
		return nil, err
	}
	length, err := r.u32()
	if err != nil {
		return nil, err
	}
	raw, err := r.take(int(length))
	if err != nil {
		return nil, err
	}
	code.Code = append([]byte(nil), raw...)

	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	code.ExceptionTable = make([]ExceptionHandler, n)
	for i := range code.ExceptionTable {
		h := &code.ExceptionTable[i]
		for _, p := range []*uint16{&h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType} {
			if *p, err = r.u16(); err != nil {
				return nil, err
			}
		}
	}
	if code.Attributes, err = r.attributes(cp); err != nil {
		return nil, err
	}
	if r.offset != len(r.data) {
		return nil, r.fail(ErrTrailingBytes)
	}
	return code, nil
}
