package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Field and method descriptors
// ---------------------------------------------------------------------------

// FieldType is a decoded field descriptor. Base types are identified by
// their descriptor letter; references carry the class name and arrays their
// element type.
type FieldType struct {
	Tag       byte       // B C D F I J S Z, L for class references, [ for arrays
	ClassName string     // internal class name when Tag is 'L'
	Elem      *FieldType // element type when Tag is '['
}

// Base type descriptor letters.
const (
	TagByte      byte = 'B'
	TagChar      byte = 'C'
	TagDouble    byte = 'D'
	TagFloat     byte = 'F'
	TagInt       byte = 'I'
	TagLong      byte = 'J'
	TagShort     byte = 'S'
	TagBoolean   byte = 'Z'
	TagReference byte = 'L'
	TagArray     byte = '['
)

// IsPrimitive returns true for base types.
func (t FieldType) IsPrimitive() bool {
	return t.Tag != TagReference && t.Tag != TagArray
}

// IsWide returns true for long and double.
func (t FieldType) IsWide() bool {
	return t.Tag == TagLong || t.Tag == TagDouble
}

// ZeroValue returns the default value a field of this type holds before any
// assignment: zero of the matching kind for primitives, null otherwise.
// Booleans are ints, as in the class file format.
func (t FieldType) ZeroValue() Value {
	switch t.Tag {
	case TagByte:
		return FromByte(0)
	case TagChar:
		return FromChar(0)
	case TagDouble:
		return FromDouble(0)
	case TagFloat:
		return FromFloat(0)
	case TagInt, TagBoolean:
		return FromInt(0)
	case TagLong:
		return FromLong(0)
	case TagShort:
		return FromShort(0)
	}
	return Null
}

// Coerce converts v for storage in a slot of this type, narrowing int-like
// values to byte, char, short or boolean as putfield does. A value of the
// wrong kind fails with ErrUnexpectedOperand.
func (t FieldType) Coerce(v Value) (Value, error) {
	mismatch := func() (Value, error) {
		return Null, fmt.Errorf("%w: cannot store %s in %s", ErrUnexpectedOperand, v, t)
	}
	switch t.Tag {
	case TagByte, TagChar, TagShort, TagInt, TagBoolean:
		n, ok := v.Int32()
		if !ok {
			return mismatch()
		}
		switch t.Tag {
		case TagByte:
			return FromByte(int8(n)), nil
		case TagChar:
			return FromChar(uint16(n)), nil
		case TagShort:
			return FromShort(int16(n)), nil
		case TagBoolean:
			return FromInt(n & 1), nil
		}
		return FromInt(n), nil
	case TagLong:
		if v.kind != KindLong {
			return mismatch()
		}
	case TagFloat:
		if v.kind != KindFloat {
			return mismatch()
		}
	case TagDouble:
		if v.kind != KindDouble {
			return mismatch()
		}
	default:
		if !v.IsReference() {
			return mismatch()
		}
	}
	return v, nil
}

// String renders the type back into descriptor form.
func (t FieldType) String() string {
	switch t.Tag {
	case TagReference:
		return "L" + t.ClassName + ";"
	case TagArray:
		if t.Elem == nil {
			return "["
		}
		return "[" + t.Elem.String()
	}
	return string(t.Tag)
}

// MethodDescriptor is a decoded method descriptor. Return is nil for void.
type MethodDescriptor struct {
	Params []FieldType
	Return *FieldType
}

// IsVoid returns true when the method returns nothing.
func (d MethodDescriptor) IsVoid() bool {
	return d.Return == nil
}

// String renders the descriptor back into its textual form.
func (d MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range d.Params {
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	if d.Return == nil {
		sb.WriteByte('V')
	} else {
		sb.WriteString(d.Return.String())
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Lexer
// ---------------------------------------------------------------------------

// token is one lexical unit of a descriptor: a single punctuation or base
// type letter, or a complete class reference.
type token struct {
	ch    byte   // '(' ')' 'V' '[' a base type letter, or 'L'
	class string // class name for 'L'
	pos   int
}

func lexDescriptor(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', 'V', '[',
			TagByte, TagChar, TagDouble, TagFloat, TagInt, TagLong, TagShort, TagBoolean:
			toks = append(toks, token{ch: c, pos: i})
		case TagReference:
			end := strings.IndexByte(s[i:], ';')
			if end < 0 {
				return nil, fmt.Errorf("%w: %q: unterminated class name at %d", ErrInvalidDescriptor, s, i)
			}
			name := s[i+1 : i+end]
			if name == "" {
				return nil, fmt.Errorf("%w: %q: empty class name at %d", ErrInvalidDescriptor, s, i)
			}
			toks = append(toks, token{ch: TagReference, class: name, pos: i})
			i += end
		default:
			return nil, fmt.Errorf("%w: %q: unexpected %q at %d", ErrInvalidDescriptor, s, c, i)
		}
	}
	return toks, nil
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

type descParser struct {
	src  string
	toks []token
	pos  int
}

func (p *descParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s", ErrInvalidDescriptor, p.src, fmt.Sprintf(format, args...))
}

func (p *descParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *descParser) fieldType() (FieldType, error) {
	tok, ok := p.peek()
	if !ok {
		return FieldType{}, p.errorf("missing field type")
	}
	p.pos++
	switch tok.ch {
	case TagReference:
		return FieldType{Tag: TagReference, ClassName: tok.class}, nil
	case TagArray:
		elem, err := p.fieldType()
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Tag: TagArray, Elem: &elem}, nil
	case '(', ')', 'V':
		return FieldType{}, p.errorf("unexpected %q at %d", tok.ch, tok.pos)
	}
	return FieldType{Tag: tok.ch}, nil
}

// ParseFieldDescriptor decodes a field descriptor such as "I",
// "Ljava/lang/String;" or "[I".
func ParseFieldDescriptor(s string) (FieldType, error) {
	toks, err := lexDescriptor(s)
	if err != nil {
		return FieldType{}, err
	}
	p := &descParser{src: s, toks: toks}
	t, err := p.fieldType()
	if err != nil {
		return FieldType{}, err
	}
	if p.pos != len(toks) {
		return FieldType{}, p.errorf("trailing characters")
	}
	return t, nil
}

// ParseMethodDescriptor decodes a method descriptor of the form
// (<params>)<return>.
func ParseMethodDescriptor(s string) (MethodDescriptor, error) {
	toks, err := lexDescriptor(s)
	if err != nil {
		return MethodDescriptor{}, err
	}
	p := &descParser{src: s, toks: toks}

	if tok, ok := p.peek(); !ok || tok.ch != '(' {
		return MethodDescriptor{}, p.errorf("missing '('")
	}
	p.pos++

	var d MethodDescriptor
	for {
		tok, ok := p.peek()
		if !ok {
			return MethodDescriptor{}, p.errorf("missing ')'")
		}
		if tok.ch == ')' {
			p.pos++
			break
		}
		param, err := p.fieldType()
		if err != nil {
			return MethodDescriptor{}, err
		}
		d.Params = append(d.Params, param)
	}

	tok, ok := p.peek()
	if !ok {
		return MethodDescriptor{}, p.errorf("missing return type")
	}
	if tok.ch == 'V' {
		p.pos++
	} else {
		ret, err := p.fieldType()
		if err != nil {
			return MethodDescriptor{}, err
		}
		d.Return = &ret
	}
	if p.pos != len(toks) {
		return MethodDescriptor{}, p.errorf("trailing characters")
	}
	return d, nil
}
