package vm

import (
	"fmt"
	"math"
)

// Value is a tagged operand: a primitive of one of the class file's
// numeric kinds, a heap reference, or null.
//
// Primitive payloads live in bits: integral kinds sign-extended (char
// zero-extended), float and double as their IEEE 754 bit patterns.
// Reference kinds hold a heap handle; two Values holding the same handle
// alias the same object or array.
//
// The zero Value is null.
type Value struct {
	kind Kind
	bits uint64
	ref  Ref
}

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindLong
	KindInt
	KindShort
	KindByte
	KindChar
	KindFloat
	KindDouble
	KindObject
	KindIntArray
)

var kindNames = [...]string{
	KindNull:     "Null",
	KindLong:     "Long",
	KindInt:      "Integer",
	KindShort:    "Short",
	KindByte:     "Byte",
	KindChar:     "Character",
	KindFloat:    "Float",
	KindDouble:   "Double",
	KindObject:   "ObjectRef",
	KindIntArray: "IntArrayRef",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Null is the null reference.
var Null = Value{}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func FromLong(v int64) Value     { return Value{kind: KindLong, bits: uint64(v)} }
func FromInt(v int32) Value      { return Value{kind: KindInt, bits: uint64(int64(v))} }
func FromShort(v int16) Value    { return Value{kind: KindShort, bits: uint64(int64(v))} }
func FromByte(v int8) Value      { return Value{kind: KindByte, bits: uint64(int64(v))} }
func FromChar(v uint16) Value    { return Value{kind: KindChar, bits: uint64(v)} }
func FromFloat(v float32) Value  { return Value{kind: KindFloat, bits: uint64(math.Float32bits(v))} }
func FromDouble(v float64) Value { return Value{kind: KindDouble, bits: math.Float64bits(v)} }

// FromBool encodes a boolean the way the class file format does: as int 1 or 0.
func FromBool(b bool) Value {
	if b {
		return FromInt(1)
	}
	return FromInt(0)
}

// FromObject wraps an object handle.
func FromObject(r Ref) Value { return Value{kind: KindObject, ref: r} }

// FromIntArray wraps an int array handle.
func FromIntArray(r Ref) Value { return Value{kind: KindIntArray, ref: r} }

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true for the null reference.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsIntLike returns true for every kind whose computational type is int:
// int, short, byte and char.
func (v Value) IsIntLike() bool {
	switch v.kind {
	case KindInt, KindShort, KindByte, KindChar:
		return true
	}
	return false
}

// IsReference returns true for object and array references and null.
func (v Value) IsReference() bool {
	return v.kind == KindNull || v.kind == KindObject || v.kind == KindIntArray
}

// IsWide returns true for long and double, the values that occupy two
// local variable slots.
func (v Value) IsWide() bool {
	return v.kind == KindLong || v.kind == KindDouble
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Int32 returns the value of an int-like Value.
func (v Value) Int32() (int32, bool) {
	if !v.IsIntLike() {
		return 0, false
	}
	return int32(int64(v.bits)), true
}

// Int64 returns the value of a long.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindLong {
		return 0, false
	}
	return int64(v.bits), true
}

// Float32 returns the value of a float.
func (v Value) Float32() (float32, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return math.Float32frombits(uint32(v.bits)), true
}

// Float64 returns the value of a double.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindDouble {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// Ref returns the heap handle of an object or array reference.
func (v Value) Ref() (Ref, bool) {
	if v.kind != KindObject && v.kind != KindIntArray {
		return 0, false
	}
	return v.ref, true
}

// SameRef reports reference equality, as if_acmpeq tests it. Two nulls are
// equal; a null never equals a non-null reference.
func (v Value) SameRef(other Value) bool {
	return v.kind == other.kind && v.ref == other.ref
}

// String returns a debug representation such as Integer(3) or ObjectRef@2.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindLong:
		return fmt.Sprintf("Long(%d)", int64(v.bits))
	case KindInt, KindShort, KindByte:
		return fmt.Sprintf("%s(%d)", v.kind, int64(v.bits))
	case KindChar:
		return fmt.Sprintf("Character(%q)", rune(v.bits))
	case KindFloat:
		f, _ := v.Float32()
		return fmt.Sprintf("Float(%g)", f)
	case KindDouble:
		f, _ := v.Float64()
		return fmt.Sprintf("Double(%g)", f)
	case KindObject, KindIntArray:
		return fmt.Sprintf("%s@%d", v.kind, v.ref)
	}
	return v.kind.String()
}
