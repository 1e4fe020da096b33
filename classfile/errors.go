package classfile

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic number: expected 0xCAFEBABE")
	ErrInvalidConstantTag = errors.New("invalid constant pool tag")
	ErrInvalidUTF8        = errors.New("malformed modified UTF-8")
	ErrTruncated          = errors.New("unexpected end of class data")
	ErrTrailingBytes      = errors.New("trailing bytes after class data")
)

// Resolution errors.
var (
	ErrBadConstantIndex  = errors.New("constant pool index out of range")
	ErrWrongConstantKind = errors.New("constant pool entry has wrong kind")
	ErrConstantPoolFull  = errors.New("constant pool is full")
	ErrAttributeTooLarge = errors.New("attribute too large")
)

// FormatError reports a decode failure at a byte offset of the class data.
type FormatError struct {
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("classfile: offset %d: %v", e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
