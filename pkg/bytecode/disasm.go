package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOpcode = errors.New("invalid opcode")
	ErrEndOfCode     = errors.New("unexpected end of code")
)

// DecodeError reports where in a code array decoding failed.
type DecodeError struct {
	Offset int
	Opcode Opcode
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bytecode: offset %d (0x%02X): %v", e.Offset, byte(e.Opcode), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// decoder walks a code array one instruction at a time.
type decoder struct {
	code []byte
	pos  int
}

func (d *decoder) need(n int) bool {
	return d.pos+n <= len(d.code)
}

func (d *decoder) u8() uint8 {
	v := d.code[d.pos]
	d.pos++
	return v
}

func (d *decoder) u16() uint16 {
	v := binary.BigEndian.Uint16(d.code[d.pos:])
	d.pos += 2
	return v
}

func (d *decoder) s32() int32 {
	v := int32(binary.BigEndian.Uint32(d.code[d.pos:]))
	d.pos += 4
	return v
}

// Decode translates a method's code array into instructions tagged with
// their byte offsets. Decoding stops at the first invalid opcode or
// truncated operand.
func Decode(code []byte) ([]Instruction, error) {
	d := &decoder{code: code}
	var out []Instruction
	for d.pos < len(code) {
		in, err := d.next()
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func (d *decoder) next() (Instruction, error) {
	start := d.pos
	op := Opcode(d.u8())
	in := Instruction{Offset: start, Op: op}
	fail := func(err error) (Instruction, error) {
		return Instruction{}, &DecodeError{Offset: start, Opcode: op, Err: err}
	}

	info, ok := opcodeInfoTable[op]
	if !ok {
		return fail(ErrInvalidOpcode)
	}
	if info.OperandLen > 0 && !d.need(info.OperandLen) {
		return fail(ErrEndOfCode)
	}

	switch info.Operand {
	case OperandNone:
	case OperandLocal:
		in.Index = uint16(d.u8())
	case OperandByte:
		in.Const = int32(int8(d.u8()))
	case OperandShort:
		in.Const = int32(int16(d.u16()))
	case OperandConst1:
		in.Index = uint16(d.u8())
	case OperandConst2:
		in.Index = d.u16()
	case OperandBranch2:
		in.Branch = int32(int16(d.u16()))
	case OperandBranch4:
		in.Branch = d.s32()
	case OperandIinc:
		in.Index = uint16(d.u8())
		in.Const = int32(int8(d.u8()))
	case OperandArrayType:
		in.ArrayType = d.u8()
	case OperandInterface:
		in.Index = d.u16()
		in.Count = d.u8()
		d.u8()
	case OperandDynamic:
		in.Index = d.u16()
		d.pos += 2
	case OperandMultiArray:
		in.Index = d.u16()
		in.Dims = d.u8()
	case OperandTableSwitch, OperandLookupSwitch:
		sw, err := d.switchOperands(info.Operand == OperandTableSwitch)
		if err != nil {
			return fail(err)
		}
		in.Switch = sw
	case OperandWide:
		if err := d.wide(&in); err != nil {
			return fail(err)
		}
	}

	in.Len = d.pos - start
	return in, nil
}

// switchOperands reads the padded operands of tableswitch and lookupswitch.
// Padding aligns the default offset to a multiple of four from the start of
// the code array.
func (d *decoder) switchOperands(table bool) (*Switch, error) {
	d.pos += (4 - d.pos%4) % 4
	if !d.need(12) {
		return nil, ErrEndOfCode
	}
	sw := &Switch{Default: d.s32()}

	if table {
		sw.Low, sw.High = d.s32(), d.s32()
		if sw.High < sw.Low {
			return nil, fmt.Errorf("tableswitch low %d > high %d: %w", sw.Low, sw.High, ErrInvalidOpcode)
		}
		n := int(int64(sw.High) - int64(sw.Low) + 1)
		if !d.need(4 * n) {
			return nil, ErrEndOfCode
		}
		sw.Offsets = make([]int32, n)
		for i := range sw.Offsets {
			sw.Offsets[i] = d.s32()
		}
		return sw, nil
	}

	n := int(d.s32())
	if n < 0 {
		return nil, fmt.Errorf("lookupswitch npairs %d: %w", n, ErrInvalidOpcode)
	}
	if !d.need(8 * n) {
		return nil, ErrEndOfCode
	}
	sw.Keys = make([]int32, n)
	sw.Offsets = make([]int32, n)
	for i := 0; i < n; i++ {
		sw.Keys[i] = d.s32()
		sw.Offsets[i] = d.s32()
	}
	return sw, nil
}

// wide decodes the instruction modified by a wide prefix: a local variable
// instruction with a 16-bit slot, or iinc with a 16-bit slot and delta.
func (d *decoder) wide(in *Instruction) error {
	if !d.need(1) {
		return ErrEndOfCode
	}
	op := Opcode(d.u8())
	kind := GetOpcodeInfo(op).Operand
	if kind != OperandLocal && kind != OperandIinc {
		return fmt.Errorf("wide %s: %w", op, ErrInvalidOpcode)
	}
	in.Op = op
	in.Wide = true
	if !d.need(2) {
		return ErrEndOfCode
	}
	in.Index = d.u16()
	if kind == OperandIinc {
		if !d.need(2) {
			return ErrEndOfCode
		}
		in.Const = int32(int16(d.u16()))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

// PoolDescriber renders constant pool entries for listing comments.
type PoolDescriber interface {
	Describe(index uint16) string
}

// Listing returns a javap-style listing of instrs. When pool is non-nil,
// instructions referring to the constant pool carry a comment describing
// the entry.
func Listing(instrs []Instruction, pool PoolDescriber) string {
	var sb strings.Builder
	for _, in := range instrs {
		line := in.String()
		if pool != nil && refersToPool(in.Op) {
			fmt.Fprintf(&sb, "%6d: %-24s // %s\n", in.Offset, line, pool.Describe(in.Index))
			continue
		}
		fmt.Fprintf(&sb, "%6d: %s\n", in.Offset, line)
	}
	return sb.String()
}

func refersToPool(op Opcode) bool {
	switch GetOpcodeInfo(op).Operand {
	case OperandConst1, OperandConst2, OperandInterface, OperandDynamic, OperandMultiArray:
		return true
	}
	return false
}
