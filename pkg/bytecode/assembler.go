package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrUndefinedLabel = errors.New("undefined label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrBranchTooFar   = errors.New("branch offset out of range")
	ErrOperandRange   = errors.New("operand out of range")
)

// Assembler builds a code array instruction by instruction. Branches name
// labels that may be defined later; Assemble patches every branch with the
// byte offset from the branch instruction to its label.
type Assembler struct {
	code   []byte
	labels map[string]int
	fixups []fixup
	err    error
}

// fixup is a branch operand waiting for its label.
type fixup struct {
	label string
	from  int  // offset of the branch instruction
	at    int  // position of the operand bytes
	wide  bool // 4-byte operand
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{labels: make(map[string]int)}
}

// Offset returns the byte offset the next instruction will be written at.
func (a *Assembler) Offset() int {
	return len(a.code)
}

func (a *Assembler) setErr(err error) {
	if a.err == nil {
		a.err = err
	}
}

// Emit appends an opcode with raw operand bytes and returns its offset.
func (a *Assembler) Emit(op Opcode, operands ...byte) int {
	offset := len(a.code)
	a.code = append(a.code, byte(op))
	a.code = append(a.code, operands...)
	return offset
}

// Label binds name to the current offset.
func (a *Assembler) Label(name string) {
	if _, dup := a.labels[name]; dup {
		a.setErr(fmt.Errorf("%w: %s", ErrDuplicateLabel, name))
		return
	}
	a.labels[name] = len(a.code)
}

// Branch emits a branch instruction targeting label.
func (a *Assembler) Branch(op Opcode, label string) int {
	offset := len(a.code)
	a.code = append(a.code, byte(op))
	wide := GetOpcodeInfo(op).Operand == OperandBranch4
	a.fixups = append(a.fixups, fixup{label: label, from: offset, at: len(a.code), wide: wide})
	if wide {
		a.code = append(a.code, 0, 0, 0, 0)
	} else {
		a.code = append(a.code, 0, 0)
	}
	return offset
}

// Iconst pushes v with the shortest encoding: iconst_<n>, bipush or sipush.
func (a *Assembler) Iconst(v int32) int {
	switch {
	case v >= -1 && v <= 5:
		return a.Emit(OpIconst0 + Opcode(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return a.Emit(OpBipush, byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return a.Emit(OpSipush, byte(uint16(v)>>8), byte(uint16(v)))
	}
	a.setErr(fmt.Errorf("iconst %d needs a constant pool entry: %w", v, ErrOperandRange))
	return len(a.code)
}

// Local emits a local variable instruction (iload, astore, ret, ...) with
// the given slot, using a wide prefix for slots above 255.
func (a *Assembler) Local(op Opcode, slot uint16) int {
	if GetOpcodeInfo(op).Operand != OperandLocal {
		a.setErr(fmt.Errorf("%s does not take a local slot: %w", op, ErrOperandRange))
		return len(a.code)
	}
	if slot > math.MaxUint8 {
		return a.Emit(OpWide, byte(op), byte(slot>>8), byte(slot))
	}
	return a.Emit(op, byte(slot))
}

// Iinc emits iinc, widened when slot or delta do not fit a byte.
func (a *Assembler) Iinc(slot uint16, delta int16) int {
	if slot > math.MaxUint8 || delta < math.MinInt8 || delta > math.MaxInt8 {
		return a.Emit(OpWide, byte(OpIinc), byte(slot>>8), byte(slot), byte(uint16(delta)>>8), byte(uint16(delta)))
	}
	return a.Emit(OpIinc, byte(slot), byte(int8(delta)))
}

// Index emits an instruction taking a 16-bit constant pool index, such as
// getfield, invokestatic or new.
func (a *Assembler) Index(op Opcode, index uint16) int {
	if GetOpcodeInfo(op).Operand != OperandConst2 {
		a.setErr(fmt.Errorf("%s does not take a pool index: %w", op, ErrOperandRange))
		return len(a.code)
	}
	return a.Emit(op, byte(index>>8), byte(index))
}

// Ldc emits ldc, or ldc_w when the index does not fit a byte.
func (a *Assembler) Ldc(index uint16) int {
	if index > math.MaxUint8 {
		return a.Emit(OpLdcW, byte(index>>8), byte(index))
	}
	return a.Emit(OpLdc, byte(index))
}

// Newarray emits newarray for a primitive element type code.
func (a *Assembler) Newarray(atype uint8) int {
	return a.Emit(OpNewarray, atype)
}

// Tableswitch emits a tableswitch over low, low+1, ... jumping to the
// corresponding label, or to def when the key is out of range.
func (a *Assembler) Tableswitch(low int32, def string, labels ...string) int {
	offset := a.switchHeader(OpTableswitch, def)
	high := low + int32(len(labels)) - 1
	a.code = binary.BigEndian.AppendUint32(a.code, uint32(low))
	a.code = binary.BigEndian.AppendUint32(a.code, uint32(high))
	for _, l := range labels {
		a.switchTarget(offset, l)
	}
	return offset
}

// Lookupswitch emits a lookupswitch matching keys[i] to labels[i]. Keys
// must be sorted ascending.
func (a *Assembler) Lookupswitch(def string, keys []int32, labels []string) int {
	if len(keys) != len(labels) {
		a.setErr(fmt.Errorf("lookupswitch: %d keys, %d labels: %w", len(keys), len(labels), ErrOperandRange))
		return len(a.code)
	}
	offset := a.switchHeader(OpLookupswitch, def)
	a.code = binary.BigEndian.AppendUint32(a.code, uint32(len(keys)))
	for i, k := range keys {
		a.code = binary.BigEndian.AppendUint32(a.code, uint32(k))
		a.switchTarget(offset, labels[i])
	}
	return offset
}

func (a *Assembler) switchHeader(op Opcode, def string) int {
	offset := a.Emit(op)
	for len(a.code)%4 != 0 {
		a.code = append(a.code, 0)
	}
	a.switchTarget(offset, def)
	return offset
}

func (a *Assembler) switchTarget(from int, label string) {
	a.fixups = append(a.fixups, fixup{label: label, from: from, at: len(a.code), wide: true})
	a.code = append(a.code, 0, 0, 0, 0)
}

// Assemble resolves every branch and returns the finished code array.
func (a *Assembler) Assemble() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	for _, f := range a.fixups {
		target, ok := a.labels[f.label]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedLabel, f.label)
		}
		delta := target - f.from
		if f.wide {
			binary.BigEndian.PutUint32(a.code[f.at:], uint32(int32(delta)))
			continue
		}
		if delta < math.MinInt16 || delta > math.MaxInt16 {
			return nil, fmt.Errorf("%w: %s at %d", ErrBranchTooFar, f.label, f.from)
		}
		binary.BigEndian.PutUint16(a.code[f.at:], uint16(int16(delta)))
	}
	out := make([]byte, len(a.code))
	copy(out, a.code)
	return out, nil
}

// MustAssemble is Assemble for code built in tests and tools, where an
// assembly error is a programming mistake.
func (a *Assembler) MustAssemble() []byte {
	code, err := a.Assemble()
	if err != nil {
		panic(err)
	}
	return code
}
