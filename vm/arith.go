package vm

import (
	"math"

	"github.com/chazu/javelin/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Binary operations
// ---------------------------------------------------------------------------
//
// Each pops value2 and then value1 and pushes value1 OP value2. Integer
// arithmetic wraps on overflow; MinInt / -1 yields MinInt.

func intBinary(f *Frame, op bytecode.Opcode) error {
	b, err := f.PopInt()
	if err != nil {
		return err
	}
	a, err := f.PopInt()
	if err != nil {
		return err
	}
	var r int32
	switch op {
	case bytecode.OpIadd:
		r = a + b
	case bytecode.OpIsub:
		r = a - b
	case bytecode.OpImul:
		r = a * b
	case bytecode.OpIdiv, bytecode.OpIrem:
		if b == 0 {
			return ErrDivideByZero
		}
		if op == bytecode.OpIdiv {
			r = a / b
		} else {
			r = a % b
		}
	case bytecode.OpIshl:
		r = a << (b & 0x1f)
	case bytecode.OpIshr:
		r = a >> (b & 0x1f)
	case bytecode.OpIushr:
		r = int32(uint32(a) >> (b & 0x1f))
	case bytecode.OpIand:
		r = a & b
	case bytecode.OpIor:
		r = a | b
	case bytecode.OpIxor:
		r = a ^ b
	}
	return f.PushInt(r)
}

func longBinary(f *Frame, op bytecode.Opcode) error {
	b, err := f.PopLong()
	if err != nil {
		return err
	}
	a, err := f.PopLong()
	if err != nil {
		return err
	}
	var r int64
	switch op {
	case bytecode.OpLadd:
		r = a + b
	case bytecode.OpLsub:
		r = a - b
	case bytecode.OpLmul:
		r = a * b
	case bytecode.OpLdiv, bytecode.OpLrem:
		if b == 0 {
			return ErrDivideByZero
		}
		if op == bytecode.OpLdiv {
			r = a / b
		} else {
			r = a % b
		}
	case bytecode.OpLand:
		r = a & b
	case bytecode.OpLor:
		r = a | b
	case bytecode.OpLxor:
		r = a ^ b
	}
	return f.Push(FromLong(r))
}

// longShift shifts a long by an int distance masked to six bits.
func longShift(f *Frame, op bytecode.Opcode) error {
	s, err := f.PopInt()
	if err != nil {
		return err
	}
	a, err := f.PopLong()
	if err != nil {
		return err
	}
	s &= 0x3f
	var r int64
	switch op {
	case bytecode.OpLshl:
		r = a << s
	case bytecode.OpLshr:
		r = a >> s
	case bytecode.OpLushr:
		r = int64(uint64(a) >> s)
	}
	return f.Push(FromLong(r))
}

func floatBinary(f *Frame, op bytecode.Opcode) error {
	b, err := f.PopFloat()
	if err != nil {
		return err
	}
	a, err := f.PopFloat()
	if err != nil {
		return err
	}
	var r float32
	switch op {
	case bytecode.OpFadd:
		r = a + b
	case bytecode.OpFsub:
		r = a - b
	case bytecode.OpFmul:
		r = a * b
	case bytecode.OpFdiv:
		r = a / b
	case bytecode.OpFrem:
		r = float32(math.Mod(float64(a), float64(b)))
	}
	return f.Push(FromFloat(r))
}

func doubleBinary(f *Frame, op bytecode.Opcode) error {
	b, err := f.PopDouble()
	if err != nil {
		return err
	}
	a, err := f.PopDouble()
	if err != nil {
		return err
	}
	var r float64
	switch op {
	case bytecode.OpDadd:
		r = a + b
	case bytecode.OpDsub:
		r = a - b
	case bytecode.OpDmul:
		r = a * b
	case bytecode.OpDdiv:
		r = a / b
	case bytecode.OpDrem:
		r = math.Mod(a, b)
	}
	return f.Push(FromDouble(r))
}

func negate(f *Frame, op bytecode.Opcode) error {
	switch op {
	case bytecode.OpIneg:
		a, err := f.PopInt()
		if err != nil {
			return err
		}
		return f.PushInt(-a)
	case bytecode.OpLneg:
		a, err := f.PopLong()
		if err != nil {
			return err
		}
		return f.Push(FromLong(-a))
	case bytecode.OpFneg:
		a, err := f.PopFloat()
		if err != nil {
			return err
		}
		return f.Push(FromFloat(-a))
	}
	a, err := f.PopDouble()
	if err != nil {
		return err
	}
	return f.Push(FromDouble(-a))
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

func convert(f *Frame, op bytecode.Opcode) error {
	switch op {
	case bytecode.OpI2l, bytecode.OpI2f, bytecode.OpI2d, bytecode.OpI2b, bytecode.OpI2c, bytecode.OpI2s:
		a, err := f.PopInt()
		if err != nil {
			return err
		}
		switch op {
		case bytecode.OpI2l:
			return f.Push(FromLong(int64(a)))
		case bytecode.OpI2f:
			return f.Push(FromFloat(float32(a)))
		case bytecode.OpI2d:
			return f.Push(FromDouble(float64(a)))
		case bytecode.OpI2b:
			return f.PushInt(int32(int8(a)))
		case bytecode.OpI2c:
			return f.PushInt(int32(uint16(a)))
		}
		return f.PushInt(int32(int16(a)))
	case bytecode.OpL2i, bytecode.OpL2f, bytecode.OpL2d:
		a, err := f.PopLong()
		if err != nil {
			return err
		}
		switch op {
		case bytecode.OpL2i:
			return f.PushInt(int32(a))
		case bytecode.OpL2f:
			return f.Push(FromFloat(float32(a)))
		}
		return f.Push(FromDouble(float64(a)))
	case bytecode.OpF2i, bytecode.OpF2l, bytecode.OpF2d:
		a, err := f.PopFloat()
		if err != nil {
			return err
		}
		switch op {
		case bytecode.OpF2i:
			return f.PushInt(toInt32(float64(a)))
		case bytecode.OpF2l:
			return f.Push(FromLong(toInt64(float64(a))))
		}
		return f.Push(FromDouble(float64(a)))
	}
	a, err := f.PopDouble()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.OpD2i:
		return f.PushInt(toInt32(a))
	case bytecode.OpD2l:
		return f.Push(FromLong(toInt64(a)))
	}
	return f.Push(FromFloat(float32(a)))
}

// toInt32 truncates toward zero, saturating at the int range. NaN is 0.
func toInt32(x float64) int32 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	}
	return int32(x)
}

// toInt64 truncates toward zero, saturating at the long range. NaN is 0.
func toInt64(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}

// ---------------------------------------------------------------------------
// Comparisons
// ---------------------------------------------------------------------------

// compare pushes -1, 0 or 1. For floats and doubles a NaN operand yields -1
// under the l variants and 1 under the g variants.
func compare(f *Frame, op bytecode.Opcode) error {
	var a, b float64
	switch op {
	case bytecode.OpLcmp:
		y, err := f.PopLong()
		if err != nil {
			return err
		}
		x, err := f.PopLong()
		if err != nil {
			return err
		}
		return f.PushInt(sign(x, y))
	case bytecode.OpFcmpl, bytecode.OpFcmpg:
		y, err := f.PopFloat()
		if err != nil {
			return err
		}
		x, err := f.PopFloat()
		if err != nil {
			return err
		}
		a, b = float64(x), float64(y)
	default:
		y, err := f.PopDouble()
		if err != nil {
			return err
		}
		x, err := f.PopDouble()
		if err != nil {
			return err
		}
		a, b = x, y
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		if op == bytecode.OpFcmpg || op == bytecode.OpDcmpg {
			return f.PushInt(1)
		}
		return f.PushInt(-1)
	}
	return f.PushInt(sign(a, b))
}

func sign[T int64 | float64](a, b T) int32 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
