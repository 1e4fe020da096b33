package vm

import (
	"math"
	"testing"

	"github.com/chazu/javelin/pkg/bytecode"
)

func TestConversions(t *testing.T) {
	nan32 := float32(math.NaN())
	tests := []struct {
		op   bytecode.Opcode
		in   Value
		want Value
	}{
		{bytecode.OpI2l, FromInt(-5), FromLong(-5)},
		{bytecode.OpI2f, FromInt(3), FromFloat(3)},
		{bytecode.OpI2d, FromChar('A'), FromDouble(65)},
		{bytecode.OpI2b, FromInt(200), FromInt(-56)},
		{bytecode.OpI2c, FromInt(-1), FromInt(0xffff)},
		{bytecode.OpI2s, FromInt(40000), FromInt(-25536)},
		{bytecode.OpL2i, FromLong(1<<32 + 5), FromInt(5)},
		{bytecode.OpL2d, FromLong(-2), FromDouble(-2)},
		{bytecode.OpF2i, FromFloat(-2.9), FromInt(-2)},
		{bytecode.OpF2i, FromFloat(nan32), FromInt(0)},
		{bytecode.OpF2i, FromFloat(1e20), FromInt(math.MaxInt32)},
		{bytecode.OpF2l, FromFloat(float32(math.Inf(-1))), FromLong(math.MinInt64)},
		{bytecode.OpF2d, FromFloat(0.5), FromDouble(0.5)},
		{bytecode.OpD2i, FromDouble(-1e20), FromInt(math.MinInt32)},
		{bytecode.OpD2l, FromDouble(1e30), FromLong(math.MaxInt64)},
		{bytecode.OpD2l, FromDouble(math.NaN()), FromLong(0)},
		{bytecode.OpD2f, FromDouble(0.25), FromFloat(0.25)},
	}

	for _, tt := range tests {
		f := NewFrame(0, 0)
		_ = f.Push(tt.in)
		if err := convert(f, tt.op); err != nil {
			t.Errorf("%s %s: %v", tt.op, tt.in, err)
			continue
		}
		if got, _ := f.Pop(); got != tt.want {
			t.Errorf("%s %s = %s, want %s", tt.op, tt.in, got, tt.want)
		}
	}
}

func TestFloatCompareNaN(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		op   bytecode.Opcode
		a, b Value
		want int32
	}{
		{bytecode.OpFcmpl, FromFloat(1), FromFloat(2), -1},
		{bytecode.OpFcmpg, FromFloat(2), FromFloat(2), 0},
		{bytecode.OpFcmpl, FromFloat(float32(nan)), FromFloat(2), -1},
		{bytecode.OpFcmpg, FromFloat(float32(nan)), FromFloat(2), 1},
		{bytecode.OpDcmpl, FromDouble(3), FromDouble(nan), -1},
		{bytecode.OpDcmpg, FromDouble(3), FromDouble(nan), 1},
		{bytecode.OpDcmpg, FromDouble(3), FromDouble(-3), 1},
	}
	for _, tt := range tests {
		f := NewFrame(0, 0)
		_ = f.pushAll(tt.a, tt.b)
		if err := compare(f, tt.op); err != nil {
			t.Fatalf("%s: %v", tt.op, err)
		}
		if n, _ := f.PopInt(); n != tt.want {
			t.Errorf("%s %s %s = %d, want %d", tt.op, tt.a, tt.b, n, tt.want)
		}
	}
}

func TestFloatDivisionByZero(t *testing.T) {
	f := NewFrame(0, 0)
	_ = f.pushAll(FromDouble(1), FromDouble(0))
	if err := doubleBinary(f, bytecode.OpDdiv); err != nil {
		t.Fatalf("ddiv by zero: %v", err)
	}
	if x, _ := f.PopDouble(); !math.IsInf(x, 1) {
		t.Errorf("1.0 / 0.0 = %v, want +Inf", x)
	}
}
