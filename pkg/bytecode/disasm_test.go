package bytecode

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeSimple(t *testing.T) {
	// iconst_2; iconst_3; iadd; ireturn
	instrs, err := Decode([]byte{0x05, 0x06, 0x60, 0xAC})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []struct {
		op     Opcode
		offset int
	}{
		{OpIconst2, 0},
		{OpIconst3, 1},
		{OpIadd, 2},
		{OpIreturn, 3},
	}
	if len(instrs) != len(want) {
		t.Fatalf("decoded %d instructions, want %d", len(instrs), len(want))
	}
	for i, w := range want {
		if instrs[i].Op != w.op || instrs[i].Offset != w.offset || instrs[i].Len != 1 {
			t.Errorf("instr %d = %s@%d len %d, want %s@%d len 1",
				i, instrs[i].Op, instrs[i].Offset, instrs[i].Len, w.op, w.offset)
		}
	}
}

func TestDecodeOperands(t *testing.T) {
	tests := []struct {
		name  string
		code  []byte
		check func(Instruction) bool
	}{
		{"bipush negative", []byte{0x10, 0xFE}, func(in Instruction) bool { return in.Const == -2 && in.Len == 2 }},
		{"sipush", []byte{0x11, 0x01, 0x00}, func(in Instruction) bool { return in.Const == 256 }},
		{"ldc", []byte{0x12, 0x07}, func(in Instruction) bool { return in.Index == 7 }},
		{"getfield", []byte{0xB4, 0x00, 0x0C}, func(in Instruction) bool { return in.Index == 12 }},
		{"iload", []byte{0x15, 0x04}, func(in Instruction) bool { return in.Index == 4 && !in.Wide }},
		{"iinc", []byte{0x84, 0x01, 0xFF}, func(in Instruction) bool { return in.Index == 1 && in.Const == -1 }},
		{"ifeq backwards", []byte{0x99, 0xFF, 0xFD}, func(in Instruction) bool { return in.Branch == -3 && in.Target() == -3 }},
		{"goto_w", []byte{0xC8, 0x00, 0x01, 0x00, 0x00}, func(in Instruction) bool { return in.Branch == 65536 }},
		{"newarray int", []byte{0xBC, 0x0A}, func(in Instruction) bool { return in.ArrayType == ArrayInt }},
		{"invokeinterface", []byte{0xB9, 0x00, 0x05, 0x02, 0x00}, func(in Instruction) bool { return in.Index == 5 && in.Count == 2 && in.Len == 5 }},
		{"multianewarray", []byte{0xC5, 0x00, 0x03, 0x02}, func(in Instruction) bool { return in.Index == 3 && in.Dims == 2 }},
		{"wide iload", []byte{0xC4, 0x15, 0x01, 0x00}, func(in Instruction) bool {
			return in.Op == OpIload && in.Wide && in.Index == 256 && in.Len == 4
		}},
		{"wide iinc", []byte{0xC4, 0x84, 0x00, 0x02, 0xFF, 0x00}, func(in Instruction) bool {
			return in.Op == OpIinc && in.Wide && in.Index == 2 && in.Const == -256 && in.Len == 6
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instrs, err := Decode(tt.code)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(instrs) != 1 {
				t.Fatalf("decoded %d instructions, want 1", len(instrs))
			}
			if !tt.check(instrs[0]) {
				t.Errorf("unexpected decode: %+v", instrs[0])
			}
		})
	}
}

func TestDecodeSwitchPadding(t *testing.T) {
	a := NewAssembler()
	a.Emit(OpIload0)
	a.Tableswitch(1, "dflt", "one", "two")
	a.Label("one")
	a.Iconst(10)
	a.Emit(OpIreturn)
	a.Label("two")
	a.Iconst(20)
	a.Emit(OpIreturn)
	a.Label("dflt")
	a.Emit(OpIconst0)
	a.Emit(OpIreturn)
	code := a.MustAssemble()

	instrs, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sw := instrs[1]
	if sw.Op != OpTableswitch || sw.Offset != 1 {
		t.Fatalf("instr 1 = %s@%d, want tableswitch@1", sw.Op, sw.Offset)
	}
	// 1 opcode + 2 padding + default, low, high + 2 offsets
	if sw.Len != 1+2+12+8 {
		t.Errorf("tableswitch Len = %d, want %d", sw.Len, 1+2+12+8)
	}
	if sw.Switch.Low != 1 || sw.Switch.High != 2 {
		t.Errorf("low/high = %d/%d, want 1/2", sw.Switch.Low, sw.Switch.High)
	}

	byOffset := make(map[int]Instruction)
	for _, in := range instrs {
		byOffset[in.Offset] = in
	}
	for key, want := range map[int32]int32{1: 10, 2: 20, 3: 0, -5: 0} {
		target := sw.Offset + int(sw.Switch.Lookup(key))
		in, ok := byOffset[target]
		if !ok {
			t.Fatalf("key %d jumps to %d, not an instruction boundary", key, target)
		}
		got := int32(in.Op) - int32(OpIconst0)
		if in.Op == OpBipush {
			got = in.Const
		}
		if got != want {
			t.Errorf("key %d selects constant %d, want %d", key, got, want)
		}
	}
}

func TestDecodeLookupswitch(t *testing.T) {
	a := NewAssembler()
	a.Emit(OpNop)
	a.Emit(OpNop)
	a.Emit(OpIload0)
	a.Lookupswitch("d", []int32{-1, 100}, []string{"neg", "hundred"})
	a.Label("neg")
	a.Label("hundred")
	a.Label("d")
	a.Emit(OpReturn)
	code := a.MustAssemble()

	instrs, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sw := instrs[3]
	if sw.Op != OpLookupswitch {
		t.Fatalf("instr 3 = %s, want lookupswitch", sw.Op)
	}
	// opcode at 3, no padding needed before offset 4
	if sw.Len != 1+8+16 {
		t.Errorf("lookupswitch Len = %d, want %d", sw.Len, 1+8+16)
	}
	if len(sw.Switch.Keys) != 2 || sw.Switch.Keys[1] != 100 {
		t.Errorf("keys = %v, want [-1 100]", sw.Switch.Keys)
	}
	ret := instrs[len(instrs)-1]
	if sw.Offset+int(sw.Switch.Lookup(100)) != ret.Offset {
		t.Errorf("key 100 does not reach return at %d", ret.Offset)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		want   error
		offset int
	}{
		{"invalid opcode", []byte{0x00, 0xCA}, ErrInvalidOpcode, 1},
		{"reserved opcode", []byte{0xFF}, ErrInvalidOpcode, 0},
		{"truncated sipush", []byte{0x11, 0x01}, ErrEndOfCode, 0},
		{"truncated branch", []byte{0x03, 0xA7}, ErrEndOfCode, 1},
		{"wide on non-local", []byte{0xC4, 0x60, 0x00, 0x01}, ErrInvalidOpcode, 0},
		{"truncated wide", []byte{0xC4, 0x15, 0x00}, ErrEndOfCode, 0},
		{"truncated switch", []byte{0xAA, 0, 0, 0, 0, 0, 0}, ErrEndOfCode, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.code)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode error = %v, want %v", err, tt.want)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DecodeError", err)
			}
			if de.Offset != tt.offset {
				t.Errorf("DecodeError.Offset = %d, want %d", de.Offset, tt.offset)
			}
		})
	}
}

type fakePool map[uint16]string

func (p fakePool) Describe(index uint16) string { return p[index] }

func TestListing(t *testing.T) {
	code := []byte{
		0x2A,             // 0: aload_0
		0xB4, 0x00, 0x02, // 1: getfield #2
		0x9A, 0x00, 0x05, // 4: ifne 9
		0x03,             // 7: iconst_0
		0xAC,             // 8: ireturn
		0x04,             // 9: iconst_1
		0xAC,             // 10: ireturn
	}
	instrs, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out := Listing(instrs, fakePool{2: "Counter.i:I"})

	for _, want := range []string{
		"     0: aload_0\n",
		"     1: getfield #2",
		"// Counter.i:I",
		"     4: ifne 9\n",
		"    10: ireturn\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(Listing(instrs, nil), "//") {
		t.Error("listing without a pool should have no comments")
	}
}
