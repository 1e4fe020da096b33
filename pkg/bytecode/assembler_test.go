package bytecode

import (
	"bytes"
	"errors"
	"testing"
)

func TestAssemblerEmit(t *testing.T) {
	a := NewAssembler()
	if off := a.Emit(OpIconst1); off != 0 {
		t.Errorf("first Emit offset = %d, want 0", off)
	}
	if off := a.Index(OpGetfield, 0x0102); off != 1 {
		t.Errorf("Index offset = %d, want 1", off)
	}
	if a.Offset() != 4 {
		t.Errorf("Offset() = %d, want 4", a.Offset())
	}
	code := a.MustAssemble()
	want := []byte{0x04, 0xB4, 0x01, 0x02}
	if !bytes.Equal(code, want) {
		t.Errorf("code = % x, want % x", code, want)
	}
}

func TestAssemblerIconst(t *testing.T) {
	tests := []struct {
		v    int32
		want []byte
	}{
		{-1, []byte{0x02}},
		{0, []byte{0x03}},
		{5, []byte{0x08}},
		{6, []byte{0x10, 0x06}},
		{-128, []byte{0x10, 0x80}},
		{300, []byte{0x11, 0x01, 0x2C}},
		{-300, []byte{0x11, 0xFE, 0xD4}},
	}

	for _, tt := range tests {
		a := NewAssembler()
		a.Iconst(tt.v)
		if got := a.MustAssemble(); !bytes.Equal(got, tt.want) {
			t.Errorf("Iconst(%d) = % x, want % x", tt.v, got, tt.want)
		}
	}

	a := NewAssembler()
	a.Iconst(1 << 20)
	if _, err := a.Assemble(); !errors.Is(err, ErrOperandRange) {
		t.Errorf("Iconst(1<<20) error = %v, want ErrOperandRange", err)
	}
}

func TestAssemblerLocals(t *testing.T) {
	a := NewAssembler()
	a.Local(OpIstore, 3)
	a.Local(OpIload, 300)
	a.Iinc(1, 1)
	a.Iinc(1, 1000)
	code := a.MustAssemble()

	instrs, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(instrs) != 4 {
		t.Fatalf("decoded %d instructions, want 4", len(instrs))
	}
	if instrs[0].Op != OpIstore || instrs[0].Index != 3 || instrs[0].Wide {
		t.Errorf("instr 0 = %+v", instrs[0])
	}
	if instrs[1].Op != OpIload || instrs[1].Index != 300 || !instrs[1].Wide {
		t.Errorf("instr 1 = %+v", instrs[1])
	}
	if instrs[2].Wide || instrs[2].Const != 1 {
		t.Errorf("instr 2 = %+v", instrs[2])
	}
	if !instrs[3].Wide || instrs[3].Const != 1000 {
		t.Errorf("instr 3 = %+v", instrs[3])
	}

	bad := NewAssembler()
	bad.Local(OpIadd, 1)
	if _, err := bad.Assemble(); !errors.Is(err, ErrOperandRange) {
		t.Errorf("Local(iadd) error = %v, want ErrOperandRange", err)
	}
}

func TestAssemblerBranches(t *testing.T) {
	a := NewAssembler()
	a.Label("top")           // 0
	a.Emit(OpIload0)         // 0
	a.Branch(OpIfeq, "done") // 1
	a.Iinc(0, -1)            // 4
	a.Branch(OpGoto, "top")  // 7
	a.Label("done")          // 10
	a.Branch(OpGotoW, "top") // 10
	a.Emit(OpReturn)         // 15
	code := a.MustAssemble()

	instrs, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	targets := map[int]int{}
	for _, in := range instrs {
		if in.Op.IsBranch() {
			targets[in.Offset] = in.Target()
		}
	}
	want := map[int]int{1: 10, 7: 0, 10: 0}
	for from, to := range want {
		if targets[from] != to {
			t.Errorf("branch at %d targets %d, want %d", from, targets[from], to)
		}
	}
	if instrs[4].Len != 5 {
		t.Errorf("goto_w Len = %d, want 5", instrs[4].Len)
	}
}

func TestAssemblerLabelErrors(t *testing.T) {
	a := NewAssembler()
	a.Branch(OpGoto, "nowhere")
	if _, err := a.Assemble(); !errors.Is(err, ErrUndefinedLabel) {
		t.Errorf("undefined label error = %v, want ErrUndefinedLabel", err)
	}

	a = NewAssembler()
	a.Label("x")
	a.Label("x")
	if _, err := a.Assemble(); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("duplicate label error = %v, want ErrDuplicateLabel", err)
	}

	a = NewAssembler()
	a.Branch(OpGoto, "far")
	for i := 0; i < 40000; i++ {
		a.Emit(OpNop)
	}
	a.Label("far")
	if _, err := a.Assemble(); !errors.Is(err, ErrBranchTooFar) {
		t.Errorf("far branch error = %v, want ErrBranchTooFar", err)
	}
}
