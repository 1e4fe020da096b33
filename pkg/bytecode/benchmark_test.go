// Package bytecode benchmarks
//
// These benchmarks measure the performance of:
// - Assembling a method body with labels
// - Decoding a code array into instructions
//
// Run: go test -bench=. ./pkg/bytecode/...
package bytecode

import "testing"

// loopBody assembles a counting loop with a switch in its body.
func loopBody() *Assembler {
	a := NewAssembler()
	a.Emit(OpIconst0)
	a.Local(OpIstore, 1)
	a.Label("loop")
	a.Local(OpIload, 1)
	a.Tableswitch(0, "next", "zero", "one")
	a.Label("zero")
	a.Iinc(2, 1)
	a.Branch(OpGoto, "next")
	a.Label("one")
	a.Iinc(2, 2)
	a.Label("next")
	a.Iinc(1, 1)
	a.Local(OpIload, 1)
	a.Iconst(1000)
	a.Branch(OpIfIcmplt, "loop")
	a.Local(OpIload, 2)
	a.Emit(OpIreturn)
	return a
}

func BenchmarkAssemble(b *testing.B) {
	for b.Loop() {
		if _, err := loopBody().Assemble(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	code := loopBody().MustAssemble()
	for b.Loop() {
		if _, err := Decode(code); err != nil {
			b.Fatal(err)
		}
	}
}
