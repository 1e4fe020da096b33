package vm

import (
	"errors"
	"testing"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/pkg/bytecode"
)

func returnVoid(a *bytecode.Assembler) { a.Emit(bytecode.OpReturn) }

func TestFromClassFile(t *testing.T) {
	b := classfile.NewBuilder("shapes/Point", "java/lang/Object")
	b.AddField(classfile.AccPrivate, "x", "I")
	b.AddField(classfile.AccPrivate, "label", "Ljava/lang/String;")
	if err := b.AddMethod(classfile.AccPublic|classfile.AccAbstract, "area", "()D", nil); err != nil {
		t.Fatal(err)
	}
	code := bytecode.NewAssembler()
	code.Emit(bytecode.OpIconst0)
	code.Emit(bytecode.OpIreturn)
	attr := &classfile.CodeAttribute{MaxStack: 1, MaxLocals: 1, Code: code.MustAssemble()}
	if err := b.AddMethod(classfile.AccPublic, "getX", "()I", attr); err != nil {
		t.Fatal(err)
	}

	c, err := FromClassFile(b.Build())
	if err != nil {
		t.Fatalf("FromClassFile: %v", err)
	}
	if c.Name != "shapes/Point" || c.Super != "java/lang/Object" {
		t.Errorf("class = %s extends %s", c.Name, c.Super)
	}
	if len(c.Fields) != 2 || c.Fields[1].Type.ClassName != "java/lang/String" {
		t.Errorf("Fields = %+v", c.Fields)
	}
	if len(c.Methods) != 1 {
		t.Fatalf("len(Methods) = %d, want 1 (methods without code are dropped)", len(c.Methods))
	}
	m := c.Methods[0]
	if m.Class != c || m.String() != "shapes/Point.getX:()I" {
		t.Errorf("method = %s", m)
	}
	if m.Code.MaxStack != 1 || len(m.Code.Instructions) != 2 {
		t.Errorf("Code = %+v", m.Code)
	}
}

func TestFromClassFileBadDescriptor(t *testing.T) {
	b := classfile.NewBuilder("Bad", "java/lang/Object")
	b.AddField(0, "f", "Q")
	if _, err := FromClassFile(b.Build()); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestDefaultFields(t *testing.T) {
	c := newTestClass(t, "Node", "java/lang/Object").
		field(0, "count", "I").
		field(0, "next", "LNode;").
		field(0, "total", "J").
		field(0, "flag", "Z").
		field(0, "ratio", "D").
		field(0, "items", "[I").
		build()

	want := []Value{FromInt(0), Null, FromLong(0), FromInt(0), FromDouble(0), Null}
	got := c.DefaultFields()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %s = %s, want %s", c.Fields[i].Name, got[i], want[i])
		}
	}

	h := NewHeap()
	obj, err := h.Object(h.NewObject(c))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := obj.GetField("count"); v != FromInt(0) {
		t.Errorf("count = %s, want Integer(0)", v)
	}
	if v, _ := obj.GetField("next"); !v.IsNull() {
		t.Errorf("next = %s, want Null", v)
	}
}

func TestFindMethod(t *testing.T) {
	c := newTestClass(t, "Over", "java/lang/Object").
		method(accStatic, "f", "(I)V", 0, 1, returnVoid).
		method(accStatic, "f", "(J)V", 0, 2, returnVoid).
		build()

	if m := c.FindMethod("f"); m == nil || m.Descriptor != "(I)V" {
		t.Errorf("FindMethod(f) = %v, want the first declared overload", m)
	}
	if m := c.FindMethodWithDescriptor("f", "(J)V"); m == nil || m.Code.MaxLocals != 2 {
		t.Errorf("FindMethodWithDescriptor(f, (J)V) = %v", m)
	}
	if c.FindMethod("g") != nil || c.FindMethodWithDescriptor("f", "()V") != nil {
		t.Error("lookup of an undeclared method should return nil")
	}
}

func TestCodeIndexOf(t *testing.T) {
	a := bytecode.NewAssembler()
	a.Emit(bytecode.OpIconst0) // 0
	a.Iconst(100)              // 1: bipush
	a.Emit(bytecode.OpIadd)    // 3
	a.Emit(bytecode.OpIreturn) // 4
	code, err := NewCode(2, 0, a.MustAssemble())
	if err != nil {
		t.Fatal(err)
	}
	for offset, want := range map[int]int{0: 0, 1: 1, 3: 2, 4: 3} {
		if i, ok := code.IndexOf(offset); !ok || i != want {
			t.Errorf("IndexOf(%d) = %d, %v; want %d", offset, i, ok, want)
		}
	}
	for _, offset := range []int{2, 5, -1} {
		if _, ok := code.IndexOf(offset); ok {
			t.Errorf("IndexOf(%d) should not resolve", offset)
		}
	}
}

func TestClassTable(t *testing.T) {
	ct := NewClassTable()
	a := &RuntimeClass{Name: "A"}
	b := &RuntimeClass{Name: "B"}

	if old := ct.Register(b); old != nil {
		t.Errorf("Register returned %v for a new name", old)
	}
	ct.Register(a)
	a2 := &RuntimeClass{Name: "A"}
	if old := ct.Register(a2); old != a {
		t.Errorf("Register returned %v, want the replaced class", old)
	}
	if ct.Lookup("A") != a2 || !ct.Has("B") || ct.Has("C") {
		t.Error("lookup after register")
	}
	if _, err := ct.Resolve("C"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("Resolve(C) error = %v, want ErrClassNotFound", err)
	}
	all := ct.All()
	if ct.Len() != 2 || len(all) != 2 || all[0].Name != "A" || all[1].Name != "B" {
		t.Errorf("All() = %v", all)
	}
}
