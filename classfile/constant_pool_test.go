package classfile

import (
	"errors"
	"testing"
)

func TestConstantPoolInterning(t *testing.T) {
	cp := NewConstantPool()
	a := cp.AddUtf8("hello")
	b := cp.AddUtf8("hello")
	if a != b {
		t.Errorf("AddUtf8 twice = %d, %d; want same index", a, b)
	}
	if a != 1 {
		t.Errorf("first index = %d, want 1", a)
	}

	c1 := cp.AddClass("Counter")
	c2 := cp.AddClass("Counter")
	if c1 != c2 {
		t.Errorf("AddClass twice = %d, %d; want same index", c1, c2)
	}
}

func TestConstantPoolWideEntries(t *testing.T) {
	cp := NewConstantPool()
	l := cp.AddLong(1 << 40)
	next := cp.AddInteger(7)
	if next != l+2 {
		t.Errorf("entry after Long = %d, want %d", next, l+2)
	}
	if _, err := cp.Get(l + 1); !errors.Is(err, ErrBadConstantIndex) {
		t.Errorf("Get(slot after Long) error = %v, want ErrBadConstantIndex", err)
	}

	v, err := cp.Long(l)
	if err != nil {
		t.Fatalf("Long: %v", err)
	}
	if v != 1<<40 {
		t.Errorf("Long = %d, want %d", v, int64(1<<40))
	}

	d := cp.AddDouble(2.5)
	got, err := cp.Double(d)
	if err != nil || got != 2.5 {
		t.Errorf("Double = %v, %v; want 2.5", got, err)
	}
	if cp.Count() != int(d)+2 {
		t.Errorf("Count = %d, want %d", cp.Count(), int(d)+2)
	}
}

func TestConstantPoolNumericConstants(t *testing.T) {
	cp := NewConstantPool()
	i := cp.AddInteger(-42)
	f := cp.AddFloat(1.5)

	iv, err := cp.Integer(i)
	if err != nil || iv != -42 {
		t.Errorf("Integer = %d, %v; want -42", iv, err)
	}
	fv, err := cp.Float(f)
	if err != nil || fv != 1.5 {
		t.Errorf("Float = %v, %v; want 1.5", fv, err)
	}
}

func TestConstantPoolMemberRefs(t *testing.T) {
	cp := NewConstantPool()
	fi := cp.AddFieldref("Counter", "i", "I")
	mi := cp.AddMethodref("Counter", "add", "(I)V")
	ii := cp.AddInterfaceMethodref("Runnable", "run", "()V")

	f, err := cp.FieldRef(fi)
	if err != nil {
		t.Fatalf("FieldRef: %v", err)
	}
	if f != (MemberRef{Class: "Counter", Name: "i", Descriptor: "I"}) {
		t.Errorf("FieldRef = %+v", f)
	}

	m, err := cp.MethodRef(mi)
	if err != nil {
		t.Fatalf("MethodRef: %v", err)
	}
	if m.String() != "Counter.add:(I)V" {
		t.Errorf("MethodRef = %s, want Counter.add:(I)V", m)
	}

	if _, err := cp.MethodRef(ii); err != nil {
		t.Errorf("MethodRef(InterfaceMethodref): %v", err)
	}
	if _, err := cp.FieldRef(mi); !errors.Is(err, ErrWrongConstantKind) {
		t.Errorf("FieldRef(Methodref) error = %v, want ErrWrongConstantKind", err)
	}
}

func TestConstantPoolResolutionErrors(t *testing.T) {
	cp := NewConstantPool()
	u := cp.AddUtf8("x")

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"index zero", func() error { _, err := cp.UTF8(0); return err }, ErrBadConstantIndex},
		{"past end", func() error { _, err := cp.UTF8(99); return err }, ErrBadConstantIndex},
		{"utf8 as class", func() error { _, err := cp.ClassName(u); return err }, ErrWrongConstantKind},
		{"utf8 as string", func() error { _, err := cp.String(u); return err }, ErrWrongConstantKind},
		{"utf8 as integer", func() error { _, err := cp.Integer(u); return err }, ErrWrongConstantKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConstantPoolDescribe(t *testing.T) {
	cp := NewConstantPool()
	mi := cp.AddMethodref("java/lang/Object", "<init>", "()V")
	si := cp.AddString("hi")
	ii := cp.AddInteger(3)

	if got := cp.Describe(mi); got != "java/lang/Object.<init>:()V" {
		t.Errorf("Describe(Methodref) = %q", got)
	}
	if got := cp.Describe(si); got != "hi" {
		t.Errorf("Describe(String) = %q", got)
	}
	if got := cp.Describe(ii); got != "3" {
		t.Errorf("Describe(Integer) = %q", got)
	}
}

func TestTagString(t *testing.T) {
	if TagMethodref.String() != "Methodref" {
		t.Errorf("TagMethodref.String() = %q", TagMethodref.String())
	}
	if Tag(2).String() != "Tag(2)" {
		t.Errorf("Tag(2).String() = %q", Tag(2).String())
	}
}
