package vm

import "testing"

func TestLayout(t *testing.T) {
	base := newTestClass(t, "Base", "java/lang/Object").
		field(accStatic, "count", "I").
		field(0, "x", "I").
		build()
	derived := newTestClass(t, "Derived", "Base").
		field(0, "y", "J").
		field(0, "x", "Ljava/lang/Object;").
		build()

	l := NewLayout(base, derived)
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	tests := []struct {
		class, name string
		want        int
	}{
		{"Derived", "x", 2},
		{"Base", "x", 0},
		{"Derived", "y", 1},
		{"Other", "x", 2},
		{"Base", "y", -1},
		{"Derived", "count", -1},
		{"Derived", "missing", -1},
	}
	for _, tt := range tests {
		if got := l.Index(tt.class, tt.name); got != tt.want {
			t.Errorf("Index(%s, %s) = %d, want %d", tt.class, tt.name, got, tt.want)
		}
	}

	want := []Value{FromInt(0), FromLong(0), Null}
	for i, v := range l.defaults() {
		if v != want[i] {
			t.Errorf("slot %d (%s) default = %s, want %s", i, l.Field(i).Name, v, want[i])
		}
	}

	h := NewHeap()
	obj, err := h.Object(h.NewInstance(l))
	if err != nil {
		t.Fatal(err)
	}
	if obj.Class != derived {
		t.Errorf("Class = %s, want Derived", obj.Class.Name)
	}
	if err := obj.Put("Base", "x", FromInt(4)); err != nil {
		t.Fatal(err)
	}
	if err := obj.Put("Derived", "x", FromInt(4)); err == nil {
		t.Error("Put int into hiding reference field succeeded")
	}
	if v, _ := obj.GetField("x"); !v.IsNull() {
		t.Errorf("Derived.x = %s, want Null", v)
	}
	if v, _ := obj.Get("Base", "x"); v != FromInt(4) {
		t.Errorf("Base.x = %s, want Integer(4)", v)
	}
}
