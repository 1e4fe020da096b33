package vm

import (
	"errors"
	"testing"
)

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc   string
		params []string
		ret    string // "" for void
	}{
		{"(II)I", []string{"I", "I"}, "I"},
		{"()V", nil, ""},
		{"(Ljava/lang/String;)V", []string{"Ljava/lang/String;"}, ""},
		{"(JDZ)J", []string{"J", "D", "Z"}, "J"},
		{"([I[[Ljava/lang/Object;)[I", []string{"[I", "[[Ljava/lang/Object;"}, "[I"},
		{"(BCSF)LPoint;", []string{"B", "C", "S", "F"}, "LPoint;"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			d, err := ParseMethodDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseMethodDescriptor: %v", err)
			}
			if len(d.Params) != len(tt.params) {
				t.Fatalf("len(Params) = %d, want %d", len(d.Params), len(tt.params))
			}
			for i, p := range d.Params {
				if p.String() != tt.params[i] {
					t.Errorf("Params[%d] = %s, want %s", i, p, tt.params[i])
				}
			}
			switch {
			case tt.ret == "" && !d.IsVoid():
				t.Errorf("Return = %s, want void", d.Return)
			case tt.ret != "" && (d.Return == nil || d.Return.String() != tt.ret):
				t.Errorf("Return = %v, want %s", d.Return, tt.ret)
			}
			if d.String() != tt.desc {
				t.Errorf("String() = %q, want %q", d.String(), tt.desc)
			}
		})
	}
}

func TestParseMethodDescriptorClassName(t *testing.T) {
	d, err := ParseMethodDescriptor("(Ljava/lang/String;)V")
	if err != nil {
		t.Fatal(err)
	}
	p := d.Params[0]
	if p.Tag != TagReference || p.ClassName != "java/lang/String" {
		t.Errorf("param = %+v, want reference to java/lang/String", p)
	}
}

func TestParseMethodDescriptorErrors(t *testing.T) {
	for _, desc := range []string{
		"",
		"II)I",
		"(II",
		"(II I",
		"(Ljava/lang/String)V",
		"(L;)V",
		"(Q)V",
		"(V)V",
		"()",
		"()II",
		"(I)[",
	} {
		if _, err := ParseMethodDescriptor(desc); !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("ParseMethodDescriptor(%q) error = %v, want ErrInvalidDescriptor", desc, err)
		}
	}
}

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		tag  byte
		wide bool
	}{
		{"I", TagInt, false},
		{"J", TagLong, true},
		{"D", TagDouble, true},
		{"Z", TagBoolean, false},
		{"LFoo;", TagReference, false},
		{"[J", TagArray, false},
	}
	for _, tt := range tests {
		ft, err := ParseFieldDescriptor(tt.desc)
		if err != nil {
			t.Errorf("ParseFieldDescriptor(%q): %v", tt.desc, err)
			continue
		}
		if ft.Tag != tt.tag || ft.IsWide() != tt.wide {
			t.Errorf("ParseFieldDescriptor(%q) = %+v", tt.desc, ft)
		}
		if ft.String() != tt.desc {
			t.Errorf("String() = %q, want %q", ft.String(), tt.desc)
		}
	}

	for _, desc := range []string{"", "V", "II", "[", "()I"} {
		if _, err := ParseFieldDescriptor(desc); !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("ParseFieldDescriptor(%q) error = %v, want ErrInvalidDescriptor", desc, err)
		}
	}
}

func TestZeroValue(t *testing.T) {
	tests := []struct {
		desc string
		want Value
	}{
		{"I", FromInt(0)},
		{"Z", FromInt(0)},
		{"B", FromByte(0)},
		{"C", FromChar(0)},
		{"S", FromShort(0)},
		{"J", FromLong(0)},
		{"F", FromFloat(0)},
		{"D", FromDouble(0)},
		{"Ljava/lang/Object;", Null},
		{"[I", Null},
	}
	for _, tt := range tests {
		ft, err := ParseFieldDescriptor(tt.desc)
		if err != nil {
			t.Fatal(err)
		}
		if got := ft.ZeroValue(); got != tt.want {
			t.Errorf("ZeroValue(%s) = %s, want %s", tt.desc, got, tt.want)
		}
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		desc string
		in   Value
		want Value
	}{
		{"B", FromInt(200), FromByte(-56)},
		{"C", FromInt(-1), FromChar(0xffff)},
		{"S", FromInt(70000), FromShort(4464)},
		{"Z", FromInt(3), FromInt(1)},
		{"I", FromChar('a'), FromInt('a')},
		{"J", FromLong(5), FromLong(5)},
		{"LFoo;", Null, Null},
	}
	for _, tt := range tests {
		ft, _ := ParseFieldDescriptor(tt.desc)
		got, err := ft.Coerce(tt.in)
		if err != nil {
			t.Errorf("Coerce(%s, %s): %v", tt.desc, tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Coerce(%s, %s) = %s, want %s", tt.desc, tt.in, got, tt.want)
		}
	}

	mismatches := []struct {
		desc string
		in   Value
	}{
		{"I", FromLong(1)},
		{"J", FromInt(1)},
		{"F", FromDouble(1)},
		{"LFoo;", FromInt(0)},
	}
	for _, tt := range mismatches {
		ft, _ := ParseFieldDescriptor(tt.desc)
		if _, err := ft.Coerce(tt.in); !errors.Is(err, ErrUnexpectedOperand) {
			t.Errorf("Coerce(%s, %s) error = %v, want ErrUnexpectedOperand", tt.desc, tt.in, err)
		}
	}
}
