package classfile

import (
	"bytes"
	"errors"
	"testing"
)

// counterClass builds a small class resembling:
//
//	public class Counter {
//	    private int i;
//	    private Counter next;
//	    public int get() { return this.i; }
//	    public abstract void reset();
//	}
func counterClass(t *testing.T) *ClassFile {
	t.Helper()
	b := NewBuilder("Counter", "java/lang/Object")
	b.AddField(AccPrivate, "i", "I")
	b.AddField(AccPrivate, "next", "LCounter;")
	fi := b.Pool().AddFieldref("Counter", "i", "I")

	code := &CodeAttribute{
		MaxStack:  1,
		MaxLocals: 1,
		// aload_0; getfield #fi; ireturn
		Code: []byte{0x2a, 0xb4, byte(fi >> 8), byte(fi), 0xac},
	}
	if err := b.AddMethod(AccPublic, "get", "()I", code); err != nil {
		t.Fatal(err)
	}
	if err := b.AddMethod(AccPublic|AccAbstract, "reset", "()V", nil); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

func TestParseRoundTrip(t *testing.T) {
	built := counterClass(t)
	data, err := Encode(built)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cf, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	name, err := cf.ThisClassName()
	if err != nil || name != "Counter" {
		t.Errorf("ThisClassName = %q, %v; want Counter", name, err)
	}
	super, err := cf.SuperClassName()
	if err != nil || super != "java/lang/Object" {
		t.Errorf("SuperClassName = %q, %v", super, err)
	}
	if cf.Version() != "52.0" {
		t.Errorf("Version = %s, want 52.0", cf.Version())
	}
	if len(cf.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(cf.Fields))
	}
	if d, _ := cf.FieldDescriptor(&cf.Fields[1]); d != "LCounter;" {
		t.Errorf("field 1 descriptor = %q", d)
	}
	if len(cf.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(cf.Methods))
	}

	get := cf.FindMethod("get", AccPublic)
	if get == nil {
		t.Fatal("FindMethod(get) = nil")
	}
	if get.Code == nil {
		t.Fatal("get has no decoded Code")
	}
	if get.Code.MaxStack != 1 || get.Code.MaxLocals != 1 {
		t.Errorf("max stack/locals = %d/%d, want 1/1", get.Code.MaxStack, get.Code.MaxLocals)
	}
	if !bytes.Equal(get.Code.Code, built.Methods[0].Code.Code) {
		t.Errorf("code = % x, want % x", get.Code.Code, built.Methods[0].Code.Code)
	}

	reset := cf.FindMethod("reset", AccAbstract)
	if reset == nil || reset.Code != nil {
		t.Errorf("abstract method reset = %+v, want no Code", reset)
	}
	if cf.FindMethod("get", AccStatic) != nil {
		t.Error("FindMethod(get, static) should not match an instance method")
	}

	again, err := Encode(cf)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-encoded bytes differ from original")
	}
}

func TestParseErrors(t *testing.T) {
	good, err := Encode(counterClass(t))
	if err != nil {
		t.Fatal(err)
	}

	badTag := append([]byte(nil), good...)
	badTag[10] = 2 // first constant's tag

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 52}, ErrInvalidMagic},
		{"truncated", good[:len(good)-3], ErrTruncated},
		{"trailing", append(append([]byte(nil), good...), 0), ErrTrailingBytes},
		{"bad tag", badTag, ErrInvalidConstantTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse error = %v, want %v", err, tt.want)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("error %T is not a *FormatError", err)
			}
		})
	}
}

func TestModifiedUTF8(t *testing.T) {
	tests := []string{"", "abc", "café", "nul\x00byte", "世界", "\U0001F600"}
	for _, s := range tests {
		enc := encodeMUTF8(s)
		if bytes.IndexByte(enc, 0) >= 0 {
			t.Errorf("encodeMUTF8(%q) contains a zero byte", s)
		}
		got, err := decodeMUTF8(enc)
		if err != nil {
			t.Errorf("decodeMUTF8(%q): %v", s, err)
			continue
		}
		if got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}

	if len(encodeMUTF8("\U0001F600")) != 6 {
		t.Error("supplementary character should encode as two 3-byte surrogates")
	}
	for _, bad := range [][]byte{{0x00}, {0xC0}, {0xE0, 0x80}, {0xF0, 0x9F, 0x98, 0x80}} {
		if _, err := decodeMUTF8(bad); !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("decodeMUTF8(% x) error = %v, want ErrInvalidUTF8", bad, err)
		}
	}
}
