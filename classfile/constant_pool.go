package classfile

import (
	"fmt"
	"math"
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

// Constant pool tags.
const (
	TagUnusable           Tag = 0 // index 0 and the slot after a Long or Double
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

var tagNames = map[Tag]string{
	TagUnusable:           "Unusable",
	TagUtf8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldref:           "Fieldref",
	TagMethodref:          "Methodref",
	TagInterfaceMethodref: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
	TagMethodHandle:       "MethodHandle",
	TagMethodType:         "MethodType",
	TagDynamic:            "Dynamic",
	TagInvokeDynamic:      "InvokeDynamic",
	TagModule:             "Module",
	TagPackage:            "Package",
}

// String returns the tag name used in class file listings.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Wide reports whether an entry with this tag occupies two pool slots.
func (t Tag) Wide() bool {
	return t == TagLong || t == TagDouble
}

// Constant is a single constant pool entry. Which fields are meaningful
// depends on Tag:
//
//	Utf8                      Text
//	Integer, Float            Bits (low 32 bits)
//	Long, Double              Bits
//	Class, String, MethodType Index1 (name / string / descriptor)
//	Module, Package           Index1 (name)
//	Fieldref, *Methodref      Index1 = class, Index2 = name-and-type
//	NameAndType               Index1 = name, Index2 = descriptor
//	MethodHandle              Kind, Index1 = reference
//	Dynamic, InvokeDynamic    Index1 = bootstrap method, Index2 = name-and-type
type Constant struct {
	Tag    Tag
	Text   string `cbor:",omitempty"`
	Bits   uint64 `cbor:",omitempty"`
	Index1 uint16 `cbor:",omitempty"`
	Index2 uint16 `cbor:",omitempty"`
	Kind   uint8  `cbor:",omitempty"`
}

// MemberRef is a resolved Fieldref, Methodref or InterfaceMethodref.
type MemberRef struct {
	Class      string
	Name       string
	Descriptor string
}

func (r MemberRef) String() string {
	return r.Class + "." + r.Name + ":" + r.Descriptor
}

// ConstantPool is the per-class table of symbolic references. Indices are
// 1-based; Entries[0] is always unusable.
type ConstantPool struct {
	Entries []Constant
}

// NewConstantPool returns an empty pool ready for Add calls.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{Entries: []Constant{{}}}
}

// Count returns the constant_pool_count value: one more than the highest
// valid index.
func (cp *ConstantPool) Count() int {
	return len(cp.Entries)
}

// Get returns the entry at index.
func (cp *ConstantPool) Get(index uint16) (Constant, error) {
	if index == 0 || int(index) >= len(cp.Entries) {
		return Constant{}, fmt.Errorf("#%d: %w", index, ErrBadConstantIndex)
	}
	c := cp.Entries[index]
	if c.Tag == TagUnusable {
		return Constant{}, fmt.Errorf("#%d: %w", index, ErrBadConstantIndex)
	}
	return c, nil
}

func (cp *ConstantPool) expect(index uint16, tags ...Tag) (Constant, error) {
	c, err := cp.Get(index)
	if err != nil {
		return c, err
	}
	for _, t := range tags {
		if c.Tag == t {
			return c, nil
		}
	}
	return Constant{}, fmt.Errorf("#%d is %s, want %s: %w", index, c.Tag, tags[0], ErrWrongConstantKind)
}

// UTF8 resolves a Utf8 entry.
func (cp *ConstantPool) UTF8(index uint16) (string, error) {
	c, err := cp.expect(index, TagUtf8)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// ClassName resolves a Class entry to its internal name (e.g. "java/lang/Object").
func (cp *ConstantPool) ClassName(index uint16) (string, error) {
	c, err := cp.expect(index, TagClass)
	if err != nil {
		return "", err
	}
	return cp.UTF8(c.Index1)
}

// NameAndType resolves a NameAndType entry.
func (cp *ConstantPool) NameAndType(index uint16) (name, descriptor string, err error) {
	c, err := cp.expect(index, TagNameAndType)
	if err != nil {
		return "", "", err
	}
	if name, err = cp.UTF8(c.Index1); err != nil {
		return "", "", err
	}
	if descriptor, err = cp.UTF8(c.Index2); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

func (cp *ConstantPool) memberRef(index uint16, tags ...Tag) (MemberRef, error) {
	c, err := cp.expect(index, tags...)
	if err != nil {
		return MemberRef{}, err
	}
	class, err := cp.ClassName(c.Index1)
	if err != nil {
		return MemberRef{}, err
	}
	name, desc, err := cp.NameAndType(c.Index2)
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{Class: class, Name: name, Descriptor: desc}, nil
}

// FieldRef resolves a Fieldref entry.
func (cp *ConstantPool) FieldRef(index uint16) (MemberRef, error) {
	return cp.memberRef(index, TagFieldref)
}

// MethodRef resolves a Methodref or InterfaceMethodref entry.
func (cp *ConstantPool) MethodRef(index uint16) (MemberRef, error) {
	return cp.memberRef(index, TagMethodref, TagInterfaceMethodref)
}

// Integer resolves an Integer entry.
func (cp *ConstantPool) Integer(index uint16) (int32, error) {
	c, err := cp.expect(index, TagInteger)
	if err != nil {
		return 0, err
	}
	return int32(uint32(c.Bits)), nil
}

// Float resolves a Float entry.
func (cp *ConstantPool) Float(index uint16) (float32, error) {
	c, err := cp.expect(index, TagFloat)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(c.Bits)), nil
}

// Long resolves a Long entry.
func (cp *ConstantPool) Long(index uint16) (int64, error) {
	c, err := cp.expect(index, TagLong)
	if err != nil {
		return 0, err
	}
	return int64(c.Bits), nil
}

// Double resolves a Double entry.
func (cp *ConstantPool) Double(index uint16) (float64, error) {
	c, err := cp.expect(index, TagDouble)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(c.Bits), nil
}

// String resolves a String entry to its text.
func (cp *ConstantPool) String(index uint16) (string, error) {
	c, err := cp.expect(index, TagString)
	if err != nil {
		return "", err
	}
	return cp.UTF8(c.Index1)
}

// Describe renders an entry the way javap's constant pool listing does.
func (cp *ConstantPool) Describe(index uint16) string {
	c, err := cp.Get(index)
	if err != nil {
		return err.Error()
	}
	switch c.Tag {
	case TagUtf8:
		return c.Text
	case TagInteger:
		return fmt.Sprintf("%d", int32(uint32(c.Bits)))
	case TagFloat:
		return fmt.Sprintf("%gf", math.Float32frombits(uint32(c.Bits)))
	case TagLong:
		return fmt.Sprintf("%dl", int64(c.Bits))
	case TagDouble:
		return fmt.Sprintf("%gd", math.Float64frombits(c.Bits))
	case TagClass, TagModule, TagPackage:
		name, _ := cp.UTF8(c.Index1)
		return name
	case TagString:
		s, _ := cp.UTF8(c.Index1)
		return s
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		ref, err := cp.memberRef(index, c.Tag)
		if err != nil {
			return err.Error()
		}
		return ref.String()
	case TagNameAndType:
		name, desc, _ := cp.NameAndType(index)
		return name + ":" + desc
	case TagMethodType:
		desc, _ := cp.UTF8(c.Index1)
		return desc
	case TagMethodHandle:
		return fmt.Sprintf("kind=%d #%d", c.Kind, c.Index1)
	default:
		return fmt.Sprintf("#%d:#%d", c.Index1, c.Index2)
	}
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Add appends c, reusing an identical existing entry. Long and Double
// entries take two slots.
func (cp *ConstantPool) Add(c Constant) (uint16, error) {
	for i := 1; i < len(cp.Entries); i++ {
		if cp.Entries[i] == c {
			return uint16(i), nil
		}
	}
	slots := 1
	if c.Tag.Wide() {
		slots = 2
	}
	if len(cp.Entries)+slots > math.MaxUint16 {
		return 0, ErrConstantPoolFull
	}
	index := uint16(len(cp.Entries))
	cp.Entries = append(cp.Entries, c)
	if slots == 2 {
		cp.Entries = append(cp.Entries, Constant{})
	}
	return index, nil
}

// mustAdd is Add for pools built in code, where overflowing 65535 entries
// is a programming error.
func (cp *ConstantPool) mustAdd(c Constant) uint16 {
	index, err := cp.Add(c)
	if err != nil {
		panic(err)
	}
	return index
}

// AddUtf8 interns a Utf8 entry.
func (cp *ConstantPool) AddUtf8(s string) uint16 {
	return cp.mustAdd(Constant{Tag: TagUtf8, Text: s})
}

// AddClass interns a Class entry.
func (cp *ConstantPool) AddClass(name string) uint16 {
	return cp.mustAdd(Constant{Tag: TagClass, Index1: cp.AddUtf8(name)})
}

// AddString interns a String entry.
func (cp *ConstantPool) AddString(s string) uint16 {
	return cp.mustAdd(Constant{Tag: TagString, Index1: cp.AddUtf8(s)})
}

// AddInteger interns an Integer entry.
func (cp *ConstantPool) AddInteger(v int32) uint16 {
	return cp.mustAdd(Constant{Tag: TagInteger, Bits: uint64(uint32(v))})
}

// AddFloat interns a Float entry.
func (cp *ConstantPool) AddFloat(v float32) uint16 {
	return cp.mustAdd(Constant{Tag: TagFloat, Bits: uint64(math.Float32bits(v))})
}

// AddLong interns a Long entry.
func (cp *ConstantPool) AddLong(v int64) uint16 {
	return cp.mustAdd(Constant{Tag: TagLong, Bits: uint64(v)})
}

// AddDouble interns a Double entry.
func (cp *ConstantPool) AddDouble(v float64) uint16 {
	return cp.mustAdd(Constant{Tag: TagDouble, Bits: math.Float64bits(v)})
}

// AddNameAndType interns a NameAndType entry.
func (cp *ConstantPool) AddNameAndType(name, descriptor string) uint16 {
	return cp.mustAdd(Constant{Tag: TagNameAndType, Index1: cp.AddUtf8(name), Index2: cp.AddUtf8(descriptor)})
}

// AddFieldref interns a Fieldref entry.
func (cp *ConstantPool) AddFieldref(class, name, descriptor string) uint16 {
	return cp.addRef(TagFieldref, class, name, descriptor)
}

// AddMethodref interns a Methodref entry.
func (cp *ConstantPool) AddMethodref(class, name, descriptor string) uint16 {
	return cp.addRef(TagMethodref, class, name, descriptor)
}

// AddInterfaceMethodref interns an InterfaceMethodref entry.
func (cp *ConstantPool) AddInterfaceMethodref(class, name, descriptor string) uint16 {
	return cp.addRef(TagInterfaceMethodref, class, name, descriptor)
}

func (cp *ConstantPool) addRef(tag Tag, class, name, descriptor string) uint16 {
	classIndex := cp.AddClass(class)
	ntIndex := cp.AddNameAndType(name, descriptor)
	return cp.mustAdd(Constant{Tag: tag, Index1: classIndex, Index2: ntIndex})
}
