package bytecode

import (
	"fmt"
	"strings"
)

// Instruction is one decoded instruction tagged with the byte offset it was
// read from. Branch offsets stay relative to Offset, as encoded; Target
// converts them to absolute byte positions.
type Instruction struct {
	Offset int    // Byte position of the opcode within the method's code
	Len    int    // Encoded length in bytes, operands and padding included
	Op     Opcode // The opcode; for wide forms, the modified opcode
	Wide   bool   // Set when the instruction was prefixed by wide

	Index     uint16 // Local slot or constant pool index
	Const     int32  // bipush/sipush immediate or iinc delta
	Branch    int32  // Relative branch offset
	ArrayType uint8  // newarray element type
	Count     uint8  // invokeinterface argument count
	Dims      uint8  // multianewarray dimensions

	Switch *Switch // tableswitch/lookupswitch operands
}

// Switch holds the operands of tableswitch and lookupswitch. For a
// tableswitch, Keys is nil and Offsets[i] is the branch for Low+i.
type Switch struct {
	Default int32
	Low     int32
	High    int32
	Keys    []int32
	Offsets []int32
}

// Target returns the absolute byte position a branch instruction jumps to.
func (in Instruction) Target() int {
	return in.Offset + int(in.Branch)
}

// Lookup returns the relative branch offset a switch selects for key.
func (s *Switch) Lookup(key int32) int32 {
	if s.Keys == nil {
		if key < s.Low || key > s.High {
			return s.Default
		}
		return s.Offsets[key-s.Low]
	}
	for i, k := range s.Keys {
		if k == key {
			return s.Offsets[i]
		}
	}
	return s.Default
}

// String renders the instruction the way javap prints it, with branch
// targets as absolute offsets.
func (in Instruction) String() string {
	name := in.Op.String()
	switch GetOpcodeInfo(in.Op).Operand {
	case OperandLocal:
		if in.Wide {
			return fmt.Sprintf("wide %s %d", name, in.Index)
		}
		return fmt.Sprintf("%s %d", name, in.Index)
	case OperandByte, OperandShort:
		return fmt.Sprintf("%s %d", name, in.Const)
	case OperandConst1, OperandConst2, OperandDynamic:
		return fmt.Sprintf("%s #%d", name, in.Index)
	case OperandInterface:
		return fmt.Sprintf("%s #%d, %d", name, in.Index, in.Count)
	case OperandMultiArray:
		return fmt.Sprintf("%s #%d, %d", name, in.Index, in.Dims)
	case OperandBranch2, OperandBranch4:
		return fmt.Sprintf("%s %d", name, in.Target())
	case OperandIinc:
		if in.Wide {
			return fmt.Sprintf("wide iinc %d, %d", in.Index, in.Const)
		}
		return fmt.Sprintf("iinc %d, %d", in.Index, in.Const)
	case OperandArrayType:
		return fmt.Sprintf("%s %s", name, ArrayTypeName(in.ArrayType))
	case OperandTableSwitch, OperandLookupSwitch:
		return in.switchString(name)
	}
	return name
}

func (in Instruction) switchString(name string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(" {")
	for i, off := range in.Switch.Offsets {
		key := in.Switch.Low + int32(i)
		if in.Switch.Keys != nil {
			key = in.Switch.Keys[i]
		}
		fmt.Fprintf(&sb, " %d: %d;", key, in.Offset+int(off))
	}
	fmt.Fprintf(&sb, " default: %d }", in.Offset+int(in.Switch.Default))
	return sb.String()
}

var arrayTypeNames = map[uint8]string{
	ArrayBoolean: "boolean",
	ArrayChar:    "char",
	ArrayFloat:   "float",
	ArrayDouble:  "double",
	ArrayByte:    "byte",
	ArrayShort:   "short",
	ArrayInt:     "int",
	ArrayLong:    "long",
}

// ArrayTypeName returns the element type name for a newarray type code.
func ArrayTypeName(t uint8) string {
	if name, ok := arrayTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("atype(%d)", t)
}
