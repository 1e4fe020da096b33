package bytecode

import "fmt"

// Opcode is a single-byte instruction code of the class file instruction set.
type Opcode byte

const (
	// ========================================================================
	// Constants (0x00-0x14)
	// ========================================================================

	OpNop        Opcode = 0x00
	OpAconstNull Opcode = 0x01
	OpIconstM1   Opcode = 0x02
	OpIconst0    Opcode = 0x03
	OpIconst1    Opcode = 0x04
	OpIconst2    Opcode = 0x05
	OpIconst3    Opcode = 0x06
	OpIconst4    Opcode = 0x07
	OpIconst5    Opcode = 0x08
	OpLconst0    Opcode = 0x09
	OpLconst1    Opcode = 0x0A
	OpFconst0    Opcode = 0x0B
	OpFconst1    Opcode = 0x0C
	OpFconst2    Opcode = 0x0D
	OpDconst0    Opcode = 0x0E
	OpDconst1    Opcode = 0x0F
	OpBipush     Opcode = 0x10 // bipush <byte:s8>
	OpSipush     Opcode = 0x11 // sipush <value:s16>
	OpLdc        Opcode = 0x12 // ldc <index:u8>
	OpLdcW       Opcode = 0x13 // ldc_w <index:u16>
	OpLdc2W      Opcode = 0x14 // ldc2_w <index:u16>

	// ========================================================================
	// Loads (0x15-0x35)
	// ========================================================================

	OpIload   Opcode = 0x15 // iload <slot:u8>
	OpLload   Opcode = 0x16
	OpFload   Opcode = 0x17
	OpDload   Opcode = 0x18
	OpAload   Opcode = 0x19
	OpIload0  Opcode = 0x1A
	OpIload1  Opcode = 0x1B
	OpIload2  Opcode = 0x1C
	OpIload3  Opcode = 0x1D
	OpLload0  Opcode = 0x1E
	OpLload1  Opcode = 0x1F
	OpLload2  Opcode = 0x20
	OpLload3  Opcode = 0x21
	OpFload0  Opcode = 0x22
	OpFload1  Opcode = 0x23
	OpFload2  Opcode = 0x24
	OpFload3  Opcode = 0x25
	OpDload0  Opcode = 0x26
	OpDload1  Opcode = 0x27
	OpDload2  Opcode = 0x28
	OpDload3  Opcode = 0x29
	OpAload0  Opcode = 0x2A
	OpAload1  Opcode = 0x2B
	OpAload2  Opcode = 0x2C
	OpAload3  Opcode = 0x2D
	OpIaload  Opcode = 0x2E
	OpLaload  Opcode = 0x2F
	OpFaload  Opcode = 0x30
	OpDaload  Opcode = 0x31
	OpAaload  Opcode = 0x32
	OpBaload  Opcode = 0x33
	OpCaload  Opcode = 0x34
	OpSaload  Opcode = 0x35

	// ========================================================================
	// Stores (0x36-0x56)
	// ========================================================================

	OpIstore  Opcode = 0x36 // istore <slot:u8>
	OpLstore  Opcode = 0x37
	OpFstore  Opcode = 0x38
	OpDstore  Opcode = 0x39
	OpAstore  Opcode = 0x3A
	OpIstore0 Opcode = 0x3B
	OpIstore1 Opcode = 0x3C
	OpIstore2 Opcode = 0x3D
	OpIstore3 Opcode = 0x3E
	OpLstore0 Opcode = 0x3F
	OpLstore1 Opcode = 0x40
	OpLstore2 Opcode = 0x41
	OpLstore3 Opcode = 0x42
	OpFstore0 Opcode = 0x43
	OpFstore1 Opcode = 0x44
	OpFstore2 Opcode = 0x45
	OpFstore3 Opcode = 0x46
	OpDstore0 Opcode = 0x47
	OpDstore1 Opcode = 0x48
	OpDstore2 Opcode = 0x49
	OpDstore3 Opcode = 0x4A
	OpAstore0 Opcode = 0x4B
	OpAstore1 Opcode = 0x4C
	OpAstore2 Opcode = 0x4D
	OpAstore3 Opcode = 0x4E
	OpIastore Opcode = 0x4F
	OpLastore Opcode = 0x50
	OpFastore Opcode = 0x51
	OpDastore Opcode = 0x52
	OpAastore Opcode = 0x53
	OpBastore Opcode = 0x54
	OpCastore Opcode = 0x55
	OpSastore Opcode = 0x56

	// ========================================================================
	// Stack manipulation (0x57-0x5F)
	// ========================================================================

	OpPop    Opcode = 0x57
	OpPop2   Opcode = 0x58
	OpDup    Opcode = 0x59
	OpDupX1  Opcode = 0x5A
	OpDupX2  Opcode = 0x5B
	OpDup2   Opcode = 0x5C
	OpDup2X1 Opcode = 0x5D
	OpDup2X2 Opcode = 0x5E
	OpSwap   Opcode = 0x5F

	// ========================================================================
	// Arithmetic and bitwise (0x60-0x84)
	// ========================================================================

	OpIadd  Opcode = 0x60
	OpLadd  Opcode = 0x61
	OpFadd  Opcode = 0x62
	OpDadd  Opcode = 0x63
	OpIsub  Opcode = 0x64
	OpLsub  Opcode = 0x65
	OpFsub  Opcode = 0x66
	OpDsub  Opcode = 0x67
	OpImul  Opcode = 0x68
	OpLmul  Opcode = 0x69
	OpFmul  Opcode = 0x6A
	OpDmul  Opcode = 0x6B
	OpIdiv  Opcode = 0x6C
	OpLdiv  Opcode = 0x6D
	OpFdiv  Opcode = 0x6E
	OpDdiv  Opcode = 0x6F
	OpIrem  Opcode = 0x70
	OpLrem  Opcode = 0x71
	OpFrem  Opcode = 0x72
	OpDrem  Opcode = 0x73
	OpIneg  Opcode = 0x74
	OpLneg  Opcode = 0x75
	OpFneg  Opcode = 0x76
	OpDneg  Opcode = 0x77
	OpIshl  Opcode = 0x78
	OpLshl  Opcode = 0x79
	OpIshr  Opcode = 0x7A
	OpLshr  Opcode = 0x7B
	OpIushr Opcode = 0x7C
	OpLushr Opcode = 0x7D
	OpIand  Opcode = 0x7E
	OpLand  Opcode = 0x7F
	OpIor   Opcode = 0x80
	OpLor   Opcode = 0x81
	OpIxor  Opcode = 0x82
	OpLxor  Opcode = 0x83
	OpIinc  Opcode = 0x84 // iinc <slot:u8> <delta:s8>

	// ========================================================================
	// Conversions (0x85-0x93)
	// ========================================================================

	OpI2l Opcode = 0x85
	OpI2f Opcode = 0x86
	OpI2d Opcode = 0x87
	OpL2i Opcode = 0x88
	OpL2f Opcode = 0x89
	OpL2d Opcode = 0x8A
	OpF2i Opcode = 0x8B
	OpF2l Opcode = 0x8C
	OpF2d Opcode = 0x8D
	OpD2i Opcode = 0x8E
	OpD2l Opcode = 0x8F
	OpD2f Opcode = 0x90
	OpI2b Opcode = 0x91
	OpI2c Opcode = 0x92
	OpI2s Opcode = 0x93

	// ========================================================================
	// Comparisons and branches (0x94-0xAB)
	// ========================================================================

	OpLcmp         Opcode = 0x94
	OpFcmpl        Opcode = 0x95
	OpFcmpg        Opcode = 0x96
	OpDcmpl        Opcode = 0x97
	OpDcmpg        Opcode = 0x98
	OpIfeq         Opcode = 0x99 // ifeq <branch:s16>
	OpIfne         Opcode = 0x9A
	OpIflt         Opcode = 0x9B
	OpIfge         Opcode = 0x9C
	OpIfgt         Opcode = 0x9D
	OpIfle         Opcode = 0x9E
	OpIfIcmpeq     Opcode = 0x9F
	OpIfIcmpne     Opcode = 0xA0
	OpIfIcmplt     Opcode = 0xA1
	OpIfIcmpge     Opcode = 0xA2
	OpIfIcmpgt     Opcode = 0xA3
	OpIfIcmple     Opcode = 0xA4
	OpIfAcmpeq     Opcode = 0xA5
	OpIfAcmpne     Opcode = 0xA6
	OpGoto         Opcode = 0xA7
	OpJsr          Opcode = 0xA8
	OpRet          Opcode = 0xA9 // ret <slot:u8>
	OpTableswitch  Opcode = 0xAA // variable length, 4-byte aligned
	OpLookupswitch Opcode = 0xAB // variable length, 4-byte aligned

	// ========================================================================
	// Returns (0xAC-0xB1)
	// ========================================================================

	OpIreturn Opcode = 0xAC
	OpLreturn Opcode = 0xAD
	OpFreturn Opcode = 0xAE
	OpDreturn Opcode = 0xAF
	OpAreturn Opcode = 0xB0
	OpReturn  Opcode = 0xB1

	// ========================================================================
	// Fields, invocation and objects (0xB2-0xC3)
	// ========================================================================

	OpGetstatic       Opcode = 0xB2 // getstatic <fieldref:u16>
	OpPutstatic       Opcode = 0xB3
	OpGetfield        Opcode = 0xB4
	OpPutfield        Opcode = 0xB5
	OpInvokevirtual   Opcode = 0xB6 // invokevirtual <methodref:u16>
	OpInvokespecial   Opcode = 0xB7
	OpInvokestatic    Opcode = 0xB8
	OpInvokeinterface Opcode = 0xB9 // invokeinterface <ref:u16> <count:u8> 0
	OpInvokedynamic   Opcode = 0xBA // invokedynamic <ref:u16> 0 0
	OpNew             Opcode = 0xBB // new <class:u16>
	OpNewarray        Opcode = 0xBC // newarray <atype:u8>
	OpAnewarray       Opcode = 0xBD
	OpArraylength     Opcode = 0xBE
	OpAthrow          Opcode = 0xBF
	OpCheckcast       Opcode = 0xC0
	OpInstanceof      Opcode = 0xC1
	OpMonitorenter    Opcode = 0xC2
	OpMonitorexit     Opcode = 0xC3

	// ========================================================================
	// Extended (0xC4-0xC9)
	// ========================================================================

	OpWide           Opcode = 0xC4 // wide <op> <slot:u16> [<delta:s16>]
	OpMultianewarray Opcode = 0xC5 // multianewarray <class:u16> <dims:u8>
	OpIfnull         Opcode = 0xC6
	OpIfnonnull      Opcode = 0xC7
	OpGotoW          Opcode = 0xC8 // goto_w <branch:s32>
	OpJsrW           Opcode = 0xC9
)

// Array element type codes used by newarray.
const (
	ArrayBoolean uint8 = 4
	ArrayChar    uint8 = 5
	ArrayFloat   uint8 = 6
	ArrayDouble  uint8 = 7
	ArrayByte    uint8 = 8
	ArrayShort   uint8 = 9
	ArrayInt     uint8 = 10
	ArrayLong    uint8 = 11
)

// OperandKind says how the bytes following an opcode are decoded.
type OperandKind uint8

const (
	OperandNone         OperandKind = iota // no operands
	OperandLocal                           // u8 slot, u16 under wide
	OperandByte                            // s8 immediate
	OperandShort                           // s16 immediate
	OperandConst1                          // u8 constant pool index
	OperandConst2                          // u16 constant pool index
	OperandBranch2                         // s16 branch offset
	OperandBranch4                         // s32 branch offset
	OperandIinc                            // u8 slot, s8 delta
	OperandArrayType                       // u8 element type
	OperandInterface                       // u16 index, u8 count, u8 zero
	OperandDynamic                         // u16 index, two zero bytes
	OperandMultiArray                      // u16 index, u8 dimensions
	OperandTableSwitch                     // padded table
	OperandLookupSwitch                    // padded match/offset pairs
	OperandWide                            // modified instruction
)

// OpcodeInfo provides metadata about each opcode for decoding and listings.
type OpcodeInfo struct {
	Name       string      // Mnemonic as printed by javap
	Operand    OperandKind // How operands are decoded
	OperandLen int         // Fixed operand bytes, -1 for variable length
}

var operandLens = map[OperandKind]int{
	OperandNone:         0,
	OperandLocal:        1,
	OperandByte:         1,
	OperandShort:        2,
	OperandConst1:       1,
	OperandConst2:       2,
	OperandBranch2:      2,
	OperandBranch4:      4,
	OperandIinc:         2,
	OperandArrayType:    1,
	OperandInterface:    4,
	OperandDynamic:      4,
	OperandMultiArray:   3,
	OperandTableSwitch:  -1,
	OperandLookupSwitch: -1,
	OperandWide:         -1,
}

// opcodeDefs lists every defined opcode with its mnemonic and operand kind.
var opcodeDefs = []struct {
	op   Opcode
	name string
	kind OperandKind
}{
	{OpNop, "nop", OperandNone},
	{OpAconstNull, "aconst_null", OperandNone},
	{OpIconstM1, "iconst_m1", OperandNone},
	{OpIconst0, "iconst_0", OperandNone},
	{OpIconst1, "iconst_1", OperandNone},
	{OpIconst2, "iconst_2", OperandNone},
	{OpIconst3, "iconst_3", OperandNone},
	{OpIconst4, "iconst_4", OperandNone},
	{OpIconst5, "iconst_5", OperandNone},
	{OpLconst0, "lconst_0", OperandNone},
	{OpLconst1, "lconst_1", OperandNone},
	{OpFconst0, "fconst_0", OperandNone},
	{OpFconst1, "fconst_1", OperandNone},
	{OpFconst2, "fconst_2", OperandNone},
	{OpDconst0, "dconst_0", OperandNone},
	{OpDconst1, "dconst_1", OperandNone},
	{OpBipush, "bipush", OperandByte},
	{OpSipush, "sipush", OperandShort},
	{OpLdc, "ldc", OperandConst1},
	{OpLdcW, "ldc_w", OperandConst2},
	{OpLdc2W, "ldc2_w", OperandConst2},

	{OpIload, "iload", OperandLocal},
	{OpLload, "lload", OperandLocal},
	{OpFload, "fload", OperandLocal},
	{OpDload, "dload", OperandLocal},
	{OpAload, "aload", OperandLocal},
	{OpIload0, "iload_0", OperandNone},
	{OpIload1, "iload_1", OperandNone},
	{OpIload2, "iload_2", OperandNone},
	{OpIload3, "iload_3", OperandNone},
	{OpLload0, "lload_0", OperandNone},
	{OpLload1, "lload_1", OperandNone},
	{OpLload2, "lload_2", OperandNone},
	{OpLload3, "lload_3", OperandNone},
	{OpFload0, "fload_0", OperandNone},
	{OpFload1, "fload_1", OperandNone},
	{OpFload2, "fload_2", OperandNone},
	{OpFload3, "fload_3", OperandNone},
	{OpDload0, "dload_0", OperandNone},
	{OpDload1, "dload_1", OperandNone},
	{OpDload2, "dload_2", OperandNone},
	{OpDload3, "dload_3", OperandNone},
	{OpAload0, "aload_0", OperandNone},
	{OpAload1, "aload_1", OperandNone},
	{OpAload2, "aload_2", OperandNone},
	{OpAload3, "aload_3", OperandNone},
	{OpIaload, "iaload", OperandNone},
	{OpLaload, "laload", OperandNone},
	{OpFaload, "faload", OperandNone},
	{OpDaload, "daload", OperandNone},
	{OpAaload, "aaload", OperandNone},
	{OpBaload, "baload", OperandNone},
	{OpCaload, "caload", OperandNone},
	{OpSaload, "saload", OperandNone},

	{OpIstore, "istore", OperandLocal},
	{OpLstore, "lstore", OperandLocal},
	{OpFstore, "fstore", OperandLocal},
	{OpDstore, "dstore", OperandLocal},
	{OpAstore, "astore", OperandLocal},
	{OpIstore0, "istore_0", OperandNone},
	{OpIstore1, "istore_1", OperandNone},
	{OpIstore2, "istore_2", OperandNone},
	{OpIstore3, "istore_3", OperandNone},
	{OpLstore0, "lstore_0", OperandNone},
	{OpLstore1, "lstore_1", OperandNone},
	{OpLstore2, "lstore_2", OperandNone},
	{OpLstore3, "lstore_3", OperandNone},
	{OpFstore0, "fstore_0", OperandNone},
	{OpFstore1, "fstore_1", OperandNone},
	{OpFstore2, "fstore_2", OperandNone},
	{OpFstore3, "fstore_3", OperandNone},
	{OpDstore0, "dstore_0", OperandNone},
	{OpDstore1, "dstore_1", OperandNone},
	{OpDstore2, "dstore_2", OperandNone},
	{OpDstore3, "dstore_3", OperandNone},
	{OpAstore0, "astore_0", OperandNone},
	{OpAstore1, "astore_1", OperandNone},
	{OpAstore2, "astore_2", OperandNone},
	{OpAstore3, "astore_3", OperandNone},
	{OpIastore, "iastore", OperandNone},
	{OpLastore, "lastore", OperandNone},
	{OpFastore, "fastore", OperandNone},
	{OpDastore, "dastore", OperandNone},
	{OpAastore, "aastore", OperandNone},
	{OpBastore, "bastore", OperandNone},
	{OpCastore, "castore", OperandNone},
	{OpSastore, "sastore", OperandNone},

	{OpPop, "pop", OperandNone},
	{OpPop2, "pop2", OperandNone},
	{OpDup, "dup", OperandNone},
	{OpDupX1, "dup_x1", OperandNone},
	{OpDupX2, "dup_x2", OperandNone},
	{OpDup2, "dup2", OperandNone},
	{OpDup2X1, "dup2_x1", OperandNone},
	{OpDup2X2, "dup2_x2", OperandNone},
	{OpSwap, "swap", OperandNone},

	{OpIadd, "iadd", OperandNone},
	{OpLadd, "ladd", OperandNone},
	{OpFadd, "fadd", OperandNone},
	{OpDadd, "dadd", OperandNone},
	{OpIsub, "isub", OperandNone},
	{OpLsub, "lsub", OperandNone},
	{OpFsub, "fsub", OperandNone},
	{OpDsub, "dsub", OperandNone},
	{OpImul, "imul", OperandNone},
	{OpLmul, "lmul", OperandNone},
	{OpFmul, "fmul", OperandNone},
	{OpDmul, "dmul", OperandNone},
	{OpIdiv, "idiv", OperandNone},
	{OpLdiv, "ldiv", OperandNone},
	{OpFdiv, "fdiv", OperandNone},
	{OpDdiv, "ddiv", OperandNone},
	{OpIrem, "irem", OperandNone},
	{OpLrem, "lrem", OperandNone},
	{OpFrem, "frem", OperandNone},
	{OpDrem, "drem", OperandNone},
	{OpIneg, "ineg", OperandNone},
	{OpLneg, "lneg", OperandNone},
	{OpFneg, "fneg", OperandNone},
	{OpDneg, "dneg", OperandNone},
	{OpIshl, "ishl", OperandNone},
	{OpLshl, "lshl", OperandNone},
	{OpIshr, "ishr", OperandNone},
	{OpLshr, "lshr", OperandNone},
	{OpIushr, "iushr", OperandNone},
	{OpLushr, "lushr", OperandNone},
	{OpIand, "iand", OperandNone},
	{OpLand, "land", OperandNone},
	{OpIor, "ior", OperandNone},
	{OpLor, "lor", OperandNone},
	{OpIxor, "ixor", OperandNone},
	{OpLxor, "lxor", OperandNone},
	{OpIinc, "iinc", OperandIinc},

	{OpI2l, "i2l", OperandNone},
	{OpI2f, "i2f", OperandNone},
	{OpI2d, "i2d", OperandNone},
	{OpL2i, "l2i", OperandNone},
	{OpL2f, "l2f", OperandNone},
	{OpL2d, "l2d", OperandNone},
	{OpF2i, "f2i", OperandNone},
	{OpF2l, "f2l", OperandNone},
	{OpF2d, "f2d", OperandNone},
	{OpD2i, "d2i", OperandNone},
	{OpD2l, "d2l", OperandNone},
	{OpD2f, "d2f", OperandNone},
	{OpI2b, "i2b", OperandNone},
	{OpI2c, "i2c", OperandNone},
	{OpI2s, "i2s", OperandNone},

	{OpLcmp, "lcmp", OperandNone},
	{OpFcmpl, "fcmpl", OperandNone},
	{OpFcmpg, "fcmpg", OperandNone},
	{OpDcmpl, "dcmpl", OperandNone},
	{OpDcmpg, "dcmpg", OperandNone},
	{OpIfeq, "ifeq", OperandBranch2},
	{OpIfne, "ifne", OperandBranch2},
	{OpIflt, "iflt", OperandBranch2},
	{OpIfge, "ifge", OperandBranch2},
	{OpIfgt, "ifgt", OperandBranch2},
	{OpIfle, "ifle", OperandBranch2},
	{OpIfIcmpeq, "if_icmpeq", OperandBranch2},
	{OpIfIcmpne, "if_icmpne", OperandBranch2},
	{OpIfIcmplt, "if_icmplt", OperandBranch2},
	{OpIfIcmpge, "if_icmpge", OperandBranch2},
	{OpIfIcmpgt, "if_icmpgt", OperandBranch2},
	{OpIfIcmple, "if_icmple", OperandBranch2},
	{OpIfAcmpeq, "if_acmpeq", OperandBranch2},
	{OpIfAcmpne, "if_acmpne", OperandBranch2},
	{OpGoto, "goto", OperandBranch2},
	{OpJsr, "jsr", OperandBranch2},
	{OpRet, "ret", OperandLocal},
	{OpTableswitch, "tableswitch", OperandTableSwitch},
	{OpLookupswitch, "lookupswitch", OperandLookupSwitch},

	{OpIreturn, "ireturn", OperandNone},
	{OpLreturn, "lreturn", OperandNone},
	{OpFreturn, "freturn", OperandNone},
	{OpDreturn, "dreturn", OperandNone},
	{OpAreturn, "areturn", OperandNone},
	{OpReturn, "return", OperandNone},

	{OpGetstatic, "getstatic", OperandConst2},
	{OpPutstatic, "putstatic", OperandConst2},
	{OpGetfield, "getfield", OperandConst2},
	{OpPutfield, "putfield", OperandConst2},
	{OpInvokevirtual, "invokevirtual", OperandConst2},
	{OpInvokespecial, "invokespecial", OperandConst2},
	{OpInvokestatic, "invokestatic", OperandConst2},
	{OpInvokeinterface, "invokeinterface", OperandInterface},
	{OpInvokedynamic, "invokedynamic", OperandDynamic},
	{OpNew, "new", OperandConst2},
	{OpNewarray, "newarray", OperandArrayType},
	{OpAnewarray, "anewarray", OperandConst2},
	{OpArraylength, "arraylength", OperandNone},
	{OpAthrow, "athrow", OperandNone},
	{OpCheckcast, "checkcast", OperandConst2},
	{OpInstanceof, "instanceof", OperandConst2},
	{OpMonitorenter, "monitorenter", OperandNone},
	{OpMonitorexit, "monitorexit", OperandNone},

	{OpWide, "wide", OperandWide},
	{OpMultianewarray, "multianewarray", OperandMultiArray},
	{OpIfnull, "ifnull", OperandBranch2},
	{OpIfnonnull, "ifnonnull", OperandBranch2},
	{OpGotoW, "goto_w", OperandBranch4},
	{OpJsrW, "jsr_w", OperandBranch4},
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = func() map[Opcode]OpcodeInfo {
	table := make(map[Opcode]OpcodeInfo, len(opcodeDefs))
	for _, d := range opcodeDefs {
		table[d.op] = OpcodeInfo{Name: d.name, Operand: d.kind, OperandLen: operandLens[d.kind]}
	}
	return table
}()

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// OperandLen returns the number of operand bytes for this opcode, or -1
// when the length depends on the instruction's position or contents.
func (op Opcode) OperandLen() int {
	return GetOpcodeInfo(op).OperandLen
}

// IsBranch reports whether op carries a relative branch offset.
func (op Opcode) IsBranch() bool {
	k := GetOpcodeInfo(op).Operand
	return k == OperandBranch2 || k == OperandBranch4
}

// IsReturn reports whether op terminates the current method.
func (op Opcode) IsReturn() bool {
	return op >= OpIreturn && op <= OpReturn
}

// IsInvoke reports whether op is a method invocation.
func (op Opcode) IsInvoke() bool {
	return op >= OpInvokevirtual && op <= OpInvokedynamic
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
