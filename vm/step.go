package vm

import (
	"fmt"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/pkg/bytecode"
)

// localKinds orders the typed load and store families as the opcode table
// does: i, l, f, d, a.
var localKinds = [5]Kind{KindInt, KindLong, KindFloat, KindDouble, KindObject}

// step executes one instruction. Anything not handled here fails with
// ErrUnhandledInstruction rather than being skipped.
func (i *Interpreter) step(m *RuntimeMethod, f *Frame, in *bytecode.Instruction) (action, error) {
	op := in.Op
	switch op {
	case bytecode.OpNop:
		return next, nil

	// ---------------------------------------------------------------------------
	// Constants
	// ---------------------------------------------------------------------------

	case bytecode.OpAconstNull:
		return next, f.Push(Null)
	case bytecode.OpIconstM1, bytecode.OpIconst0, bytecode.OpIconst1, bytecode.OpIconst2,
		bytecode.OpIconst3, bytecode.OpIconst4, bytecode.OpIconst5:
		return next, f.PushInt(int32(op) - int32(bytecode.OpIconst0))
	case bytecode.OpLconst0, bytecode.OpLconst1:
		return next, f.Push(FromLong(int64(op - bytecode.OpLconst0)))
	case bytecode.OpFconst0, bytecode.OpFconst1, bytecode.OpFconst2:
		return next, f.Push(FromFloat(float32(op - bytecode.OpFconst0)))
	case bytecode.OpDconst0, bytecode.OpDconst1:
		return next, f.Push(FromDouble(float64(op - bytecode.OpDconst0)))
	case bytecode.OpBipush, bytecode.OpSipush:
		return next, f.PushInt(in.Const)
	case bytecode.OpLdc, bytecode.OpLdcW, bytecode.OpLdc2W:
		return next, ldc(m, f, in.Index)

	// ---------------------------------------------------------------------------
	// Locals
	// ---------------------------------------------------------------------------

	case bytecode.OpIload, bytecode.OpLload, bytecode.OpFload, bytecode.OpDload, bytecode.OpAload:
		return next, load(f, int(in.Index), localKinds[op-bytecode.OpIload])
	case bytecode.OpIstore, bytecode.OpLstore, bytecode.OpFstore, bytecode.OpDstore, bytecode.OpAstore:
		return next, store(f, int(in.Index), localKinds[op-bytecode.OpIstore])
	case bytecode.OpIinc:
		n, err := f.IntLocal(int(in.Index))
		if err != nil {
			return next, err
		}
		return next, f.SetIntLocal(int(in.Index), n+in.Const)

	// ---------------------------------------------------------------------------
	// Arrays
	// ---------------------------------------------------------------------------

	case bytecode.OpIaload:
		index, err := f.PopInt()
		if err != nil {
			return next, err
		}
		arr, err := i.popIntArray(f)
		if err != nil {
			return next, err
		}
		n, err := arr.Get(index)
		if err != nil {
			return next, err
		}
		return next, f.PushInt(n)
	case bytecode.OpIastore:
		v, err := f.PopInt()
		if err != nil {
			return next, err
		}
		index, err := f.PopInt()
		if err != nil {
			return next, err
		}
		arr, err := i.popIntArray(f)
		if err != nil {
			return next, err
		}
		return next, arr.Set(index, v)
	case bytecode.OpNewarray:
		if in.ArrayType != bytecode.ArrayInt {
			return next, fmt.Errorf("%w: %s", ErrInvalidArrayType, bytecode.ArrayTypeName(in.ArrayType))
		}
		count, err := f.PopInt()
		if err != nil {
			return next, err
		}
		arr, err := i.Heap.NewIntArray(count)
		if err != nil {
			return next, err
		}
		return next, f.Push(arr)
	case bytecode.OpArraylength:
		arr, err := i.popIntArray(f)
		if err != nil {
			return next, err
		}
		return next, f.PushInt(int32(arr.Len()))

	// ---------------------------------------------------------------------------
	// Stack manipulation
	// ---------------------------------------------------------------------------

	case bytecode.OpPop:
		_, err := f.popWords(1)
		return next, err
	case bytecode.OpPop2:
		_, err := f.popWords(2)
		return next, err
	case bytecode.OpDup:
		return next, dupX(f, 1, 0)
	case bytecode.OpDupX1:
		return next, dupX(f, 1, 1)
	case bytecode.OpDupX2:
		return next, dupX(f, 1, 2)
	case bytecode.OpDup2:
		return next, dupX(f, 2, 0)
	case bytecode.OpDup2X1:
		return next, dupX(f, 2, 1)
	case bytecode.OpDup2X2:
		return next, dupX(f, 2, 2)
	case bytecode.OpSwap:
		top, err := f.popWords(1)
		if err != nil {
			return next, err
		}
		below, err := f.popWords(1)
		if err != nil {
			return next, err
		}
		return next, f.pushAll(top[0], below[0])

	// ---------------------------------------------------------------------------
	// Arithmetic
	// ---------------------------------------------------------------------------

	case bytecode.OpIadd, bytecode.OpIsub, bytecode.OpImul, bytecode.OpIdiv, bytecode.OpIrem,
		bytecode.OpIshl, bytecode.OpIshr, bytecode.OpIushr, bytecode.OpIand, bytecode.OpIor, bytecode.OpIxor:
		return next, intBinary(f, op)
	case bytecode.OpLadd, bytecode.OpLsub, bytecode.OpLmul, bytecode.OpLdiv, bytecode.OpLrem,
		bytecode.OpLand, bytecode.OpLor, bytecode.OpLxor:
		return next, longBinary(f, op)
	case bytecode.OpLshl, bytecode.OpLshr, bytecode.OpLushr:
		return next, longShift(f, op)
	case bytecode.OpFadd, bytecode.OpFsub, bytecode.OpFmul, bytecode.OpFdiv, bytecode.OpFrem:
		return next, floatBinary(f, op)
	case bytecode.OpDadd, bytecode.OpDsub, bytecode.OpDmul, bytecode.OpDdiv, bytecode.OpDrem:
		return next, doubleBinary(f, op)
	case bytecode.OpIneg, bytecode.OpLneg, bytecode.OpFneg, bytecode.OpDneg:
		return next, negate(f, op)

	// ---------------------------------------------------------------------------
	// Conversions and comparisons
	// ---------------------------------------------------------------------------

	case bytecode.OpI2l, bytecode.OpI2f, bytecode.OpI2d, bytecode.OpL2i, bytecode.OpL2f, bytecode.OpL2d,
		bytecode.OpF2i, bytecode.OpF2l, bytecode.OpF2d, bytecode.OpD2i, bytecode.OpD2l, bytecode.OpD2f,
		bytecode.OpI2b, bytecode.OpI2c, bytecode.OpI2s:
		return next, convert(f, op)
	case bytecode.OpLcmp, bytecode.OpFcmpl, bytecode.OpFcmpg, bytecode.OpDcmpl, bytecode.OpDcmpg:
		return next, compare(f, op)

	// ---------------------------------------------------------------------------
	// Control flow
	// ---------------------------------------------------------------------------

	case bytecode.OpIfeq, bytecode.OpIfne, bytecode.OpIflt, bytecode.OpIfge, bytecode.OpIfgt, bytecode.OpIfle:
		n, err := f.PopInt()
		if err != nil {
			return next, err
		}
		return branchIf(in, intCondition(op-bytecode.OpIfeq, n, 0)), nil
	case bytecode.OpIfIcmpeq, bytecode.OpIfIcmpne, bytecode.OpIfIcmplt,
		bytecode.OpIfIcmpge, bytecode.OpIfIcmpgt, bytecode.OpIfIcmple:
		b, err := f.PopInt()
		if err != nil {
			return next, err
		}
		a, err := f.PopInt()
		if err != nil {
			return next, err
		}
		return branchIf(in, intCondition(op-bytecode.OpIfIcmpeq, a, b)), nil
	case bytecode.OpIfAcmpeq, bytecode.OpIfAcmpne:
		b, err := f.PopReference()
		if err != nil {
			return next, err
		}
		a, err := f.PopReference()
		if err != nil {
			return next, err
		}
		return branchIf(in, a.SameRef(b) == (op == bytecode.OpIfAcmpeq)), nil
	case bytecode.OpIfnull, bytecode.OpIfnonnull:
		v, err := f.Pop()
		if err != nil {
			return next, err
		}
		return branchIf(in, v.IsNull() == (op == bytecode.OpIfnull)), nil
	case bytecode.OpGoto, bytecode.OpGotoW:
		return jumpTo(in.Target()), nil
	case bytecode.OpTableswitch, bytecode.OpLookupswitch:
		key, err := f.PopInt()
		if err != nil {
			return next, err
		}
		return jumpTo(in.Offset + int(in.Switch.Lookup(key))), nil

	// ---------------------------------------------------------------------------
	// Returns
	// ---------------------------------------------------------------------------

	case bytecode.OpIreturn, bytecode.OpLreturn, bytecode.OpFreturn, bytecode.OpDreturn, bytecode.OpAreturn:
		v, err := f.Pop()
		if err != nil {
			return next, err
		}
		if err := checkKind(v, localKinds[op-bytecode.OpIreturn]); err != nil {
			return next, err
		}
		if ret := m.Type.Return; ret != nil {
			if v, err = ret.Coerce(v); err != nil {
				return next, err
			}
		}
		return finish(Returned(v)), nil
	case bytecode.OpReturn:
		return finish(Void), nil
	case bytecode.OpAthrow:
		v, err := f.PopReference()
		if err != nil {
			return next, err
		}
		if v.IsNull() {
			return next, fmt.Errorf("%w: athrow", ErrNullReference)
		}
		return finish(Thrown(v)), nil

	// ---------------------------------------------------------------------------
	// Fields, objects and invocation
	// ---------------------------------------------------------------------------

	case bytecode.OpGetstatic:
		return next, i.getStatic(m, f, in.Index)
	case bytecode.OpPutstatic:
		return next, i.putStatic(m, f, in.Index)
	case bytecode.OpGetfield:
		return next, i.getField(m, f, in.Index)
	case bytecode.OpPutfield:
		return next, i.putField(m, f, in.Index)
	case bytecode.OpInvokevirtual, bytecode.OpInvokespecial, bytecode.OpInvokestatic, bytecode.OpInvokeinterface:
		return i.invoke(m, f, in)
	case bytecode.OpNew:
		return next, i.newObject(m, f, in.Index)
	case bytecode.OpCheckcast:
		return next, i.checkcast(m, f, in.Index)
	case bytecode.OpInstanceof:
		return next, i.instanceOf(m, f, in.Index)
	case bytecode.OpMonitorenter, bytecode.OpMonitorexit:
		v, err := f.PopReference()
		if err != nil {
			return next, err
		}
		if v.IsNull() {
			return next, fmt.Errorf("%w: %s", ErrNullReference, op)
		}
		return next, nil
	}

	switch {
	case op >= bytecode.OpIload0 && op <= bytecode.OpAload3:
		n := op - bytecode.OpIload0
		return next, load(f, int(n%4), localKinds[n/4])
	case op >= bytecode.OpIstore0 && op <= bytecode.OpAstore3:
		n := op - bytecode.OpIstore0
		return next, store(f, int(n%4), localKinds[n/4])
	}
	return next, fmt.Errorf("%w: %s", ErrUnhandledInstruction, in)
}

func branchIf(in *bytecode.Instruction, taken bool) action {
	if taken {
		return jumpTo(in.Target())
	}
	return next
}

// intCondition evaluates the n-th condition of the eq, ne, lt, ge, gt, le
// family.
func intCondition(n bytecode.Opcode, a, b int32) bool {
	switch n {
	case 0:
		return a == b
	case 1:
		return a != b
	case 2:
		return a < b
	case 3:
		return a >= b
	case 4:
		return a > b
	}
	return a <= b
}

// ---------------------------------------------------------------------------
// Locals and constants
// ---------------------------------------------------------------------------

// checkKind verifies v against a local or return kind. KindInt accepts every
// int-like kind and KindObject every reference, null included.
func checkKind(v Value, want Kind) error {
	ok := v.kind == want
	switch want {
	case KindInt:
		ok = v.IsIntLike()
	case KindObject:
		ok = v.IsReference()
	}
	if !ok {
		return unexpected(want.String(), v)
	}
	return nil
}

func load(f *Frame, slot int, want Kind) error {
	v, err := f.Local(slot)
	if err != nil {
		return err
	}
	if err := checkKind(v, want); err != nil {
		return err
	}
	return f.Push(v)
}

func store(f *Frame, slot int, want Kind) error {
	v, err := f.Pop()
	if err != nil {
		return err
	}
	if err := checkKind(v, want); err != nil {
		return err
	}
	return f.SetLocal(slot, v)
}

func constantPool(m *RuntimeMethod) (*classfile.ConstantPool, error) {
	if m.Class == nil || m.Class.Pool == nil {
		return nil, fmt.Errorf("%w: %s has no constant pool", ErrUnsupportedConstant, m)
	}
	return m.Class.Pool, nil
}

// ldc pushes a numeric constant. String and class constants have no
// runtime representation and fail with ErrUnsupportedConstant.
func ldc(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	c, err := pool.Get(index)
	if err != nil {
		return err
	}
	switch c.Tag {
	case classfile.TagInteger:
		n, err := pool.Integer(index)
		if err != nil {
			return err
		}
		return f.PushInt(n)
	case classfile.TagFloat:
		x, err := pool.Float(index)
		if err != nil {
			return err
		}
		return f.Push(FromFloat(x))
	case classfile.TagLong:
		n, err := pool.Long(index)
		if err != nil {
			return err
		}
		return f.Push(FromLong(n))
	case classfile.TagDouble:
		x, err := pool.Double(index)
		if err != nil {
			return err
		}
		return f.Push(FromDouble(x))
	}
	return fmt.Errorf("%w: %s #%d", ErrUnsupportedConstant, c.Tag, index)
}

// ---------------------------------------------------------------------------
// Stack manipulation
// ---------------------------------------------------------------------------

// dupX duplicates the top words words and inserts the copy beneath the next
// depth words: dup is (1, 0), dup_x1 (1, 1), dup2_x2 (2, 2).
func dupX(f *Frame, words, depth int) error {
	top, err := f.popWords(words)
	if err != nil {
		return err
	}
	var below []Value
	if depth > 0 {
		if below, err = f.popWords(depth); err != nil {
			return err
		}
	}
	if err := f.pushAll(top...); err != nil {
		return err
	}
	if err := f.pushAll(below...); err != nil {
		return err
	}
	return f.pushAll(top...)
}

func (i *Interpreter) popIntArray(f *Frame) (*IntArray, error) {
	v, err := f.PopIntArray()
	if err != nil {
		return nil, err
	}
	return i.Heap.IntArray(v)
}
