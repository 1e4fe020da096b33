package vm

import (
	"fmt"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Method resolution and invocation
// ---------------------------------------------------------------------------

// ancestry returns the named class followed by its loaded superclasses,
// nearest first. The walk stops at the first superclass that is not in the
// class table.
func (i *Interpreter) ancestry(className string) []*RuntimeClass {
	var chain []*RuntimeClass
	for c := i.Classes.Lookup(className); c != nil && len(chain) <= i.Classes.Len(); c = i.Classes.Lookup(c.Super) {
		chain = append(chain, c)
	}
	return chain
}

// lookupMethod finds name:descriptor in the named class or the nearest
// loaded superclass declaring it.
func (i *Interpreter) lookupMethod(className, name, descriptor string) *RuntimeMethod {
	for _, c := range i.ancestry(className) {
		if m := c.FindMethodWithDescriptor(name, descriptor); m != nil {
			return m
		}
	}
	return nil
}

// resolveField finds the class declaring the field className.name, starting
// at className and moving to its loaded superclasses. It returns nil when no
// loaded class declares it.
func (i *Interpreter) resolveField(className, name string) (*RuntimeClass, *RuntimeField) {
	for _, c := range i.ancestry(className) {
		if f := c.Field(name); f != nil {
			return c, f
		}
	}
	return nil, nil
}

// staticOwner resolves a getstatic or putstatic reference to the class
// holding the static storage.
func (i *Interpreter) staticOwner(ref classfile.MemberRef) (*RuntimeClass, error) {
	if owner, _ := i.resolveField(ref.Class, ref.Name); owner != nil {
		return owner, nil
	}
	return i.Classes.Resolve(ref.Class)
}

// instanceField rejects getfield and putfield references to a static field.
func (i *Interpreter) instanceField(ref classfile.MemberRef) error {
	if owner, field := i.resolveField(ref.Class, ref.Name); field != nil && field.IsStatic() {
		return fmt.Errorf("%w: %s.%s is static", ErrIncompatibleField, owner.Name, ref.Name)
	}
	return nil
}

// invoke executes the four invoke instructions. Arguments are popped in
// reverse and restored to declaration order; for everything but
// invokestatic the receiver is popped after them. invokevirtual and
// invokeinterface select the method starting from the receiver's class,
// invokespecial and invokestatic from the class named by the reference.
// Loaded classes take precedence over native methods.
func (i *Interpreter) invoke(m *RuntimeMethod, f *Frame, in *bytecode.Instruction) (action, error) {
	pool, err := constantPool(m)
	if err != nil {
		return next, err
	}
	ref, err := pool.MethodRef(in.Index)
	if err != nil {
		return next, err
	}
	desc, err := ParseMethodDescriptor(ref.Descriptor)
	if err != nil {
		return next, err
	}
	args, err := f.popArgs(len(desc.Params))
	if err != nil {
		return next, err
	}

	static := in.Op == bytecode.OpInvokestatic
	receiver := Null
	start := ref.Class
	if !static {
		if receiver, err = f.PopReference(); err != nil {
			return next, err
		}
		if receiver.IsNull() {
			return next, fmt.Errorf("%w: receiver of %s", ErrNullReference, ref)
		}
		if in.Op == bytecode.OpInvokevirtual || in.Op == bytecode.OpInvokeinterface {
			if obj, err := i.Heap.Object(receiver); err == nil && obj.Class != nil {
				start = obj.Class.Name
			}
		}
	}

	var res Result
	if target := i.lookupMethod(start, ref.Name, ref.Descriptor); target != nil {
		if static {
			if err := i.Initialize(target.Class); err != nil {
				return next, err
			}
			res, err = i.InvokeStatic(target, args)
		} else {
			res, err = i.InvokeVirtual(target, receiver, args)
		}
	} else if native, ok := i.natives.Lookup(ref.Class, ref.Name, ref.Descriptor); ok {
		res, err = native(i, receiver, args)
	} else if !i.Classes.Has(ref.Class) {
		return next, fmt.Errorf("%w: %s", ErrClassNotFound, ref.Class)
	} else {
		return next, fmt.Errorf("%w: %s", ErrMethodNotFound, ref)
	}
	if err != nil {
		return next, err
	}

	switch res.Type {
	case ResultThrow:
		return finish(res), nil
	case ResultValue:
		return next, f.Push(res.Value)
	}
	return next, nil
}

// ---------------------------------------------------------------------------
// Fields
// ---------------------------------------------------------------------------

func (i *Interpreter) getStatic(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	ref, err := pool.FieldRef(index)
	if err != nil {
		return err
	}
	if v, ok := i.natives.Static(ref.Class, ref.Name); ok {
		return f.Push(v)
	}
	class, err := i.staticOwner(ref)
	if err != nil {
		return err
	}
	v, err := i.GetStatic(class, ref.Name)
	if err != nil {
		return err
	}
	return f.Push(v)
}

func (i *Interpreter) putStatic(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	ref, err := pool.FieldRef(index)
	if err != nil {
		return err
	}
	v, err := f.Pop()
	if err != nil {
		return err
	}
	class, err := i.staticOwner(ref)
	if err != nil {
		return err
	}
	return i.PutStatic(class, ref.Name, v)
}

func (i *Interpreter) getField(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	ref, err := pool.FieldRef(index)
	if err != nil {
		return err
	}
	objRef, err := f.PopObjectRef()
	if err != nil {
		return err
	}
	obj, err := i.Heap.Object(objRef)
	if err != nil {
		return err
	}
	if err := i.instanceField(ref); err != nil {
		return err
	}
	v, err := obj.Get(ref.Class, ref.Name)
	if err != nil {
		return err
	}
	return f.Push(v)
}

// putField pops the value, then the object, and stores the value narrowed
// to the field's declared type.
func (i *Interpreter) putField(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	ref, err := pool.FieldRef(index)
	if err != nil {
		return err
	}
	v, err := f.Pop()
	if err != nil {
		return err
	}
	objRef, err := f.PopObjectRef()
	if err != nil {
		return err
	}
	obj, err := i.Heap.Object(objRef)
	if err != nil {
		return err
	}
	if err := i.instanceField(ref); err != nil {
		return err
	}
	return obj.Put(ref.Class, ref.Name, v)
}

// ---------------------------------------------------------------------------
// Objects and type tests
// ---------------------------------------------------------------------------

// newObject allocates an instance of a class from the class table. Classes
// are never loaded on demand.
func (i *Interpreter) newObject(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	name, err := pool.ClassName(index)
	if err != nil {
		return err
	}
	class, err := i.Classes.Resolve(name)
	if err != nil {
		return err
	}
	if err := i.Initialize(class); err != nil {
		return err
	}
	return f.Push(i.Heap.NewInstance(i.layout(class)))
}

// isInstance reports whether a non-null reference is assignable to the
// named class: the class itself, a loaded superclass, or java/lang/Object.
// Int arrays are instances of "[I" only.
func (i *Interpreter) isInstance(v Value, className string) (bool, error) {
	if className == classObject {
		return true, nil
	}
	if v.kind == KindIntArray {
		return className == "[I", nil
	}
	obj, err := i.Heap.Object(v)
	if err != nil {
		return false, err
	}
	if obj.Class.Name == className {
		return true, nil
	}
	for _, c := range i.ancestry(obj.Class.Super) {
		if c.Name == className {
			return true, nil
		}
	}
	return false, nil
}

func (i *Interpreter) checkcast(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	name, err := pool.ClassName(index)
	if err != nil {
		return err
	}
	v, err := f.Peek()
	if err != nil {
		return err
	}
	if !v.IsReference() {
		return unexpected("reference", v)
	}
	if v.IsNull() {
		return nil
	}
	ok, err := i.isInstance(v, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not %s", ErrClassCast, v, name)
	}
	return nil
}

func (i *Interpreter) instanceOf(m *RuntimeMethod, f *Frame, index uint16) error {
	pool, err := constantPool(m)
	if err != nil {
		return err
	}
	name, err := pool.ClassName(index)
	if err != nil {
		return err
	}
	v, err := f.PopReference()
	if err != nil {
		return err
	}
	if v.IsNull() {
		return f.PushInt(0)
	}
	ok, err := i.isInstance(v, name)
	if err != nil {
		return err
	}
	return f.Push(FromBool(ok))
}
