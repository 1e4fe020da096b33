package vm

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/chazu/javelin/pkg/bytecode"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javelin.vm")

// ---------------------------------------------------------------------------
// Interpreter
// ---------------------------------------------------------------------------

// Interpreter executes methods of the classes in its class table. All
// mutable runtime state (heap, static fields, class initialization, call
// depth) belongs to the interpreter, so independent interpreters share
// nothing.
//
// An Interpreter is single-threaded: methods run to completion on the
// calling goroutine and a call blocks its caller until it returns.
type Interpreter struct {
	Classes *ClassTable
	Heap    *Heap

	config      Config
	natives     *Natives
	statics     map[*RuntimeClass][]Value
	layouts     map[*RuntimeClass]*Layout
	initialized map[*RuntimeClass]bool
	depth       int
	steps       int64
}

// NewInterpreter creates an interpreter over classes with the built-in
// native methods installed.
func NewInterpreter(classes *ClassTable, config Config) *Interpreter {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	i := &Interpreter{
		Classes:     classes,
		Heap:        NewHeap(),
		config:      config,
		natives:     NewNatives(),
		statics:     make(map[*RuntimeClass][]Value),
		layouts:     make(map[*RuntimeClass]*Layout),
		initialized: make(map[*RuntimeClass]bool),
	}
	i.installBuiltins()
	return i
}

// Natives returns the native method registry, for registering additional
// Go implementations.
func (i *Interpreter) Natives() *Natives {
	return i.natives
}

// Config returns the interpreter's configuration.
func (i *Interpreter) Config() Config {
	return i.config
}

// Steps returns the number of instructions executed so far.
func (i *Interpreter) Steps() int64 {
	return i.steps
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// Run initializes the named class and invokes its static method with args.
// The method is found by name alone; the first declared wins.
func (i *Interpreter) Run(className, methodName string, args []Value) (Result, error) {
	class, err := i.Classes.Resolve(className)
	if err != nil {
		return Void, err
	}
	m := class.FindMethod(methodName)
	if m == nil {
		return Void, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, className, methodName)
	}
	if err := i.Initialize(class); err != nil {
		return Void, err
	}
	return i.InvokeStatic(m, args)
}

// InvokeStatic runs m with args bound to the leading local slots.
func (i *Interpreter) InvokeStatic(m *RuntimeMethod, args []Value) (Result, error) {
	if len(args) != len(m.Type.Params) {
		return Void, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, m, len(m.Type.Params), len(args))
	}
	return i.invokeWithSlots(m, argumentSlots(args))
}

// InvokeVirtual runs m with receiver in local slot 0 and args after it.
func (i *Interpreter) InvokeVirtual(m *RuntimeMethod, receiver Value, args []Value) (Result, error) {
	if len(args) != len(m.Type.Params) {
		return Void, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, m, len(m.Type.Params), len(args))
	}
	if receiver.IsNull() {
		return Void, fmt.Errorf("%w: receiver of %s", ErrNullReference, m)
	}
	if !receiver.IsReference() {
		return Void, unexpected("receiver reference", receiver)
	}
	return i.invokeWithSlots(m, append([]Value{receiver}, argumentSlots(args)...))
}

func (i *Interpreter) invokeWithSlots(m *RuntimeMethod, slots []Value) (Result, error) {
	if m.Code == nil {
		return Void, fmt.Errorf("%w: %s", ErrNoCode, m)
	}
	frame, err := NewFrameWithLocals(m.Code.MaxStack, m.Code.MaxLocals, slots)
	if err != nil {
		return Void, fmt.Errorf("%s: %w", m, err)
	}
	return i.Interpret(m, frame)
}

// Initialize prepares the static fields of class and runs its <clinit>
// method, once per interpreter. The class counts as initialized before
// <clinit> runs, so a recursive reference from inside the initializer sees
// the partially initialized statics.
func (i *Interpreter) Initialize(class *RuntimeClass) error {
	if i.initialized[class] {
		return nil
	}
	i.initialized[class] = true
	i.statics[class] = class.DefaultFields()

	if super := i.Classes.Lookup(class.Super); super != nil {
		if err := i.Initialize(super); err != nil {
			return err
		}
	}
	clinit := class.FindMethodWithDescriptor("<clinit>", "()V")
	if clinit == nil {
		return nil
	}
	log.Debugf("initializing %s", class.Name)
	res, err := i.InvokeStatic(clinit, nil)
	if err != nil {
		return err
	}
	if res.Type == ResultThrow {
		return fmt.Errorf("%s.<clinit> threw %s", class.Name, res.Value)
	}
	return nil
}

// GetStatic reads a static field declared by class, initializing the class
// first.
func (i *Interpreter) GetStatic(class *RuntimeClass, name string) (Value, error) {
	idx, err := i.staticIndex(class, name)
	if err != nil {
		return Null, err
	}
	return i.statics[class][idx], nil
}

// PutStatic writes a static field declared by class, narrowing v to the
// field type.
func (i *Interpreter) PutStatic(class *RuntimeClass, name string, v Value) error {
	idx, err := i.staticIndex(class, name)
	if err != nil {
		return err
	}
	cv, err := class.Fields[idx].Type.Coerce(v)
	if err != nil {
		return err
	}
	i.statics[class][idx] = cv
	return nil
}

func (i *Interpreter) staticIndex(class *RuntimeClass, name string) (int, error) {
	if err := i.Initialize(class); err != nil {
		return -1, err
	}
	idx := class.FieldIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, class.Name, name)
	}
	if !class.Fields[idx].IsStatic() {
		return -1, fmt.Errorf("%w: %s.%s is not static", ErrIncompatibleField, class.Name, name)
	}
	return idx, nil
}

// layout returns the instance layout of class, built once from the class
// and its loaded superclasses.
func (i *Interpreter) layout(class *RuntimeClass) *Layout {
	if l, ok := i.layouts[class]; ok {
		return l
	}
	chain := append([]*RuntimeClass{class}, i.ancestry(class.Super)...)
	slices.Reverse(chain)
	l := NewLayout(chain...)
	i.layouts[class] = l
	return l
}

// ---------------------------------------------------------------------------
// Dispatch loop
// ---------------------------------------------------------------------------

type actionKind uint8

const (
	actNext   actionKind = iota // continue with the following instruction
	actJump                     // continue at the instruction starting at target
	actReturn                   // leave the method with result
)

// action is what executing one instruction asks the loop to do next.
type action struct {
	kind   actionKind
	target int
	result Result
}

var next = action{}

func jumpTo(target int) action { return action{kind: actJump, target: target} }
func finish(r Result) action   { return action{kind: actReturn, result: r} }

// Interpret runs m on frame until it returns or throws. The frame must
// already hold the arguments in its locals.
//
// The program position is an index into the decoded instruction list.
// Branches compute an absolute byte position from the branching
// instruction's own offset, which is mapped back to an index; a target that
// is not the start of an instruction fails with ErrBadBranch.
//
// Failures are reported as *ExecError. When a nested invocation fails, its
// ExecError is returned with this method's invoking instruction appended to
// Callers.
func (i *Interpreter) Interpret(m *RuntimeMethod, frame *Frame) (Result, error) {
	if m.Code == nil {
		return Void, fmt.Errorf("%w: %s", ErrNoCode, m)
	}
	if i.config.MaxCallDepth > 0 && i.depth >= i.config.MaxCallDepth {
		return Void, fmt.Errorf("%w: %d frames entering %s", ErrStackOverflow, i.depth, m)
	}
	i.depth++
	defer func() { i.depth-- }()

	if !i.config.CheckMaxStack {
		frame.uncheckStack()
	}
	trace := i.config.Trace && log.AllowLevel(commonlog.Debug)

	code := m.Code.Instructions
	for pc := 0; pc < len(code); {
		in := &code[pc]
		if i.config.MaxSteps > 0 && i.steps >= i.config.MaxSteps {
			return Void, i.fail(m, in, fmt.Errorf("%w: %d", ErrStepLimit, i.config.MaxSteps))
		}
		i.steps++
		if trace {
			log.Debugf("%s %5d: %-24s stack=%v", m, in.Offset, in, frame.stack)
		}

		act, err := i.step(m, frame, in)
		if err != nil {
			return Void, i.fail(m, in, err)
		}
		switch act.kind {
		case actNext:
			pc++
		case actJump:
			target, ok := m.Code.IndexOf(act.target)
			if !ok {
				return Void, i.fail(m, in, fmt.Errorf("%w: %d", ErrBadBranch, act.target))
			}
			pc = target
		case actReturn:
			if trace {
				log.Debugf("%s returns %s", m, act.result)
			}
			return act.result, nil
		}
	}

	end := &bytecode.Instruction{}
	if n := len(code); n > 0 {
		end = &code[n-1]
	}
	return Void, i.fail(m, end, ErrNoReturn)
}

// fail attaches the failing instruction's position to err.
func (i *Interpreter) fail(m *RuntimeMethod, in *bytecode.Instruction, err error) error {
	pos := Position{Method: m.Name, Offset: in.Offset, Op: in.Op}
	if m.Class != nil {
		pos.Class = m.Class.Name
	}
	var nested *ExecError
	if errors.As(err, &nested) {
		nested.Callers = append(nested.Callers, pos)
		return nested
	}
	return &ExecError{Position: pos, Err: err}
}
