package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/javelin/pkg/bytecode"
)

// Execution errors. Every failure raised while a method runs is reported as
// an *ExecError wrapping one of these.
var (
	ErrStackUnderflow       = errors.New("operand stack underflow")
	ErrOperandOverflow      = errors.New("operand stack exceeds max stack")
	ErrLocalOutOfRange      = errors.New("local variable index out of range")
	ErrUnexpectedOperand    = errors.New("unexpected operand")
	ErrUnhandledInstruction = errors.New("unhandled instruction")
	ErrInvalidArrayType     = errors.New("invalid array type")
	ErrNegativeArraySize    = errors.New("negative array size")
	ErrIndexOutOfBounds     = errors.New("array index out of bounds")
	ErrNullReference        = errors.New("null reference")
	ErrDivideByZero         = errors.New("division by zero")
	ErrClassCast            = errors.New("class cast")
	ErrBadBranch            = errors.New("branch target is not an instruction")
	ErrNoReturn             = errors.New("execution ran past the end of the method")
	ErrUnsupportedConstant  = errors.New("unsupported constant")
	ErrStackOverflow        = errors.New("call depth exceeded")
	ErrStepLimit            = errors.New("step limit exceeded")
)

// Resolution errors.
var (
	ErrClassNotFound     = errors.New("class not found")
	ErrMethodNotFound    = errors.New("method not found")
	ErrFieldNotFound     = errors.New("field not found")
	ErrIncompatibleField = errors.New("incompatible field access")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	ErrArgumentCount     = errors.New("wrong number of arguments")
	ErrNoCode            = errors.New("method has no code")
)

// Position identifies an instruction within a method.
type Position struct {
	Class  string
	Method string
	Offset int
	Op     bytecode.Opcode
}

func (p Position) String() string {
	return fmt.Sprintf("%s.%s at %d (%s)", p.Class, p.Method, p.Offset, p.Op)
}

// ExecError reports a failure inside the dispatch loop. Position is the
// innermost instruction that failed; Callers lists the invoking
// instructions outward from there.
type ExecError struct {
	Position
	Callers []Position
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %v", e.Position, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
