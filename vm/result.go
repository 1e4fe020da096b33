package vm

import "fmt"

// ---------------------------------------------------------------------------
// Result: outcome of a method invocation
// ---------------------------------------------------------------------------

// ResultType identifies how an invocation completed.
type ResultType int

const (
	ResultVoid  ResultType = iota // returned without a value
	ResultValue                   // returned Value
	ResultThrow                   // threw Value; no handler was searched
)

// Result is what an invocation hands back to its caller.
type Result struct {
	Type  ResultType
	Value Value
}

// Void is the result of a method returning nothing.
var Void = Result{Type: ResultVoid}

// Returned wraps a return value.
func Returned(v Value) Result {
	return Result{Type: ResultValue, Value: v}
}

// Thrown wraps a thrown reference.
func Thrown(v Value) Result {
	return Result{Type: ResultThrow, Value: v}
}

func (r Result) String() string {
	switch r.Type {
	case ResultValue:
		return r.Value.String()
	case ResultThrow:
		return fmt.Sprintf("throw %s", r.Value)
	}
	return "void"
}
