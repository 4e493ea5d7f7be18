package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/quill/internal/ir"
)

// RuntimeError is a fatal execution failure. Kind is one of the error kinds
// below and can be matched with errors.As.
type RuntimeError struct {
	Kind  error
	Span  *ir.Span
	Stack []CallFrame
}

func (e *RuntimeError) Error() string {
	if e.Span != nil && !e.Span.IsZero() {
		return fmt.Sprintf("runtime error at %s: %s", e.Span, e.Kind)
	}
	return "runtime error: " + e.Kind.Error()
}

func (e *RuntimeError) Unwrap() error { return e.Kind }

// StackTrace renders the call stack, innermost frame first.
func (e *RuntimeError) StackTrace() string {
	var sb strings.Builder
	for i := len(e.Stack) - 1; i >= 0; i-- {
		frame := e.Stack[i]
		sb.WriteString("  at ")
		sb.WriteString(frame.Function)
		if frame.Location != nil {
			sb.WriteString(" (")
			sb.WriteString(frame.Location.String())
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type DivisionByZero struct{}

func (DivisionByZero) Error() string { return "division by zero" }

type NullOperation struct {
	Operation string
}

func (e NullOperation) Error() string {
	return fmt.Sprintf("null operand in %s", e.Operation)
}

type TypeMismatch struct {
	Expected  string
	Actual    string
	Operation string
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch in %s: expected %s, got %s", e.Operation, e.Expected, e.Actual)
}

type UndefinedVariable struct {
	Name string
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

type ParameterCountMismatch struct {
	Expected int
	Actual   int
	Function string
}

func (e ParameterCountMismatch) Error() string {
	return fmt.Sprintf("%s expects %d argument(s), got %d", e.Function, e.Expected, e.Actual)
}

type FunctionNotFound struct {
	Name string
}

func (e FunctionNotFound) Error() string {
	return fmt.Sprintf("function %q not found", e.Name)
}

type OperationLimitExceeded struct {
	Limit int
}

func (e OperationLimitExceeded) Error() string {
	return fmt.Sprintf("operation limit of %d exceeded", e.Limit)
}

type StackOverflow struct {
	Depth int
}

func (e StackOverflow) Error() string {
	return fmt.Sprintf("stack overflow: recursion depth %d reached", e.Depth)
}

type IndexOutOfBounds struct {
	Index  int64
	Length int
}

func (e IndexOutOfBounds) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Length)
}

func mismatch(expected string, actual Value, operation string) TypeMismatch {
	return TypeMismatch{Expected: expected, Actual: typeName(actual), Operation: operation}
}
