package evaluator

import (
	"github.com/google/uuid"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/ir"
)

// ResourceLimits bound a single execution.
type ResourceLimits struct {
	MaxOperations     int
	MaxRecursionDepth int
}

func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxOperations:     config.DefaultMaxOperations,
		MaxRecursionDepth: config.DefaultMaxRecursionDepth,
	}
}

// withDefaults fills zero fields from DefaultLimits.
func (l ResourceLimits) withDefaults() ResourceLimits {
	d := DefaultLimits()
	if l.MaxOperations <= 0 {
		l.MaxOperations = d.MaxOperations
	}
	if l.MaxRecursionDepth <= 0 {
		l.MaxRecursionDepth = d.MaxRecursionDepth
	}
	return l
}

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Function string
	Location *ir.Span

	// base is the first scope owned by this frame.
	base int
}

// ExecutionContext is all mutable state of one top-level invocation.
// Callee bodies see only the scopes pushed since their own frame.
type ExecutionContext struct {
	RunID uuid.UUID

	scopes     []map[string]Value
	frames     []CallFrame
	operations int
	limits     ResourceLimits
}

// NewExecutionContext creates a context with one empty scope. Zero limit
// fields take their defaults.
func NewExecutionContext(limits ResourceLimits) *ExecutionContext {
	return &ExecutionContext{
		RunID:  uuid.New(),
		scopes: []map[string]Value{make(map[string]Value)},
		limits: limits.withDefaults(),
	}
}

func (c *ExecutionContext) Limits() ResourceLimits { return c.limits }
func (c *ExecutionContext) Operations() int        { return c.operations }
func (c *ExecutionContext) Depth() int             { return len(c.frames) }
func (c *ExecutionContext) ScopeDepth() int        { return len(c.scopes) }

func (c *ExecutionContext) PushScope() {
	c.scopes = append(c.scopes, make(map[string]Value))
}

func (c *ExecutionContext) PopScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// Define binds name in the innermost scope, shadowing outer bindings.
func (c *ExecutionContext) Define(name string, v Value) {
	c.scopes[len(c.scopes)-1][name] = v
}

func (c *ExecutionContext) visible() []map[string]Value {
	if len(c.frames) == 0 {
		return c.scopes
	}
	return c.scopes[c.frames[len(c.frames)-1].base:]
}

func (c *ExecutionContext) Lookup(name string) (Value, error) {
	scopes := c.visible()
	for i := len(scopes) - 1; i >= 0; i-- {
		if v, ok := scopes[i][name]; ok {
			return v, nil
		}
	}
	return nil, UndefinedVariable{Name: name}
}

// Update rebinds name in the innermost scope that holds it.
func (c *ExecutionContext) Update(name string, v Value) error {
	scopes := c.visible()
	for i := len(scopes) - 1; i >= 0; i-- {
		if _, ok := scopes[i][name]; ok {
			scopes[i][name] = v
			return nil
		}
	}
	return UndefinedVariable{Name: name}
}

// PushFrame enters a function. The depth is checked before the frame is added.
func (c *ExecutionContext) PushFrame(function string, location *ir.Span) error {
	if len(c.frames) >= c.limits.MaxRecursionDepth {
		return StackOverflow{Depth: c.limits.MaxRecursionDepth}
	}
	c.frames = append(c.frames, CallFrame{Function: function, Location: location, base: len(c.scopes)})
	return nil
}

func (c *ExecutionContext) PopFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

// Tick accounts for one evaluation step.
func (c *ExecutionContext) Tick() error {
	c.operations++
	if c.operations > c.limits.MaxOperations {
		return OperationLimitExceeded{Limit: c.limits.MaxOperations}
	}
	return nil
}

// CallStack returns a snapshot of the frames, outermost first.
func (c *ExecutionContext) CallStack() []CallFrame {
	out := make([]CallFrame, len(c.frames))
	copy(out, c.frames)
	return out
}
