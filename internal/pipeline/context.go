package pipeline

import (
	"io"
	"log"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/typesystem"
)

// Processor is one stage of a Pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries a module through loading, checking and execution.
type PipelineContext struct {
	// FilePath is the interchange document to load (empty when Module is given directly).
	FilePath string
	Module   *ir.Module

	// Results of the type engine.
	ExprTypes   map[ir.ExprID]typesystem.Type
	Signatures  map[string]typesystem.Type
	Diagnostics []diagnostics.Diagnostic

	// SkipTypeCheck disables the analyzer stage.
	SkipTypeCheck bool
	// Strict refuses to execute a module whose diagnostics contain errors.
	Strict bool

	// Execution request and outcome.
	Entry  string
	Args   []evaluator.Value
	Limits evaluator.ResourceLimits
	Result evaluator.Value

	// Errors are failures of the plumbing or of execution (not type diagnostics).
	Errors []error

	// Logger receives progress messages; nil discards them.
	Logger *log.Logger
}

// NewContext returns a context for module with default resource limits.
func NewContext(module *ir.Module) *PipelineContext {
	return &PipelineContext{Module: module, Limits: evaluator.DefaultLimits()}
}

// Logf logs through ctx.Logger when one is set.
func (ctx *PipelineContext) Logf(format string, args ...interface{}) {
	if ctx.Logger != nil {
		ctx.Logger.Printf(format, args...)
	}
}

// Failed reports whether a plumbing or execution error was recorded.
func (ctx *PipelineContext) Failed() bool { return len(ctx.Errors) > 0 }

// HasTypeErrors reports whether the analyzer produced error diagnostics.
func (ctx *PipelineContext) HasTypeErrors() bool {
	return diagnostics.HasErrors(ctx.Diagnostics)
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
