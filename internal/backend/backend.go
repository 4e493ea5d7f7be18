// Package backend runs lowered modules. A Backend executes one entry call
// described by a pipeline context; a Pool fans many calls of one module out
// over a bounded set of workers.
package backend

import (
	"errors"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes ctx.Entry of ctx.Module and returns the result
	Run(ctx *pipeline.PipelineContext) (evaluator.Value, error)

	// Name returns the backend name for display
	Name() string
}

var (
	// ErrNoModule is returned when there is nothing to execute.
	ErrNoModule = errors.New("no module to execute")
	// ErrTypeErrors is recorded when strict mode refuses an ill-typed module.
	ErrTypeErrors = errors.New("module has type errors")
)

// LimitsFromConfig converts configured limits. Zero fields fall back to the
// evaluator defaults.
func LimitsFromConfig(l config.Limits) evaluator.ResourceLimits {
	limits := evaluator.DefaultLimits()
	if l.MaxOperations > 0 {
		limits.MaxOperations = l.MaxOperations
	}
	if l.MaxRecursionDepth > 0 {
		limits.MaxRecursionDepth = l.MaxRecursionDepth
	}
	return limits
}

func entryName(ctx *pipeline.PipelineContext) string {
	if ctx.Entry == "" {
		return config.DefaultEntryFunction
	}
	return ctx.Entry
}
