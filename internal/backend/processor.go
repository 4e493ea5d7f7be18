package backend

import (
	"fmt"

	"github.com/funvibe/quill/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Module == nil || ctx.Failed() {
		return ctx
	}
	if ctx.Strict && ctx.HasTypeErrors() {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("%s: %w", ctx.Module.Name, ErrTypeErrors))
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = result
	return ctx
}
