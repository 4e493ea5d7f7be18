package backend

import (
	"errors"

	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/pipeline"
)

// TreeWalkBackend wraps the tree-walk interpreter
type TreeWalkBackend struct{}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

// Run executes the entry function of ctx.Module with ctx.Args under ctx.Limits.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Value, error) {
	if ctx.Module == nil {
		return nil, ErrNoModule
	}
	return runOnce(ctx.Module, entryName(ctx), ctx.Args, ctx.Limits, ctx.Logf)
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}

// runOnce executes one call in a fresh execution context and logs its run id.
func runOnce(m *ir.Module, entry string, args []evaluator.Value, limits evaluator.ResourceLimits, logf func(string, ...interface{})) (evaluator.Value, error) {
	exec := evaluator.NewExecutionContext(limits)
	logf("run %s: %s.%s with %d argument(s)", exec.RunID, m.Name, entry, len(args))

	result, err := evaluator.New(m).Execute(exec, entry, args)
	if err != nil {
		var rerr *evaluator.RuntimeError
		if errors.As(err, &rerr) && rerr.Span != nil {
			logf("run %s: failed at %s after %d operation(s): %v", exec.RunID, rerr.Span, exec.Operations(), rerr.Kind)
		} else {
			logf("run %s: failed after %d operation(s): %v", exec.RunID, exec.Operations(), err)
		}
		return nil, err
	}
	logf("run %s: ok after %d operation(s)", exec.RunID, exec.Operations())
	return result, nil
}
