package analyzer

import (
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/pipeline"
)

// SemanticAnalyzerProcessor runs type inference as a pipeline stage.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil || ctx.SkipTypeCheck {
		return ctx
	}

	env, diags := Analyze(ctx.Module)
	ctx.ExprTypes = env.ExprTypes()
	ctx.Signatures = env.Signatures()
	ctx.Diagnostics = append(ctx.Diagnostics, diags...)
	diagnostics.Sort(ctx.Diagnostics)

	ctx.Logf("analyzed module %s: %d expression(s), %d diagnostic(s)",
		ctx.Module.Name, len(ctx.ExprTypes), len(diags))
	return ctx
}
