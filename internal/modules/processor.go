package modules

import (
	"github.com/funvibe/quill/internal/pipeline"
)

// LoaderProcessor is the first pipeline stage: it decodes ctx.FilePath into
// ctx.Module unless a module was supplied directly.
type LoaderProcessor struct {
	Loader *Loader
}

func NewLoaderProcessor() *LoaderProcessor {
	return &LoaderProcessor{Loader: NewLoader()}
}

func (lp *LoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module != nil || ctx.FilePath == "" {
		return ctx
	}
	mod, err := lp.Loader.Load(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Module = mod
	ctx.Logf("loaded module %q from %s (%d items, %d expressions)", mod.Name, ctx.FilePath, len(mod.Items()), mod.ExprCount())
	return ctx
}
