package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run passes ctx through every stage in order. A stage that records errors
// does not stop the run: later stages check ctx themselves, so `check`
// reports load errors and type diagnostics together.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for i, processor := range p.processors {
		before := len(ctx.Errors)
		ctx = processor.Process(ctx)
		if added := len(ctx.Errors) - before; added > 0 {
			ctx.Logf("stage %d/%d (%T): %d error(s)", i+1, len(p.processors), processor, added)
		} else {
			ctx.Logf("stage %d/%d (%T): ok", i+1, len(p.processors), processor)
		}
	}
	return ctx
}
