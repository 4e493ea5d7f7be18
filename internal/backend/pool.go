package backend

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/ir"
)

// Invocation is one entry call of a batch.
type Invocation struct {
	Entry string
	Args  []evaluator.Value
}

// Outcome is the result of one Invocation. Exactly one of Result and Err is set.
type Outcome struct {
	Invocation Invocation
	Result     evaluator.Value
	Err        error
}

// Pool runs invocations of one shared module concurrently. Every invocation
// gets its own execution context; the module is never written to.
type Pool struct {
	Module  *ir.Module
	Limits  evaluator.ResourceLimits
	Workers int
	Logger  *log.Logger
}

func NewPool(m *ir.Module, limits evaluator.ResourceLimits, workers int) *Pool {
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	return &Pool{Module: m, Limits: limits, Workers: workers}
}

func (p *Pool) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// Run executes all invocations and returns their outcomes in input order.
// Runtime failures are reported per outcome. Cancellation is observed between
// invocations only: a running call finishes, later ones get ctx.Err().
func (p *Pool) Run(ctx context.Context, invocations []Invocation) ([]Outcome, error) {
	if p.Module == nil {
		return nil, ErrNoModule
	}
	outcomes := make([]Outcome, len(invocations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for i, inv := range invocations {
		i, inv := i, inv
		outcomes[i].Invocation = inv
		if err := gctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			entry := inv.Entry
			if entry == "" {
				entry = config.DefaultEntryFunction
			}
			outcomes[i].Result, outcomes[i].Err = runOnce(p.Module, entry, inv.Args, p.Limits, p.logf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
