package pipeline

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/ir"
)

func TestRunContinuesAfterErrors(t *testing.T) {
	var order []string
	stage := func(name string, fail bool) Processor {
		return ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			order = append(order, name)
			if fail {
				ctx.Errors = append(ctx.Errors, errors.New(name+" failed"))
			}
			return ctx
		})
	}

	ctx := New(stage("load", true), stage("check", false), stage("run", true)).Run(NewContext(nil))

	if got := strings.Join(order, ","); got != "load,check,run" {
		t.Errorf("stages ran as %s", got)
	}
	if len(ctx.Errors) != 2 || !ctx.Failed() {
		t.Errorf("expected both errors to be kept, got %v", ctx.Errors)
	}
}

func TestNewContextDefaults(t *testing.T) {
	m := ir.NewModule("main")
	ctx := NewContext(m)
	if ctx.Module != m {
		t.Error("module not attached")
	}
	if ctx.Limits != evaluator.DefaultLimits() {
		t.Errorf("limits = %+v, want defaults", ctx.Limits)
	}
	if ctx.Failed() || ctx.HasTypeErrors() {
		t.Error("a fresh context must not report failures")
	}

	// A nil logger is silent.
	ctx.Logf("nothing %d", 1)
}

func TestHasTypeErrorsIgnoresWarnings(t *testing.T) {
	ctx := NewContext(nil)
	ctx.Diagnostics = append(ctx.Diagnostics,
		diagnostics.NewWarning(diagnostics.ErrTypeMismatch, ir.Span{}, "only a warning"))
	if ctx.HasTypeErrors() {
		t.Error("warnings are not type errors")
	}
	ctx.Diagnostics = append(ctx.Diagnostics,
		diagnostics.NewError(diagnostics.ErrTypeMismatch, ir.Span{}, "a real one"))
	if !ctx.HasTypeErrors() {
		t.Error("expected a type error")
	}
}

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(nil)
	ctx.Logger = log.New(&buf, "", 0)
	ctx.Logf("loaded %s", "site")
	if buf.String() != "loaded site\n" {
		t.Errorf("log output %q", buf.String())
	}

	ctx.Logger = DiscardLogger()
	ctx.Logf("dropped")
}

func TestRunLogsEachStage(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(nil)
	ctx.Logger = log.New(&buf, "", 0)

	ok := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext { return ctx })
	failing := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		ctx.Errors = append(ctx.Errors, errors.New("boom"), errors.New("again"))
		return ctx
	})
	New(ok, failing).Run(ctx)

	want := "stage 1/2 (pipeline.ProcessorFunc): ok\n" +
		"stage 2/2 (pipeline.ProcessorFunc): 2 error(s)\n"
	if buf.String() != want {
		t.Errorf("log output:\n%s\nwant:\n%s", buf.String(), want)
	}
}
