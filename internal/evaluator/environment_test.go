package evaluator

import (
	"testing"

	"github.com/google/uuid"
)

func TestShadowingRestoresOuterBinding(t *testing.T) {
	for _, outer := range []Value{NewInt(1), NewString("outer"), NULL, &Array{}} {
		ctx := NewExecutionContext(DefaultLimits())
		ctx.Define("x", outer)

		ctx.PushScope()
		ctx.Define("x", NewInt(99))
		if v, _ := ctx.Lookup("x"); !Equal(v, NewInt(99)) {
			t.Fatalf("expected the inner binding, got %s", v.Inspect())
		}
		ctx.PopScope()

		v, err := ctx.Lookup("x")
		if err != nil {
			t.Fatal(err)
		}
		if v != outer {
			t.Errorf("expected %s to be restored, got %s", outer.Inspect(), v.Inspect())
		}
	}
}

func TestUpdateWritesNearestBinding(t *testing.T) {
	ctx := NewExecutionContext(DefaultLimits())
	ctx.Define("x", NewInt(1))
	ctx.PushScope()
	if err := ctx.Update("x", NewInt(2)); err != nil {
		t.Fatal(err)
	}
	ctx.PopScope()
	if v, _ := ctx.Lookup("x"); !Equal(v, NewInt(2)) {
		t.Errorf("expected the outer binding to be updated, got %s", v.Inspect())
	}

	if err := ctx.Update("y", NewInt(1)); err != (UndefinedVariable{Name: "y"}) {
		t.Errorf("expected UndefinedVariable, got %v", err)
	}
	if _, err := ctx.Lookup("y"); err != (UndefinedVariable{Name: "y"}) {
		t.Errorf("expected UndefinedVariable, got %v", err)
	}
}

func TestFramesHideCallerScopes(t *testing.T) {
	ctx := NewExecutionContext(DefaultLimits())
	ctx.Define("caller", TRUE)
	if err := ctx.PushFrame("f", nil); err != nil {
		t.Fatal(err)
	}
	ctx.PushScope()
	if _, err := ctx.Lookup("caller"); err == nil {
		t.Error("expected the caller's binding to be hidden inside the frame")
	}
	ctx.PopScope()
	ctx.PopFrame()
	if _, err := ctx.Lookup("caller"); err != nil {
		t.Errorf("expected the binding back after the frame, got %v", err)
	}
}

func TestPushFrameChecksDepthFirst(t *testing.T) {
	ctx := NewExecutionContext(ResourceLimits{MaxOperations: 10, MaxRecursionDepth: 3})
	for i := 0; i < 3; i++ {
		if err := ctx.PushFrame("f", nil); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := ctx.PushFrame("f", nil); err != (StackOverflow{Depth: 3}) {
		t.Fatalf("expected StackOverflow{3}, got %v", err)
	}
	if ctx.Depth() != 3 {
		t.Errorf("expected the failed push to add no frame, depth is %d", ctx.Depth())
	}
}

func TestTickLimit(t *testing.T) {
	ctx := NewExecutionContext(ResourceLimits{MaxOperations: 3, MaxRecursionDepth: 1})
	for i := 0; i < 3; i++ {
		if err := ctx.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if err := ctx.Tick(); err != (OperationLimitExceeded{Limit: 3}) {
		t.Errorf("expected OperationLimitExceeded{3}, got %v", err)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := NewExecutionContext(ResourceLimits{})
	if ctx.Limits() != DefaultLimits() {
		t.Errorf("expected default limits, got %+v", ctx.Limits())
	}
	if d := DefaultLimits(); d.MaxOperations != 1_000_000 || d.MaxRecursionDepth != 1000 {
		t.Errorf("unexpected defaults %+v", d)
	}
	if ctx.RunID == uuid.Nil || ctx.RunID == NewExecutionContext(ResourceLimits{}).RunID {
		t.Error("expected a unique run id per context")
	}
}
