package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/funvibe/quill/internal/evaluator"
)

func TestPoolRunsInvocationsInOrder(t *testing.T) {
	pool := NewPool(testModule(), evaluator.ResourceLimits{MaxOperations: 100_000, MaxRecursionDepth: 20}, 3)

	var invocations []Invocation
	for i := int64(0); i < 12; i++ {
		invocations = append(invocations, Invocation{Entry: "factorial", Args: []evaluator.Value{evaluator.NewInt(i)}})
	}
	invocations = append(invocations, Invocation{Entry: "spin"}, Invocation{})

	outcomes, err := pool.Run(context.Background(), invocations)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != len(invocations) {
		t.Fatalf("expected %d outcomes, got %d", len(invocations), len(outcomes))
	}

	want := int64(1)
	for i := 0; i < 12; i++ {
		if i > 1 {
			want *= int64(i)
		}
		o := outcomes[i]
		if o.Err != nil {
			t.Fatalf("factorial(%d): %v", i, o.Err)
		}
		if !evaluator.Equal(o.Result, evaluator.NewInt(want)) {
			t.Errorf("factorial(%d): expected %d, got %s", i, want, o.Result.Inspect())
		}
	}

	var overflow evaluator.StackOverflow
	if !errors.As(outcomes[12].Err, &overflow) || overflow.Depth != 20 {
		t.Errorf("expected StackOverflow{20} for spin, got %v", outcomes[12].Err)
	}
	// The empty entry defaults to main.
	if !evaluator.Equal(outcomes[13].Result, evaluator.NewInt(120)) {
		t.Errorf("expected main to return 120, got %v (%v)", outcomes[13].Result, outcomes[13].Err)
	}
}

func TestPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := NewPool(testModule(), evaluator.DefaultLimits(), 0).Run(ctx, []Invocation{{}, {}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for i, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) || o.Result != nil {
			t.Errorf("outcome %d: expected cancellation, got %v / %v", i, o.Result, o.Err)
		}
	}
}

func TestPoolWithoutModule(t *testing.T) {
	if _, err := (&Pool{Workers: 1}).Run(context.Background(), nil); !errors.Is(err, ErrNoModule) {
		t.Errorf("expected ErrNoModule, got %v", err)
	}
}
