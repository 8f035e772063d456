package parallel

import (
	"context"
	"math/rand"
	"testing"

	engpkg "github.com/davinderatgithub/median-aggregate/internal/engine"
	"github.com/davinderatgithub/median-aggregate/internal/source"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

func TestCoordinator_Empty(t *testing.T) {
	reg := typereg.Builtin()
	coord := NewCoordinator(reg, value.TypeInt64, 4)

	src := source.FromSlice(value.TypeInt64, nil)
	if _, ok, err := coord.Run(context.Background(), src); err != nil {
		t.Fatalf("run: %v", err)
	} else if ok {
		t.Error("expected absence from empty source")
	}
}

func TestCoordinator_SequentialValues(t *testing.T) {
	reg := typereg.Builtin()
	coord := NewCoordinator(reg, value.TypeInt64, 4)

	datums := make([]value.Datum, 101)
	for i := range datums {
		datums[i] = value.Int64(int64(i + 1)) // 1..101
	}

	med, ok, err := coord.Run(context.Background(), source.FromSlice(value.TypeInt64, datums))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ok {
		t.Fatal("expected a median, got absence")
	}
	if got := med.AsInt64(); got != 51 {
		t.Errorf("expected median=51, got %d", got)
	}
}

func TestCoordinator_MatchesSingleEngine(t *testing.T) {
	reg := typereg.Builtin()
	rng := rand.New(rand.NewSource(5))

	for _, workers := range []int{1, 2, 8} {
		datums := make([]value.Datum, 777)
		var eng *engpkg.Engine
		for i := range datums {
			v := rng.Int63n(10000)
			datums[i] = value.Int64(v)

			e, err := engpkg.Add(eng, reg, value.TypeInt64, value.Int64(v))
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			eng = e
		}

		want, _, err := engpkg.Finalize(eng)
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}

		coord := NewCoordinator(reg, value.TypeInt64, workers)
		got, ok, err := coord.Run(context.Background(), source.FromSlice(value.TypeInt64, datums))
		if err != nil {
			t.Fatalf("workers=%d: run: %v", workers, err)
		}
		if !ok {
			t.Fatalf("workers=%d: expected a median, got absence", workers)
		}
		if got.AsInt64() != want.AsInt64() {
			t.Errorf("workers=%d: expected %d, got %d", workers, want.AsInt64(), got.AsInt64())
		}
	}
}

func TestCoordinator_Cancellation(t *testing.T) {
	reg := typereg.Builtin()
	coord := NewCoordinator(reg, value.TypeInt64, 2)

	datums := make([]value.Datum, 100000)
	for i := range datums {
		datums[i] = value.Int64(int64(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := coord.Run(ctx, source.FromSlice(value.TypeInt64, datums)); err == nil {
		t.Error("expected context error from cancelled run")
	}
}
