package window

import (
	"math/rand"
	"sort"
	"testing"

	apperrors "github.com/davinderatgithub/median-aggregate/internal/errors"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

func referenceMedian(vals []int64) int64 {
	s := make([]int64, len(vals))
	copy(s, vals)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	mid := len(s) / 2
	if len(s)%2 != 0 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

func TestWindow_InvalidSize(t *testing.T) {
	if _, err := New(typereg.Builtin(), value.TypeInt64, 0); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestWindow_Empty(t *testing.T) {
	w, err := New(typereg.Builtin(), value.TypeInt64, 3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok, err := w.Median(); err != nil {
		t.Fatalf("median: %v", err)
	} else if ok {
		t.Error("expected absence from empty window")
	}
	if w.Count() != 0 {
		t.Errorf("expected count=0, got %d", w.Count())
	}
}

func TestWindow_EvictsOldest(t *testing.T) {
	w, err := New(typereg.Builtin(), value.TypeInt64, 3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for _, v := range []int64{1, 2, 3, 4, 5} {
		if err := w.Push(value.Int64(v)); err != nil {
			t.Fatalf("push %d: %v", v, err)
		}
	}

	if w.Count() != 3 {
		t.Errorf("expected count=3, got %d", w.Count())
	}

	med, ok, err := w.Median()
	if err != nil {
		t.Fatalf("median: %v", err)
	}
	if !ok {
		t.Fatal("expected a median, got absence")
	}
	// Window holds {3, 4, 5}.
	if got := med.AsInt64(); got != 4 {
		t.Errorf("expected median=4, got %d", got)
	}
}

func TestWindow_DuplicatesEvictSingly(t *testing.T) {
	w, err := New(typereg.Builtin(), value.TypeInt64, 2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// 7 7 9: the second push of 7 must not disturb the first, and the
	// eviction for 9 must retract exactly one 7.
	for _, v := range []int64{7, 7, 9} {
		if err := w.Push(value.Int64(v)); err != nil {
			t.Fatalf("push %d: %v", v, err)
		}
	}

	med, ok, err := w.Median()
	if err != nil {
		t.Fatalf("median: %v", err)
	}
	if !ok {
		t.Fatal("expected a median, got absence")
	}
	// Window holds {7, 9}, truncating average is 8.
	if got := med.AsInt64(); got != 8 {
		t.Errorf("expected median=8, got %d", got)
	}
}

func TestWindow_MatchesReference(t *testing.T) {
	const size = 25
	rng := rand.New(rand.NewSource(99))

	w, err := New(typereg.Builtin(), value.TypeInt64, size)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var stream []int64
	for i := 0; i < 500; i++ {
		v := rng.Int63n(100)
		stream = append(stream, v)
		if err := w.Push(value.Int64(v)); err != nil {
			t.Fatalf("push: %v", err)
		}

		lo := len(stream) - size
		if lo < 0 {
			lo = 0
		}
		want := referenceMedian(stream[lo:])

		med, ok, err := w.Median()
		if err != nil {
			t.Fatalf("median at %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("expected a median at %d, got absence", i)
		}
		if got := med.AsInt64(); got != want {
			t.Fatalf("after %d pushes: expected %d, got %d", i+1, want, got)
		}
	}
}
