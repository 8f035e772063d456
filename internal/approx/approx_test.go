package approx

import (
	"math"
	"testing"
)

func TestMedian_Empty(t *testing.T) {
	m, err := New(0.01)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok := m.Median(); ok {
		t.Error("expected absence from empty sketch")
	}
	if m.Count() != 0 {
		t.Errorf("expected count=0, got %d", m.Count())
	}
}

func TestMedian_Uniform(t *testing.T) {
	m, err := New(0.01)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := 1; i <= 1000; i++ {
		if err := m.Add(float64(i)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	med, ok := m.Median()
	if !ok {
		t.Fatal("expected a median")
	}
	// 1% relative accuracy around the true median of 500.5
	if math.Abs(med-500.5) > 500.5*0.02 {
		t.Errorf("expected median near 500.5, got %f", med)
	}
}

func TestMedian_Merge(t *testing.T) {
	a, err := New(0.01)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := New(0.01)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := 1; i <= 500; i++ {
		a.Add(float64(i))
	}
	for i := 501; i <= 1000; i++ {
		b.Add(float64(i))
	}

	if err := a.Merge(b); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if a.Count() != 1000 {
		t.Errorf("expected count=1000, got %d", a.Count())
	}

	med, ok := a.Median()
	if !ok {
		t.Fatal("expected a median")
	}
	if math.Abs(med-500.5) > 500.5*0.02 {
		t.Errorf("expected median near 500.5, got %f", med)
	}
}

func TestMedian_MergeEmptyIsNoOp(t *testing.T) {
	a, _ := New(0.01)
	a.Add(1)

	empty, _ := New(0.01)
	if err := a.Merge(empty); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := a.Merge(nil); err != nil {
		t.Fatalf("merge nil: %v", err)
	}
	if a.Count() != 1 {
		t.Errorf("expected count=1, got %d", a.Count())
	}
}

func TestNew_DefaultAccuracy(t *testing.T) {
	m, err := New(0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if m.Accuracy() != DefaultAccuracy {
		t.Errorf("expected accuracy=%v, got %v", DefaultAccuracy, m.Accuracy())
	}
}
