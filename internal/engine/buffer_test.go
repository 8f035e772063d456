package engine

import (
	"testing"

	"github.com/davinderatgithub/median-aggregate/internal/value"
)

var int64Layout = value.Layout{FixedWidth: true, Width: 8}

func TestValueBuffer_InitialCapacity(t *testing.T) {
	b := newValueBuffer()
	if b.capacity() != 8 {
		t.Errorf("expected initial capacity=8, got %d", b.capacity())
	}
	if b.count != 0 {
		t.Errorf("expected count=0, got %d", b.count)
	}
}

func TestValueBuffer_GrowthDoubles(t *testing.T) {
	b := newValueBuffer()

	for i := 0; i < 100; i++ {
		before := b.capacity()
		b.append(value.Int64(int64(i)))
		after := b.capacity()

		if b.count != i+1 {
			t.Fatalf("after %d appends: expected count=%d, got %d", i+1, i+1, b.count)
		}
		if after < b.count {
			t.Fatalf("capacity %d below count %d", after, b.count)
		}
		if after != before && after != before*2 {
			t.Fatalf("append %d: capacity went %d -> %d, expected doubling", i, before, after)
		}
	}

	if b.capacity() != 128 {
		t.Errorf("expected capacity=128 after 100 appends, got %d", b.capacity())
	}
}

func TestValueBuffer_AppendGrowsFromZeroCapacity(t *testing.T) {
	// A buffer restored with a zero-length backing slice must re-grow to
	// the initial capacity instead of doubling zero.
	var b valueBuffer

	b.append(value.Int64(1))

	if b.count != 1 {
		t.Errorf("expected count=1, got %d", b.count)
	}
	if b.capacity() != 8 {
		t.Errorf("expected capacity=8, got %d", b.capacity())
	}
	if got := b.values[0].AsInt64(); got != 1 {
		t.Errorf("expected values[0]=1, got %d", got)
	}
}

func TestValueBuffer_RemoveShiftsLeft(t *testing.T) {
	b := newValueBuffer()
	for _, v := range []int64{10, 20, 30, 40} {
		b.append(value.Int64(v))
	}

	if !b.removeFirstMatch(value.Int64(20), int64Layout) {
		t.Fatal("expected a match")
	}

	want := []int64{10, 30, 40}
	if b.count != len(want) {
		t.Fatalf("expected count=%d, got %d", len(want), b.count)
	}
	for i, w := range want {
		if got := b.values[i].AsInt64(); got != w {
			t.Errorf("values[%d]: expected %d, got %d", i, w, got)
		}
	}
}

func TestValueBuffer_RemoveMissIsNoOp(t *testing.T) {
	b := newValueBuffer()
	b.append(value.Int64(1))

	if b.removeFirstMatch(value.Int64(2), int64Layout) {
		t.Error("expected no match")
	}
	if b.count != 1 {
		t.Errorf("expected count=1, got %d", b.count)
	}
}

func TestValueBuffer_RemoveVariableWidthByRawBytes(t *testing.T) {
	layout := value.Layout{FixedWidth: false, Width: value.WidthVariable}

	b := newValueBuffer()
	b.append(value.Text("aa"))
	b.append(value.Text("bb"))

	if !b.removeFirstMatch(value.Text("bb"), layout) {
		t.Fatal("expected a match on payload bytes")
	}
	if b.count != 1 {
		t.Fatalf("expected count=1, got %d", b.count)
	}
	if got := string(b.values[0].Payload()); got != "aa" {
		t.Errorf("expected remaining value aa, got %q", got)
	}
}
