package engine

import (
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// initialCapacity is the allocation every fresh buffer starts with.
const initialCapacity = 8

// valueBuffer is the unsorted accumulation array behind an engine.
// Only indices [0,count) are meaningful; capacity is len(values), starts at
// initialCapacity, doubles when an append would exceed it, and never shrinks.
type valueBuffer struct {
	values []value.Datum
	count  int
}

func newValueBuffer() valueBuffer {
	return valueBuffer{values: make([]value.Datum, initialCapacity)}
}

// append writes d at index count. Amortized O(1).
func (b *valueBuffer) append(d value.Datum) {
	if b.count == len(b.values) {
		newCap := len(b.values) * 2
		if newCap < initialCapacity {
			newCap = initialCapacity
		}
		grown := make([]value.Datum, newCap)
		copy(grown, b.values)
		b.values = grown
	}
	b.values[b.count] = d
	b.count++
}

// removeFirstMatch deletes the first element equal to d by raw
// representation, shifting later elements left. A miss is a silent no-op.
// O(count).
func (b *valueBuffer) removeFirstMatch(d value.Datum, layout value.Layout) bool {
	for i := 0; i < b.count; i++ {
		if value.Equal(b.values[i], d, layout) {
			copy(b.values[i:b.count-1], b.values[i+1:b.count])
			b.count--
			b.values[b.count] = value.Datum{} // Clear for GC
			return true
		}
	}
	return false
}

func (b *valueBuffer) capacity() int {
	return len(b.values)
}
