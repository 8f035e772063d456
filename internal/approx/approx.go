// Package approx provides a sketch-based approximate median for streams too
// large to buffer exactly. It mirrors the engine's add/merge/finalize
// surface but holds a DDSketch instead of the raw values, trading exactness
// for constant memory.
package approx

import (
	"fmt"

	"github.com/DataDog/sketches-go/ddsketch"
)

// DefaultAccuracy is the relative accuracy used when none is configured
// (0.01 = 1% error).
const DefaultAccuracy = 0.01

// Median approximates the median of a float stream.
type Median struct {
	sketch   *ddsketch.DDSketch
	accuracy float64
}

// New creates an approximate median with the given relative accuracy.
// A non-positive accuracy falls back to DefaultAccuracy.
func New(accuracy float64) (*Median, error) {
	if accuracy <= 0 {
		accuracy = DefaultAccuracy
	}
	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err != nil {
		return nil, fmt.Errorf("create sketch: %w", err)
	}
	return &Median{sketch: sketch, accuracy: accuracy}, nil
}

// Add records one value.
func (m *Median) Add(v float64) error {
	return m.sketch.Add(v)
}

// Merge folds another approximate median into this one.
func (m *Median) Merge(other *Median) error {
	if other == nil || other.Count() == 0 {
		return nil
	}
	return m.sketch.MergeWith(other.sketch)
}

// Count returns the number of values recorded.
func (m *Median) Count() int64 {
	return int64(m.sketch.GetCount())
}

// Median returns the approximate median. An empty sketch yields absence
// (ok false).
func (m *Median) Median() (float64, bool) {
	if m.sketch.IsEmpty() {
		return 0, false
	}
	v, err := m.sketch.GetValueAtQuantile(0.5)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Accuracy returns the configured relative accuracy.
func (m *Median) Accuracy() float64 { return m.accuracy }
