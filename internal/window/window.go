// Package window drives the engine in moving-aggregate mode: a fixed-size
// sliding window where each new value past the window size retracts the
// oldest one through the engine's inverse transition.
package window

import (
	engpkg "github.com/davinderatgithub/median-aggregate/internal/engine"
	apperrors "github.com/davinderatgithub/median-aggregate/internal/errors"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// Median maintains the median of the last size values pushed.
// Not safe for concurrent use; like the engine it wraps, a window is owned
// by one logical thread of control.
type Median struct {
	reg    *typereg.Registry
	typeID value.TypeID
	size   int

	eng    *engpkg.Engine
	recent []value.Datum // FIFO of the values currently in the window
}

// New creates a sliding-window median of the given size.
func New(reg *typereg.Registry, t value.TypeID, size int) (*Median, error) {
	if size <= 0 {
		return nil, apperrors.NewValidation("window size", "must be positive")
	}
	eng, err := engpkg.New(reg, t)
	if err != nil {
		return nil, err
	}
	return &Median{
		reg:    reg,
		typeID: t,
		size:   size,
		eng:    eng,
		recent: make([]value.Datum, 0, size),
	}, nil
}

// Push adds a value to the window, evicting the oldest value once the
// window is full.
func (w *Median) Push(d value.Datum) error {
	if len(w.recent) == w.size {
		if _, err := engpkg.Remove(w.eng, w.recent[0]); err != nil {
			return err
		}
		w.recent = append(w.recent[:0], w.recent[1:]...)
	}

	eng, err := engpkg.Add(w.eng, w.reg, w.typeID, d)
	if err != nil {
		return err
	}
	w.eng = eng
	w.recent = append(w.recent, d)
	return nil
}

// Median returns the median of the values currently in the window.
// An empty window yields absence (ok false).
func (w *Median) Median() (value.Datum, bool, error) {
	return engpkg.Finalize(w.eng)
}

// Count returns the number of values currently in the window.
func (w *Median) Count() int { return len(w.recent) }

// Size returns the configured window size.
func (w *Median) Size() int { return w.size }
