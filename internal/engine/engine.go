// Package engine implements the incremental order-statistic aggregate: an
// unsorted accumulation buffer plus a comparator resolved once per value
// type, supporting add, remove (sliding window), merge (parallel combine),
// and a sort-at-finalize median.
//
// One engine is owned by exactly one logical thread of control at a time;
// there is no internal locking. Parallel aggregation is structural: workers
// accumulate into private engines that a coordinator merges sequentially.
package engine

import (
	"sort"

	apperrors "github.com/davinderatgithub/median-aggregate/internal/errors"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// Engine accumulates values of a single type and produces their median.
// The comparator and layout are resolved once at construction and reused for
// every subsequent operation.
type Engine struct {
	cmp    typereg.Comparator
	layout value.Layout
	buf    valueBuffer
}

// New constructs an empty engine for the given type, resolving comparison
// support from the registry. Resolution failure constructs nothing.
func New(reg *typereg.Registry, t value.TypeID) (*Engine, error) {
	cmp, err := reg.Resolve(t)
	if err != nil {
		return nil, err
	}
	layout, err := reg.LayoutOf(t)
	if err != nil {
		return nil, err
	}
	return &Engine{cmp: cmp, layout: layout, buf: newValueBuffer()}, nil
}

// Restore rebuilds an engine from transported state: a capacity, the
// accumulated values, and a TypeID re-resolved against the registry.
// Used by the codec; the values slice is copied.
func Restore(reg *typereg.Registry, t value.TypeID, capacity int, values []value.Datum) (*Engine, error) {
	if capacity < len(values) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidState, "capacity %d below count %d", capacity, len(values))
	}
	e, err := New(reg, t)
	if err != nil {
		return nil, err
	}
	e.buf.values = make([]value.Datum, capacity)
	copy(e.buf.values, values)
	e.buf.count = len(values)
	return e, nil
}

// TypeID returns the engine's value type.
func (e *Engine) TypeID() value.TypeID { return e.cmp.TypeID }

// Layout returns the representation layout of the engine's value type.
func (e *Engine) Layout() value.Layout { return e.layout }

// Count returns the number of accumulated values.
func (e *Engine) Count() int { return e.buf.count }

// Capacity returns the buffer's allocated slot count.
func (e *Engine) Capacity() int { return e.buf.capacity() }

// Values returns a view of the accumulated values. The caller must not
// modify or retain the slice across further engine operations.
func (e *Engine) Values() []value.Datum { return e.buf.values[:e.buf.count] }

// clone returns a structural copy: same type, count, capacity, and values.
func (e *Engine) clone() *Engine {
	c := &Engine{cmp: e.cmp, layout: e.layout}
	c.buf.values = make([]value.Datum, len(e.buf.values))
	copy(c.buf.values, e.buf.values[:e.buf.count])
	c.buf.count = e.buf.count
	return c
}

// Add incorporates one value into the accumulating state, constructing the
// engine on the first call when e is nil. Values are kept unsorted; ordering
// is established only by Finalize.
func Add(e *Engine, reg *typereg.Registry, t value.TypeID, d value.Datum) (*Engine, error) {
	if e == nil {
		created, err := New(reg, t)
		if err != nil {
			return nil, err
		}
		e = created
	} else if t != e.cmp.TypeID {
		return e, apperrors.Wrapf(apperrors.ErrTypeMismatch, "add %s to %s engine", t, e.cmp.TypeID)
	}
	e.buf.append(d)
	return e, nil
}

// Remove retracts the first occurrence of d, matched by raw representation
// rather than by the comparator's ordering. A value not present is a silent
// no-op; a nil engine is an invalid state.
func Remove(e *Engine, d value.Datum) (*Engine, error) {
	if e == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidState, "remove with no accumulated state")
	}
	e.buf.removeFirstMatch(d, e.layout)
	return e, nil
}

// Merge folds source into target and returns the combined engine. An empty
// source is a no-op; a nil target becomes a structural copy of source
// (count, capacity, and values); otherwise source's values are replayed into
// target one append at a time.
func Merge(target, source *Engine) (*Engine, error) {
	if source == nil || source.buf.count == 0 {
		return target, nil
	}
	if target == nil {
		return source.clone(), nil
	}
	if target.cmp.TypeID != source.cmp.TypeID {
		return target, apperrors.Wrapf(apperrors.ErrTypeMismatch, "merge %s into %s engine", source.cmp.TypeID, target.cmp.TypeID)
	}
	for _, d := range source.buf.values[:source.buf.count] {
		target.buf.append(d)
	}
	return target, nil
}

// Finalize sorts the accumulated values with the engine's comparator and
// returns their median. An empty or absent engine yields absence (ok false),
// not an error. The sort mutates the buffer; adding or removing afterwards
// is allowed and a later Finalize re-sorts from scratch.
func Finalize(e *Engine) (value.Datum, bool, error) {
	if e == nil || e.buf.count == 0 {
		return value.Datum{}, false, nil
	}

	vals := e.buf.values[:e.buf.count]
	sort.Slice(vals, func(i, j int) bool {
		return e.cmp.Cmp(vals[i], vals[j]) < 0
	})

	mid := e.buf.count / 2
	if e.buf.count%2 != 0 {
		return vals[mid], true, nil
	}

	avg, err := average(e.cmp.TypeID, vals[mid-1], vals[mid])
	if err != nil {
		return value.Datum{}, false, err
	}
	return avg, true, nil
}
