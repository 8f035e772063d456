// Package typereg resolves per-type comparison support.
//
// An aggregation engine needs exactly two facts about its value type: how
// values of that type are laid out (fixed or variable width) and how two of
// them order. Both are looked up here, once, when an engine is constructed;
// serialized state carries only the TypeID and re-resolves against a registry
// on the receiving side.
package typereg

import (
	"bytes"
	"sync"

	apperrors "github.com/davinderatgithub/median-aggregate/internal/errors"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// CompareFunc orders two datums of one type: negative for a<b, zero for
// equal, positive for a>b. It must be a total order.
type CompareFunc func(a, b value.Datum) int

// Comparator is the resolved ordering capability for one value type.
type Comparator struct {
	TypeID value.TypeID
	Cmp    CompareFunc
}

// Registry maps TypeIDs to comparison and layout support.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	cmps    map[value.TypeID]CompareFunc
	layouts map[value.TypeID]value.Layout
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		cmps:    make(map[value.TypeID]CompareFunc),
		layouts: make(map[value.TypeID]value.Layout),
	}
}

// Register adds comparison support for a type. Re-registering replaces the
// previous entry.
func (r *Registry) Register(t value.TypeID, layout value.Layout, cmp CompareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmps[t] = cmp
	r.layouts[t] = layout
}

// Resolve returns the comparator for a type, or a type-resolution error if
// the type has no registered comparison support.
func (r *Registry) Resolve(t value.TypeID) (Comparator, error) {
	r.mu.RLock()
	cmp, ok := r.cmps[t]
	r.mu.RUnlock()

	if !ok {
		return Comparator{}, apperrors.NewTypeResolution(t.String())
	}
	return Comparator{TypeID: t, Cmp: cmp}, nil
}

// LayoutOf returns the representation layout for a registered type.
func (r *Registry) LayoutOf(t value.TypeID) (value.Layout, error) {
	r.mu.RLock()
	layout, ok := r.layouts[t]
	r.mu.RUnlock()

	if !ok {
		return value.Layout{}, apperrors.Wrapf(apperrors.ErrUnknownType, "layout of %s", t)
	}
	return layout, nil
}

// Builtin returns a registry preloaded with the built-in value types.
func Builtin() *Registry {
	r := New()
	for _, t := range []value.TypeID{
		value.TypeInt32,
		value.TypeInt64,
		value.TypeFloat32,
		value.TypeFloat64,
		value.TypeNumeric,
		value.TypeBytes,
		value.TypeText,
	} {
		layout, _ := value.LayoutFor(t)
		r.Register(t, layout, builtinCompare(t))
	}
	return r
}

func builtinCompare(t value.TypeID) CompareFunc {
	switch t {
	case value.TypeInt32:
		return func(a, b value.Datum) int {
			return compareOrdered(a.AsInt32(), b.AsInt32())
		}
	case value.TypeInt64:
		return func(a, b value.Datum) int {
			return compareOrdered(a.AsInt64(), b.AsInt64())
		}
	case value.TypeFloat32:
		return func(a, b value.Datum) int {
			return compareFloat(float64(a.AsFloat32()), float64(b.AsFloat32()))
		}
	case value.TypeFloat64:
		return func(a, b value.Datum) int {
			return compareFloat(a.AsFloat64(), b.AsFloat64())
		}
	case value.TypeNumeric:
		return value.CompareNumeric
	case value.TypeBytes, value.TypeText:
		return func(a, b value.Datum) int {
			return bytes.Compare(a.Payload(), b.Payload())
		}
	default:
		return nil
	}
}

func compareOrdered[T int32 | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareFloat keeps the order total in the presence of NaN: NaN compares
// equal to NaN and greater than every other value.
func compareFloat(a, b float64) int {
	aNaN := a != a
	bNaN := b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
