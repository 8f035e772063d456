package engine

import (
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// average computes the midpoint of the two middle elements for an
// even-count median. The policy is type-specific: truncating division for
// integers, floating division for floats, exact decimal arithmetic for
// numeric, and the left element unchanged for every other type.
func average(t value.TypeID, left, right value.Datum) (value.Datum, error) {
	switch t {
	case value.TypeInt32:
		l := left.AsInt32()
		r := right.AsInt32()
		return value.Int32((l + r) / 2), nil
	case value.TypeInt64:
		l := left.AsInt64()
		r := right.AsInt64()
		return value.Int64((l + r) / 2), nil
	case value.TypeFloat32:
		l := left.AsFloat32()
		r := right.AsFloat32()
		return value.Float32((l + r) / 2), nil
	case value.TypeFloat64:
		l := left.AsFloat64()
		r := right.AsFloat64()
		return value.Float64((l + r) / 2), nil
	case value.TypeNumeric:
		return value.AverageNumeric(left, right)
	default:
		// No averaging for types without arithmetic; the left middle
		// element stands in for the median.
		return left, nil
	}
}
