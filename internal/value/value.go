package value

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// TypeID identifies the declared type of a datum. It is the identifier
// carried in serialized state and used to resolve comparison support.
type TypeID uint32

const (
	// TypeInvalid is the zero TypeID and never resolves.
	TypeInvalid TypeID = iota
	// TypeInt32 is a 32-bit signed integer, fixed-width.
	TypeInt32
	// TypeInt64 is a 64-bit signed integer, fixed-width.
	TypeInt64
	// TypeFloat32 is a 32-bit IEEE 754 float, fixed-width.
	TypeFloat32
	// TypeFloat64 is a 64-bit IEEE 754 float, fixed-width.
	TypeFloat64
	// TypeNumeric is an arbitrary-precision decimal, variable-width.
	TypeNumeric
	// TypeBytes is an opaque byte string, variable-width.
	TypeBytes
	// TypeText is a UTF-8 string, variable-width.
	TypeText
)

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	switch t {
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeNumeric:
		return "numeric"
	case TypeBytes:
		return "bytes"
	case TypeText:
		return "text"
	default:
		return fmt.Sprintf("type(%d)", uint32(t))
	}
}

// ParseTypeID converts a type name (as used in configuration) into a TypeID.
func ParseTypeID(s string) (TypeID, error) {
	switch s {
	case "int32":
		return TypeInt32, nil
	case "int64", "int":
		return TypeInt64, nil
	case "float32":
		return TypeFloat32, nil
	case "float64", "float":
		return TypeFloat64, nil
	case "numeric", "decimal":
		return TypeNumeric, nil
	case "bytes":
		return TypeBytes, nil
	case "text", "string":
		return TypeText, nil
	default:
		return TypeInvalid, fmt.Errorf("unknown type name %q", s)
	}
}

// WidthVariable marks a layout whose byte length is carried per value.
const WidthVariable = -1

// Layout describes how values of a type are represented: fixed-width values
// are copied inline as a machine word, variable-width values own a byte
// payload with an explicit length.
type Layout struct {
	FixedWidth bool
	Width      int // bytes for fixed-width types, WidthVariable otherwise
}

// LayoutFor returns the representation layout for a type.
// The second result is false for types this package does not know.
func LayoutFor(t TypeID) (Layout, bool) {
	switch t {
	case TypeInt32, TypeFloat32:
		return Layout{FixedWidth: true, Width: 4}, true
	case TypeInt64, TypeFloat64:
		return Layout{FixedWidth: true, Width: 8}, true
	case TypeNumeric, TypeBytes, TypeText:
		return Layout{FixedWidth: false, Width: WidthVariable}, true
	default:
		return Layout{}, false
	}
}

// Datum is one opaque value. Fixed-width types live entirely in the word;
// variable-width types own the payload slice and leave the word zero.
type Datum struct {
	word    uint64
	payload []byte
}

// Int32 wraps a 32-bit integer as a datum.
func Int32(v int32) Datum {
	return Datum{word: uint64(uint32(v))}
}

// Int64 wraps a 64-bit integer as a datum.
func Int64(v int64) Datum {
	return Datum{word: uint64(v)}
}

// Float32 wraps a 32-bit float as a datum.
func Float32(v float32) Datum {
	return Datum{word: uint64(math.Float32bits(v))}
}

// Float64 wraps a 64-bit float as a datum.
func Float64(v float64) Datum {
	return Datum{word: math.Float64bits(v)}
}

// Bytes wraps a byte string as a datum. The bytes are copied.
func Bytes(b []byte) Datum {
	p := make([]byte, len(b))
	copy(p, b)
	return Datum{payload: p}
}

// Text wraps a string as a datum.
func Text(s string) Datum {
	return Datum{payload: []byte(s)}
}

// FromWord builds a fixed-width datum directly from its raw word.
// Used when reconstructing values from serialized state.
func FromWord(w uint64) Datum {
	return Datum{word: w}
}

// FromPayload builds a variable-width datum taking ownership of p.
func FromPayload(p []byte) Datum {
	return Datum{payload: p}
}

// AsInt32 returns the datum as a 32-bit integer.
func (d Datum) AsInt32() int32 { return int32(uint32(d.word)) }

// AsInt64 returns the datum as a 64-bit integer.
func (d Datum) AsInt64() int64 { return int64(d.word) }

// AsFloat32 returns the datum as a 32-bit float.
func (d Datum) AsFloat32() float32 { return math.Float32frombits(uint32(d.word)) }

// AsFloat64 returns the datum as a 64-bit float.
func (d Datum) AsFloat64() float64 { return math.Float64frombits(d.word) }

// Word returns the raw machine word of a fixed-width datum.
func (d Datum) Word() uint64 { return d.word }

// Payload returns the owned byte payload of a variable-width datum.
// The caller must not modify the returned slice.
func (d Datum) Payload() []byte { return d.payload }

// Equal reports raw-representation equality under the given layout:
// word comparison for fixed-width types, byte comparison for variable-width.
// This is deliberately not the same relation as a Comparator's ordering.
func Equal(a, b Datum, layout Layout) bool {
	if layout.FixedWidth {
		return a.word == b.word
	}
	return bytes.Equal(a.payload, b.payload)
}

// Format renders a datum for display under its declared type.
func Format(t TypeID, d Datum) string {
	switch t {
	case TypeInt32:
		return strconv.FormatInt(int64(d.AsInt32()), 10)
	case TypeInt64:
		return strconv.FormatInt(d.AsInt64(), 10)
	case TypeFloat32:
		return strconv.FormatFloat(float64(d.AsFloat32()), 'g', -1, 32)
	case TypeFloat64:
		return strconv.FormatFloat(d.AsFloat64(), 'g', -1, 64)
	case TypeNumeric, TypeText:
		return string(d.payload)
	case TypeBytes:
		return fmt.Sprintf("%x", d.payload)
	default:
		return fmt.Sprintf("datum(%#x)", d.word)
	}
}

// Parse converts a textual value into a datum of the given type.
// Used by the REPL and by sources that carry values as text.
func Parse(t TypeID, s string) (Datum, error) {
	switch t {
	case TypeInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Datum{}, fmt.Errorf("parse int32 %q: %w", s, err)
		}
		return Int32(int32(v)), nil
	case TypeInt64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Datum{}, fmt.Errorf("parse int64 %q: %w", s, err)
		}
		return Int64(v), nil
	case TypeFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Datum{}, fmt.Errorf("parse float32 %q: %w", s, err)
		}
		return Float32(float32(v)), nil
	case TypeFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Datum{}, fmt.Errorf("parse float64 %q: %w", s, err)
		}
		return Float64(v), nil
	case TypeNumeric:
		return Numeric(s)
	case TypeBytes:
		return Bytes([]byte(s)), nil
	case TypeText:
		return Text(s), nil
	default:
		return Datum{}, fmt.Errorf("cannot parse value of %s", t)
	}
}
