// Package source streams input values into an aggregation run. Sources
// yield typed datums one at a time; NULL inputs are skipped at the source
// boundary, never reaching the engine.
package source

import (
	"context"
	"io"

	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// Source is a stream of values of one declared type.
// Next returns io.EOF when the stream is drained.
type Source interface {
	Next(ctx context.Context) (value.Datum, error)
	TypeID() value.TypeID
	Close() error
}

// SliceSource serves values from memory. Used in tests and by the REPL.
type SliceSource struct {
	t      value.TypeID
	values []value.Datum
	pos    int
}

// FromSlice creates a source over the given values. The slice is not copied.
func FromSlice(t value.TypeID, values []value.Datum) *SliceSource {
	return &SliceSource{t: t, values: values}
}

// Next returns the next value or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (value.Datum, error) {
	if err := ctx.Err(); err != nil {
		return value.Datum{}, err
	}
	if s.pos >= len(s.values) {
		return value.Datum{}, io.EOF
	}
	d := s.values[s.pos]
	s.pos++
	return d, nil
}

// TypeID returns the declared type of the values.
func (s *SliceSource) TypeID() value.TypeID { return s.t }

// Close is a no-op for slice sources.
func (s *SliceSource) Close() error { return nil }
