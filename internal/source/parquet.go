package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// readBatch is how many rows are pulled from the Parquet reader at a time.
const readBatch = 1024

// numberRow is the row shape for float columns.
type numberRow struct {
	Value float64 `parquet:"value"`
}

// integerRow is the row shape for integer columns.
type integerRow struct {
	Value int64 `parquet:"value"`
}

// ParquetSource streams a "value" column out of a Parquet file.
// Integer and float types are supported; narrower widths are truncated from
// the column's 64-bit representation.
type ParquetSource struct {
	file *os.File
	path string
	t    value.TypeID

	floats *parquet.GenericReader[numberRow]
	ints   *parquet.GenericReader[integerRow]

	buf []value.Datum
	pos int
	eof bool
}

// NewParquet opens a Parquet file as a source of values of type t.
func NewParquet(path string, t value.TypeID) (*ParquetSource, error) {
	switch t {
	case value.TypeInt32, value.TypeInt64, value.TypeFloat32, value.TypeFloat64:
	default:
		return nil, fmt.Errorf("parquet source does not support %s", t)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	pf, err := parquet.OpenFile(f, info.Size(), parquet.ReadBufferSize(1024*1024))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	s := &ParquetSource{file: f, path: path, t: t}
	switch t {
	case value.TypeInt32, value.TypeInt64:
		s.ints = parquet.NewGenericReader[integerRow](pf)
	default:
		s.floats = parquet.NewGenericReader[numberRow](pf)
	}
	return s, nil
}

// Next returns the next value or io.EOF.
func (s *ParquetSource) Next(ctx context.Context) (value.Datum, error) {
	if err := ctx.Err(); err != nil {
		return value.Datum{}, err
	}

	if s.pos >= len(s.buf) {
		if err := s.fill(); err != nil {
			return value.Datum{}, err
		}
	}

	d := s.buf[s.pos]
	s.pos++
	return d, nil
}

// fill reads the next batch of rows into the datum buffer.
func (s *ParquetSource) fill() error {
	if s.eof {
		return io.EOF
	}

	s.buf = s.buf[:0]
	s.pos = 0

	var n int
	var err error

	switch s.t {
	case value.TypeInt32:
		rows := make([]integerRow, readBatch)
		n, err = s.ints.Read(rows)
		for i := 0; i < n; i++ {
			s.buf = append(s.buf, value.Int32(int32(rows[i].Value)))
		}
	case value.TypeInt64:
		rows := make([]integerRow, readBatch)
		n, err = s.ints.Read(rows)
		for i := 0; i < n; i++ {
			s.buf = append(s.buf, value.Int64(rows[i].Value))
		}
	case value.TypeFloat32:
		rows := make([]numberRow, readBatch)
		n, err = s.floats.Read(rows)
		for i := 0; i < n; i++ {
			s.buf = append(s.buf, value.Float32(float32(rows[i].Value)))
		}
	case value.TypeFloat64:
		rows := make([]numberRow, readBatch)
		n, err = s.floats.Read(rows)
		for i := 0; i < n; i++ {
			s.buf = append(s.buf, value.Float64(rows[i].Value))
		}
	}

	if err == io.EOF {
		s.eof = true
		err = nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if n == 0 {
		return io.EOF
	}
	return nil
}

// TypeID returns the declared type of the values.
func (s *ParquetSource) TypeID() value.TypeID { return s.t }

// Close closes the underlying reader and file.
func (s *ParquetSource) Close() error {
	var err error
	if s.ints != nil {
		err = s.ints.Close()
	}
	if s.floats != nil {
		err = s.floats.Close()
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
