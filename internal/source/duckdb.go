package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// DuckDBSource streams the first column of a query result as values.
// SQL NULLs are skipped. The path may be a database file or empty for an
// in-memory database (useful with read_parquet / read_csv table functions).
type DuckDBSource struct {
	db   *sql.DB
	rows *sql.Rows
	t    value.TypeID
}

// NewDuckDB opens a DuckDB database and runs the query.
func NewDuckDB(ctx context.Context, path, query string, t value.TypeID) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("query: %w", err)
	}

	return &DuckDBSource{db: db, rows: rows, t: t}, nil
}

// Next returns the next non-NULL value or io.EOF.
func (s *DuckDBSource) Next(ctx context.Context) (value.Datum, error) {
	for s.rows.Next() {
		if err := ctx.Err(); err != nil {
			return value.Datum{}, err
		}

		d, null, err := s.scan()
		if err != nil {
			return value.Datum{}, fmt.Errorf("scan: %w", err)
		}
		if null {
			continue
		}
		return d, nil
	}

	if err := s.rows.Err(); err != nil {
		return value.Datum{}, err
	}
	return value.Datum{}, io.EOF
}

func (s *DuckDBSource) scan() (value.Datum, bool, error) {
	switch s.t {
	case value.TypeInt32:
		var v sql.NullInt64
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if !v.Valid {
			return value.Datum{}, true, nil
		}
		return value.Int32(int32(v.Int64)), false, nil
	case value.TypeInt64:
		var v sql.NullInt64
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if !v.Valid {
			return value.Datum{}, true, nil
		}
		return value.Int64(v.Int64), false, nil
	case value.TypeFloat32:
		var v sql.NullFloat64
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if !v.Valid {
			return value.Datum{}, true, nil
		}
		return value.Float32(float32(v.Float64)), false, nil
	case value.TypeFloat64:
		var v sql.NullFloat64
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if !v.Valid {
			return value.Datum{}, true, nil
		}
		return value.Float64(v.Float64), false, nil
	case value.TypeNumeric:
		var v sql.NullString
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if !v.Valid {
			return value.Datum{}, true, nil
		}
		d, err := value.Numeric(v.String)
		return d, false, err
	case value.TypeText:
		var v sql.NullString
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if !v.Valid {
			return value.Datum{}, true, nil
		}
		return value.Text(v.String), false, nil
	case value.TypeBytes:
		var v []byte
		if err := s.rows.Scan(&v); err != nil {
			return value.Datum{}, false, err
		}
		if v == nil {
			return value.Datum{}, true, nil
		}
		return value.Bytes(v), false, nil
	default:
		return value.Datum{}, false, fmt.Errorf("duckdb source does not support %s", s.t)
	}
}

// TypeID returns the declared type of the values.
func (s *DuckDBSource) TypeID() value.TypeID { return s.t }

// Close closes the result set and database.
func (s *DuckDBSource) Close() error {
	err := s.rows.Close()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}
