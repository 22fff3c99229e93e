package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/AntonStoeckl/item-booking-go/booking/postgresengine/internal/adapters"
)

// fakeAdapter records the executed SQL and replays canned rows, results and errors.
type fakeAdapter struct {
	queries      []string
	execs        []string
	rows         [][]any
	queryErr     error
	execErr      error
	rowsAffected int64
	affectedErr  error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{rowsAffected: 1}
}

func (f *fakeAdapter) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.queries = append(f.queries, query)

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{rows: f.rows, cursor: -1}, nil
}

func (f *fakeAdapter) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.execs = append(f.execs, query)

	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeResult{rowsAffected: f.rowsAffected, err: f.affectedErr}, nil
}

type fakeRows struct {
	rows   [][]any
	cursor int
}

func (r *fakeRows) Next() bool {
	r.cursor++
	return r.cursor < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.cursor]
	if len(row) != len(dest) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}

	for i, value := range row {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer || target.Elem().Type() != reflect.TypeOf(value) {
			return errors.New("scan destination type mismatch")
		}

		target.Elem().Set(reflect.ValueOf(value))
	}

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	return nil
}

type fakeResult struct {
	rowsAffected int64
	err          error
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}
