package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"internhub/internal/database"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch: %d != %d", len(dest), len(r.vals))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i]).Elem()
		if r.vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		v := reflect.ValueOf(r.vals[i])
		if !v.Type().AssignableTo(dv.Type()) {
			return fmt.Errorf("scan type mismatch at %d: %s into %s", i, v.Type(), dv.Type())
		}
		dv.Set(v)
	}
	return nil
}

type fakeRows struct {
	rows []fakeRow
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}
func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.i-1].Scan(dest...) }

type execCall struct {
	query string
	args  []any
}

// fakeDB answers by matching a lower-cased query prefix.
type fakeDB struct {
	mu sync.Mutex

	execErr   error
	execRows  int64
	execs     []execCall
	queryRows map[string][]fakeRow
	rowByPfx  map[string]fakeRow
	committed bool
}

func (db *fakeDB) Ping(context.Context) error { return nil }
func (db *fakeDB) Close() error               { return nil }
func (db *fakeDB) SQLDB() *sql.DB             { return nil }

func (db *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.execs = append(db.execs, execCall{query: query, args: args})
	if db.execErr != nil {
		return 0, db.execErr
	}
	return db.execRows, nil
}

func (db *fakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	for pfx, rows := range db.queryRows {
		if strings.Contains(q, pfx) {
			return &fakeRows{rows: rows}, nil
		}
	}
	return &fakeRows{}, nil
}

func (db *fakeDB) QueryRow(_ context.Context, query string, _ ...any) database.Row {
	q := strings.ToLower(strings.TrimSpace(query))
	for pfx, row := range db.rowByPfx {
		if strings.Contains(q, pfx) {
			return row
		}
	}
	return fakeRow{err: sql.ErrNoRows}
}

func (db *fakeDB) Begin(context.Context) (database.Tx, error) {
	return fakeTx{db: db}, nil
}

type fakeTx struct {
	db *fakeDB
}

func (t fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return t.db.Exec(ctx, query, args...)
}
func (t fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, query, args...)
}
func (t fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRow(ctx, query, args...)
}
func (t fakeTx) Commit(context.Context) error {
	t.db.mu.Lock()
	t.db.committed = true
	t.db.mu.Unlock()
	return nil
}
func (t fakeTx) Rollback(context.Context) error { return nil }
