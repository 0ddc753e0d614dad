// Package store defines the narrow contract the benchmark needs from a
// relational engine: single-row inserts and a createdate range read, one
// connection per request.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uuidbench/ids"
)

var ErrUnknownTable = errors.New("unknown table")

// Table names are interpolated into SQL text, so only these two values are
// ever accepted.
type Table string

const (
	TableV4 Table = "uuidv4_table"
	TableV7 Table = "uuidv7_table"
)

// Tables lists every table the service writes to.
var Tables = []Table{TableV4, TableV7}

func (t Table) Validate() error {
	switch t {
	case TableV4, TableV7:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownTable, string(t))
}

// TableFor maps an id strategy to the table that holds its rows.
func TableFor(s ids.Strategy) (Table, error) {
	switch s {
	case ids.StrategyRandom:
		return TableV4, nil
	case ids.StrategyTimeOrdered:
		return TableV7, nil
	}
	return "", s.Validate()
}

// Row is one persisted record. CreateDate is assigned by the database.
type Row struct {
	ID         string
	Text       string
	CreateDate time.Time
}

// Store hands out connections. Implementations may pool underneath.
type Store interface {
	Acquire(ctx context.Context) (Conn, error)
	Close()
}

// Conn is a single connection held for the lifetime of one request.
type Conn interface {
	// InsertRow inserts one row and reports how long the statement took.
	InsertRow(ctx context.Context, table Table, id, text string) (time.Duration, error)
	// QueryRange returns up to limit rows with createdate >= since, oldest
	// first. limit <= 0 yields an empty slice.
	QueryRange(ctx context.Context, table Table, since time.Time, limit int) ([]Row, error)
	Release()
}

// Error is a failure reported by the database engine.
type Error struct {
	Op    string
	Table Table
	Err   error
}

func (e *Error) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the driver's own error text.
func (e *Error) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// IsStoreError reports whether err (or its chain) came from the database.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

// Wrap returns nil for a nil err, otherwise a *Error.
func Wrap(op string, table Table, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Table: table, Err: err}
}
