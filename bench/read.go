package bench

import (
	"context"
	"time"

	"uuidbench/store"
)

// Reader serves the createdate window read.
type Reader struct {
	store store.Store
}

func NewReader(s store.Store) *Reader {
	return &Reader{store: s}
}

// Read returns at most limit rows of table created at or after
// sinceSeconds (Unix seconds), oldest first. No rows is not an error.
func (r *Reader) Read(ctx context.Context, table store.Table, sinceSeconds int64, limit int) ([]store.Row, error) {
	if err := table.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	conn, err := r.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.QueryRange(ctx, table, time.Unix(sinceSeconds, 0).UTC(), limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.Row{}
	}
	return rows, nil
}
