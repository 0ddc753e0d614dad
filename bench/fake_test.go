package bench

import (
	"context"
	"errors"
	"sync"
	"time"

	"uuidbench/store"
)

// fakeStore records inserts in memory and returns scripted latencies.
type fakeStore struct {
	mu sync.Mutex

	durations  []time.Duration // cycled per insert
	failAt     int             // 1-based insert that fails; 0 = never
	failErr    error
	acquireErr error

	rows     []store.Row
	tables   []store.Table
	acquired int
	released int
}

func (f *fakeStore) Acquire(ctx context.Context) (store.Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return nil, store.Wrap("acquire", "", f.acquireErr)
	}
	f.acquired++
	return &fakeConn{f: f}, nil
}

func (f *fakeStore) Close() {}

type fakeConn struct {
	f *fakeStore
}

func (c *fakeConn) InsertRow(ctx context.Context, table store.Table, id, text string) (time.Duration, error) {
	f := c.f
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.rows) + 1
	if f.failAt > 0 && n == f.failAt {
		err := f.failErr
		if err == nil {
			err = errors.New("connection refused")
		}
		return 0, store.Wrap("insert", table, err)
	}

	d := time.Microsecond
	if len(f.durations) > 0 {
		d = f.durations[(n-1)%len(f.durations)]
	}
	f.rows = append(f.rows, store.Row{ID: id, Text: text, CreateDate: time.Now()})
	f.tables = append(f.tables, table)
	return d, nil
}

func (c *fakeConn) QueryRange(ctx context.Context, table store.Table, since time.Time, limit int) ([]store.Row, error) {
	f := c.f
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []store.Row{}
	for i, r := range f.rows {
		if len(out) >= limit {
			break
		}
		if f.tables[i] == table && !r.CreateDate.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *fakeConn) Release() {
	c.f.mu.Lock()
	c.f.released++
	c.f.mu.Unlock()
}
