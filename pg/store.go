// Package pg is the PostgreSQL backend, built on a pgx connection pool.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"uuidbench/logging"
	"uuidbench/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, store.Wrap("acquire", "", err)
	}
	return &conn{c: c}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Provision creates both tables if missing. createdate uses
// clock_timestamp() so rows inserted back to back get distinct values.
func (s *Store) Provision(ctx context.Context) error {
	for _, t := range store.Tables {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			text TEXT,
			createdate TIMESTAMP DEFAULT clock_timestamp()
		)`, t)
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return store.Wrap("create table", t, err)
		}
		logging.Component("store").Debug("table ready", "dialect", "postgres", "table", t)
	}
	return nil
}

type conn struct {
	c *pgxpool.Conn
}

func (c *conn) InsertRow(ctx context.Context, table store.Table, id, text string) (time.Duration, error) {
	if err := table.Validate(); err != nil {
		return 0, err
	}
	sql := fmt.Sprintf("INSERT INTO %s (id, text) VALUES ($1, $2)", table)

	start := time.Now()
	_, err := c.c.Exec(ctx, sql, id, text)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, store.Wrap("insert", table, err)
	}
	return elapsed, nil
}

func (c *conn) QueryRange(ctx context.Context, table store.Table, since time.Time, limit int) ([]store.Row, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	out := []store.Row{}
	if limit <= 0 {
		return out, nil
	}

	sql := fmt.Sprintf("SELECT id, text, createdate FROM %s WHERE createdate >= $1 ORDER BY createdate LIMIT $2", table)
	rows, err := c.c.Query(ctx, sql, since, limit)
	if err != nil {
		return nil, store.Wrap("query", table, err)
	}
	out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Row, error) {
		var (
			r    store.Row
			text *string
		)
		if err := row.Scan(&r.ID, &text, &r.CreateDate); err != nil {
			return r, err
		}
		if text != nil {
			r.Text = *text
		}
		return r, nil
	})
	if err != nil {
		return nil, store.Wrap("query", table, err)
	}
	return out, nil
}

func (c *conn) Release() {
	c.c.Release()
}
