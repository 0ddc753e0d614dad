// Package sqlstore implements store.Store on top of database/sql. The MySQL
// and SQLite backends differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"uuidbench/logging"
	"uuidbench/store"
)

// Dialect holds the engine-specific bits of SQL.
type Dialect struct {
	Name string
	// CreateTable returns the DDL for one benchmark table.
	CreateTable func(t store.Table) string
	// OrderBy is appended after "ORDER BY"; it must start with createdate.
	OrderBy string
	// BindTime converts the range start into a driver argument.
	BindTime func(t time.Time) any
}

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, d Dialect) *Store {
	if d.OrderBy == "" {
		d.OrderBy = "createdate"
	}
	if d.BindTime == nil {
		d.BindTime = func(t time.Time) any { return t }
	}
	return &Store{db: db, dialect: d}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, store.Wrap("acquire", "", err)
	}
	return &conn{c: c, dialect: s.dialect}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// Provision creates both benchmark tables if they don't exist yet.
func (s *Store) Provision(ctx context.Context) error {
	for _, t := range store.Tables {
		if _, err := s.db.ExecContext(ctx, s.dialect.CreateTable(t)); err != nil {
			return store.Wrap("create table", t, err)
		}
		logging.Component("store").Debug("table ready", "dialect", s.dialect.Name, "table", t)
	}
	return nil
}

type conn struct {
	c       *sql.Conn
	dialect Dialect
}

func (c *conn) InsertRow(ctx context.Context, table store.Table, id, text string) (time.Duration, error) {
	if err := table.Validate(); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("INSERT INTO %s (id, text) VALUES (?, ?)", table)

	start := time.Now()
	_, err := c.c.ExecContext(ctx, query, id, text)
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
	rows := []store.Row{}
	if limit <= 0 {
		return rows, nil
	}

	query := fmt.Sprintf("SELECT id, text, createdate FROM %s WHERE createdate >= ? ORDER BY %s LIMIT ?",
		table, c.dialect.OrderBy)
	rs, err := c.c.QueryContext(ctx, query, c.dialect.BindTime(since), limit)
	if err != nil {
		return nil, store.Wrap("query", table, err)
	}
	defer rs.Close()

	for rs.Next() {
		var (
			r    store.Row
			text sql.NullString
		)
		if err := rs.Scan(&r.ID, &text, &r.CreateDate); err != nil {
			return nil, store.Wrap("scan", table, err)
		}
		r.Text = text.String
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		return nil, store.Wrap("query", table, err)
	}
	return rows, nil
}

func (c *conn) Release() {
	c.c.Close()
}
