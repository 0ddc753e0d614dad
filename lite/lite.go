// Package lite runs the benchmark against an embedded SQLite file. Handy
// for local runs and the test suite; not a meaningful engine to compare.
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"uuidbench/config"
	"uuidbench/sqlstore"
	"uuidbench/store"
)

// timeLayout matches what strftime('%Y-%m-%d %H:%M:%f') produces, so range
// bounds compare correctly against stored text.
const timeLayout = "2006-01-02 15:04:05.000"

var Dialect = sqlstore.Dialect{
	Name: "sqlite",
	CreateTable: func(t store.Table) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			text TEXT,
			createdate TIMESTAMP DEFAULT (strftime('%%Y-%%m-%%d %%H:%%M:%%f', 'now'))
		)`, t)
	},
	// millisecond resolution; rowid keeps insertion order within a tick
	OrderBy: "createdate, rowid",
	BindTime: func(t time.Time) any {
		return t.UTC().Format(timeLayout)
	},
}

// Open opens (creating if needed) the database file at c.URL.
func Open(ctx context.Context, c config.DBConfig) (*sql.DB, error) {
	dsn := c.URL + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if c.MaxConns > 0 {
		db.SetMaxOpenConns(c.MaxConns)
	}

	if c.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the file and wraps it as a store.
func New(ctx context.Context, c config.DBConfig) (*sqlstore.Store, error) {
	db, err := Open(ctx, c)
	if err != nil {
		return nil, err
	}
	return sqlstore.New(db, Dialect), nil
}
