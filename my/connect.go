// Package my is the MySQL backend: go-sql-driver/mysql behind sqlstore.
package my

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"uuidbench/config"
	"uuidbench/sqlstore"
	"uuidbench/store"
)

var Dialect = sqlstore.Dialect{
	Name: "mysql",
	// TEXT can't be a primary key in MySQL without a prefix length, so id
	// is a fixed 36-char column.
	CreateTable: func(t store.Table) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id CHAR(36) PRIMARY KEY,
			text TEXT,
			createdate DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6),
			INDEX idx_%s_createdate (createdate)
		)`, t, t)
	},
	BindTime: func(t time.Time) any { return t.UTC() },
}

// DSN turns c into a driver config. c.URL is either a native DSN
// ("user:pw@tcp(host:3306)/db") or a URL ("mysql://host:3306/db").
func DSN(c config.DBConfig) (*mysql.Config, error) {
	var (
		mc  *mysql.Config
		err error
	)
	if strings.HasPrefix(c.URL, "mysql://") {
		mc, err = fromURL(c.URL)
	} else {
		mc, err = mysql.ParseDSN(c.URL)
	}
	if err != nil {
		return nil, fmt.Errorf("parse mysql url: %w", err)
	}

	if c.User != "" {
		mc.User = c.User
	}
	if c.Password != "" {
		mc.Passwd = c.Password
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.InterpolateParams = true
	if mc.Params == nil {
		mc.Params = map[string]string{}
	}
	mc.Params["time_zone"] = "'+00:00'"
	if c.ConnectTimeout > 0 {
		mc.Timeout = c.ConnectTimeout
	}
	return mc, nil
}

func fromURL(raw string) (*mysql.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	if u.Port() == "" {
		mc.Addr = u.Host + ":3306"
	}
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	return mc, nil
}

func Connect(ctx context.Context, c config.DBConfig) (*sql.DB, error) {
	mc, err := DSN(c)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	maxConns := c.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

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

// New connects and wraps the handle as a store.
func New(ctx context.Context, c config.DBConfig) (*sqlstore.Store, error) {
	db, err := Connect(ctx, c)
	if err != nil {
		return nil, err
	}
	return sqlstore.New(db, Dialect), nil
}
