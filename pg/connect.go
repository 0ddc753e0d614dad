package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"uuidbench/config"
)

// Connect opens a pool against c.URL and pings it.
func Connect(ctx context.Context, c config.DBConfig) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(c)
	if err != nil {
		return nil, err
	}
	if c.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// poolConfig parses c.URL. User and Password, when set, override whatever
// the URL carries; a "postgresql:" scheme works as-is.
func poolConfig(c config.DBConfig) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if c.User != "" {
		cfg.ConnConfig.User = c.User
	}
	if c.Password != "" {
		cfg.ConnConfig.Password = c.Password
	}
	if c.MaxConns > 0 {
		cfg.MaxConns = int32(c.MaxConns)
	}
	cfg.MinConns = 1
	// createdate is a TIMESTAMP filled from clock_timestamp(); pinning the
	// session zone keeps stored values and bound ranges both in UTC.
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	if c.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = c.ConnectTimeout
	}
	return cfg, nil
}
