package main

import (
	"context"
	"fmt"

	"uuidbench/config"
	"uuidbench/lite"
	"uuidbench/logging"
	"uuidbench/my"
	"uuidbench/pg"
	"uuidbench/store"
)

// backend is a Store that can also create its own tables.
type backend interface {
	store.Store
	Provision(ctx context.Context) error
}

func openBackend(ctx context.Context, c config.DBConfig) (backend, error) {
	b, err := dial(ctx, c)
	if err != nil {
		return nil, err
	}
	logging.Component("store").Info("connected", "driver", c.Driver, "max_conns", c.MaxConns)
	return b, nil
}

func dial(ctx context.Context, c config.DBConfig) (backend, error) {
	switch c.Driver {
	case config.DriverPostgres:
		pool, err := pg.Connect(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return pg.New(pool), nil
	case config.DriverMySQL:
		s, err := my.New(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return s, nil
	case config.DriverSQLite:
		s, err := lite.New(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", c.Driver)
}
