package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uuidbench/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProvisionThenCompare_SQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := run(t, "provision", "--db-driver", "sqlite", "--db-url", db, "--log-level", "error")
	require.NoError(t, err)

	out, err := run(t, "compare", "--db-driver", "sqlite", "--db-url", db, "--log-level", "error",
		"--rows", "20", "--runs", "1", "--cooldown", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "UUID v4 vs v7 Insert Benchmark")
	assert.Contains(t, out, "uuidv4_table")
	assert.Contains(t, out, "uuidv7_table")
}

func TestCompare_RejectsZeroRows(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := run(t, "compare", "--db-driver", "sqlite", "--db-url", db, "--log-level", "error", "--rows", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows must be positive")
}

func TestServe_InvalidConfig(t *testing.T) {
	_, err := run(t, "serve", "--db-driver", "oracle", "--db-url", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported driver "oracle"`)
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	s, err := openBackend(ctx, config.DBConfig{
		Driver:   config.DriverSQLite,
		URL:      filepath.Join(t.TempDir(), "b.db"),
		MaxConns: 2,
	})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Provision(ctx))

	_, err = openBackend(ctx, config.DBConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported driver")
}
