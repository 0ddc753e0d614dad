// Package storetest holds the behaviour every store.Store backend must
// share, so each backend's tests can run the same checks.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uuidbench/ids"
	"uuidbench/store"
)

// Run exercises s against freshly provisioned, empty tables.
func Run(t *testing.T, s store.Store) {
	t.Helper()

	t.Run("round trip", func(t *testing.T) { roundTrip(t, s) })
	t.Run("limit and order", func(t *testing.T) { limitAndOrder(t, s) })
	t.Run("non-positive limit", func(t *testing.T) { nonPositiveLimit(t, s) })
	t.Run("duplicate id", func(t *testing.T) { duplicateID(t, s) })
	t.Run("unknown table", func(t *testing.T) { unknownTable(t, s) })
}

func acquire(t *testing.T, s store.Store) store.Conn {
	t.Helper()
	c, err := s.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c
}

func roundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := acquire(t, s)

	since := time.Now().UTC().Add(-time.Minute)
	id := ids.NewTimeOrdered()
	d, err := c.InsertRow(ctx, store.TableV7, id, "Prev row took 0 ns")
	require.NoError(t, err)
	assert.Greater(t, d, time.Duration(0))

	rows, err := c.QueryRange(ctx, store.TableV7, since, 1000)
	require.NoError(t, err)

	var found *store.Row
	for i := range rows {
		if rows[i].ID == id {
			found = &rows[i]
		}
	}
	require.NotNil(t, found, "inserted id %s not returned", id)
	assert.Equal(t, "Prev row took 0 ns", found.Text)
	assert.False(t, found.CreateDate.IsZero())
}

func limitAndOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := acquire(t, s)

	since := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 6; i++ {
		_, err := c.InsertRow(ctx, store.TableV4, ids.NewRandom(), "row")
		require.NoError(t, err)
	}

	rows, err := c.QueryRange(ctx, store.TableV4, since, 4)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreateDate.Before(rows[i-1].CreateDate),
			"row %d createdate %v before %v", i, rows[i].CreateDate, rows[i-1].CreateDate)
	}

	future, err := c.QueryRange(ctx, store.TableV4, time.Now().UTC().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.NotNil(t, future)
	assert.Empty(t, future)
}

func nonPositiveLimit(t *testing.T, s store.Store) {
	c := acquire(t, s)
	for _, limit := range []int{0, -3} {
		rows, err := c.QueryRange(context.Background(), store.TableV4, time.Unix(0, 0), limit)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}
}

func duplicateID(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := acquire(t, s)

	id := ids.NewRandom()
	_, err := c.InsertRow(ctx, store.TableV4, id, "first")
	require.NoError(t, err)

	_, err = c.InsertRow(ctx, store.TableV4, id, "second")
	require.Error(t, err)
	assert.True(t, store.IsStoreError(err), "got %T: %v", err, err)
}

func unknownTable(t *testing.T, s store.Store) {
	c := acquire(t, s)
	_, err := c.InsertRow(context.Background(), "accounts", ids.NewRandom(), "x")
	require.ErrorIs(t, err, store.ErrUnknownTable)

	_, err = c.QueryRange(context.Background(), "accounts", time.Unix(0, 0), 1)
	require.ErrorIs(t, err, store.ErrUnknownTable)
}
