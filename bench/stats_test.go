package bench

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(ds ...time.Duration) []QueryResult {
	out := make([]QueryResult, len(ds))
	for i, d := range ds {
		out[i] = QueryResult{Duration: d}
	}
	return out
}

func TestComputeStats(t *testing.T) {
	var ds []time.Duration
	for i := 100; i >= 1; i-- {
		ds = append(ds, time.Duration(i)*time.Millisecond)
	}
	rs := results(ds...)
	rs = append(rs, QueryResult{Err: errors.New("boom")})

	s := ComputeStats("v4", rs, 10*time.Second)
	assert.Equal(t, "v4", s.Label)
	assert.Equal(t, 101, s.Total)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, time.Millisecond, s.LatencyMin)
	assert.Equal(t, 100*time.Millisecond, s.LatencyMax)
	assert.Equal(t, 50*time.Millisecond, s.LatencyP50)
	assert.Equal(t, 95*time.Millisecond, s.LatencyP95)
	assert.Equal(t, 99*time.Millisecond, s.LatencyP99)
	assert.Equal(t, 50500*time.Microsecond, s.LatencyAvg)
	assert.InDelta(t, 10.0, s.QPS, 0.001)
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats("none", nil, 0)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.LatencyP99)
	assert.Zero(t, s.QPS)
}

func TestMedianStats(t *testing.T) {
	runs := []BenchStats{
		{Label: "a", LatencyP50: 30},
		{Label: "b", LatencyP50: 10},
		{Label: "c", LatencyP50: 20},
	}
	assert.Equal(t, "c", MedianStats(runs).Label)
	assert.Equal(t, "a", runs[0].Label, "input left untouched")
	assert.Equal(t, BenchStats{}, MedianStats(nil))
}

func TestSteadyState(t *testing.T) {
	ok, dev := SteadyState([]BenchStats{{QPS: 100}, {QPS: 102}, {QPS: 98}}, 0.05)
	assert.True(t, ok)
	assert.InDelta(t, 0.02, dev, 1e-9)

	ok, _ = SteadyState([]BenchStats{{QPS: 100}, {QPS: 150}}, 0.05)
	assert.False(t, ok)

	ok, _ = SteadyState([]BenchStats{{QPS: 1}}, 0.05)
	assert.True(t, ok)
}

func TestFmtDur(t *testing.T) {
	assert.Equal(t, "850µs", FmtDur(850*time.Microsecond))
	assert.Equal(t, "1.50ms", FmtDur(1500*time.Microsecond))
}

func TestRunMultiple(t *testing.T) {
	var buf bytes.Buffer
	p50s := []time.Duration{3, 1, 2}
	s, err := RunMultiple(&buf, 3, 0, "v7", func(run int) (BenchStats, error) {
		return BenchStats{QPS: 100, LatencyP50: p50s[run]}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(2), s.LatencyP50)
	assert.Equal(t, "v7 (median of 3 runs)", s.Label)
	assert.Contains(t, buf.String(), "Steady state: passed")

	_, err = RunMultiple(&buf, 2, 0, "v7", func(run int) (BenchStats, error) {
		return BenchStats{}, errors.New("db down")
	})
	require.EqualError(t, err, "run 1/2: db down")
}

func TestCompare(t *testing.T) {
	f := &fakeStore{durations: []time.Duration{time.Millisecond, 2 * time.Millisecond}}
	var buf bytes.Buffer

	v4, v7, err := Compare(context.Background(), &buf, NewRunner(f), CompareParams{Rows: 10, Runs: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, v4.Total)
	assert.Equal(t, 10, v7.Total)
	assert.Len(t, f.rows, 40)

	out := buf.String()
	assert.Contains(t, out, "UUID v4 vs v7 INSERT COMPARISON")
	assert.Contains(t, out, "uuidv4_table")
	assert.Contains(t, out, "uuidv7_table")

	_, _, err = Compare(context.Background(), &buf, NewRunner(f), CompareParams{Rows: 0}, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
