package bench

import (
	"time"

	"uuidbench/ids"
	"uuidbench/store"
)

// CompareParams drives the compare command.
type CompareParams struct {
	Rows int // inserts per strategy per run
	Runs int // number of runs for median (0 or 1 = single run)
}

// QueryResult is one timed operation.
type QueryResult struct {
	At       time.Time
	Duration time.Duration
	Err      error
}

// InsertResult is the outcome of one benchmark run. Samples hold every
// individual insert; only AverageMicros is reported to HTTP callers.
type InsertResult struct {
	Table         store.Table
	Strategy      ids.Strategy
	Rows          int
	Total         time.Duration
	AverageMicros int64
	Samples       []QueryResult
}

type BenchStats struct {
	Label      string
	Total      int
	Errors     int
	Duration   time.Duration
	QPS        float64
	LatencyAvg time.Duration
	LatencyMin time.Duration
	LatencyMax time.Duration
	LatencyP50 time.Duration
	LatencyP75 time.Duration
	LatencyP90 time.Duration
	LatencyP95 time.Duration
	LatencyP99 time.Duration
}
