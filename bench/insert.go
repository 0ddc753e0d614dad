package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"uuidbench/ids"
	"uuidbench/logging"
	"uuidbench/store"
)

// maxPrealloc bounds the up-front sample buffer; rowCount comes straight
// from the request path.
const maxPrealloc = 4096

// Runner executes timed insert batches. It holds no per-run state and is
// safe for concurrent use.
type Runner struct {
	store store.Store
	log   *slog.Logger
}

func NewRunner(s store.Store) *Runner {
	return &Runner{store: s, log: logging.Component("bench")}
}

// Run inserts rowCount rows into table, keyed by ids from strategy, one
// after another on a single connection. Each row's text carries the
// previous insert's latency.
//
// A failing insert stops the run and is returned as is; rows already
// written stay in the table.
func (r *Runner) Run(ctx context.Context, table store.Table, strategy ids.Strategy, rowCount int) (InsertResult, error) {
	if rowCount <= 0 {
		return InsertResult{}, invalidf("row count must be positive, got %d", rowCount)
	}
	if err := table.Validate(); err != nil {
		return InsertResult{}, invalidf("%v", err)
	}
	if err := strategy.Validate(); err != nil {
		return InsertResult{}, invalidf("%v", err)
	}

	conn, err := r.store.Acquire(ctx)
	if err != nil {
		return InsertResult{}, err
	}
	defer conn.Release()

	res := InsertResult{
		Table:    table,
		Strategy: strategy,
		Samples:  make([]QueryResult, 0, min(rowCount, maxPrealloc)),
	}

	var prev time.Duration
	for i := 0; i < rowCount; i++ {
		id := strategy.Generate()
		text := fmt.Sprintf("Prev row took %d ns", prev.Nanoseconds())

		at := time.Now()
		d, err := conn.InsertRow(ctx, table, id, text)
		if err != nil {
			r.log.Warn("insert failed, aborting run",
				"table", table, "row", i, "inserted", res.Rows, "error", err)
			return res, fmt.Errorf("row %d of %d: %w", i+1, rowCount, err)
		}

		res.Rows++
		res.Total += d
		res.Samples = append(res.Samples, QueryResult{At: at, Duration: d})
		prev = d
	}

	res.AverageMicros = AverageMicros(res.Total, res.Rows)

	stats := ComputeStats(string(table), res.Samples, res.Total)
	r.log.Info("benchmark run finished",
		"table", table,
		"strategy", strategy,
		"rows", res.Rows,
		"avg_us", res.AverageMicros,
		"p50", stats.LatencyP50,
		"p99", stats.LatencyP99,
	)
	return res, nil
}

// AverageMicros divides the summed nanoseconds by rows first, then by
// 1000, truncating at each step.
func AverageMicros(total time.Duration, rows int) int64 {
	if rows <= 0 {
		return 0
	}
	return (total.Nanoseconds() / int64(rows)) / 1000
}
