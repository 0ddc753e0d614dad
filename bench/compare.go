package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"uuidbench/ids"
	"uuidbench/store"
)

// Compare runs the v4 then the v7 benchmark with the same parameters and
// prints each strategy's stats and a side-by-side table to w. Strategies
// never run concurrently.
func Compare(ctx context.Context, w io.Writer, r *Runner, params CompareParams, cooldown time.Duration) (v4, v7 BenchStats, err error) {
	if params.Rows <= 0 {
		return v4, v7, invalidf("rows must be positive, got %d", params.Rows)
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintln(w, "  UUID v4 vs v7 Insert Benchmark")
	fmt.Fprintln(w, "═══════════════════════════════════════════")
	fmt.Fprintf(w, "  Rows per run: %d | Runs: %d\n", params.Rows, max(params.Runs, 1))

	measure := func(strategy ids.Strategy, label string) (BenchStats, error) {
		table, err := store.TableFor(strategy)
		if err != nil {
			return BenchStats{}, err
		}
		fmt.Fprintf(w, "\n── %s → %s ──\n", label, table)
		s, err := RunMultiple(w, params.Runs, cooldown, label, func(int) (BenchStats, error) {
			res, err := r.Run(ctx, table, strategy, params.Rows)
			if err != nil {
				return BenchStats{}, err
			}
			return ComputeStats(label, res.Samples, res.Total), nil
		})
		if err != nil {
			return BenchStats{}, fmt.Errorf("%s: %w", label, err)
		}
		PrintStats(w, s)
		return s, nil
	}

	if v4, err = measure(ids.StrategyRandom, "UUID v4 (random)"); err != nil {
		return v4, v7, err
	}
	if v7, err = measure(ids.StrategyTimeOrdered, "UUID v7 (time-ordered)"); err != nil {
		return v4, v7, err
	}
	PrintComparison(w, v4, v7)
	return v4, v7, nil
}
