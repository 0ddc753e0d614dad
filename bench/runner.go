package bench

import (
	"fmt"
	"io"
	"time"
)

// RunMultiple executes runFn runs times, checks steady state and returns the
// median run. runFn receives the 0-based run index. The first error aborts.
func RunMultiple(w io.Writer, runs int, cooldown time.Duration, label string, runFn func(run int) (BenchStats, error)) (BenchStats, error) {
	if runs <= 1 {
		return runFn(0)
	}

	fmt.Fprintf(w, "\n── %d-run benchmark: %s (median reported) ──\n", runs, label)

	all := make([]BenchStats, 0, runs)
	for i := 0; i < runs; i++ {
		s, err := runFn(i)
		if err != nil {
			return BenchStats{}, fmt.Errorf("run %d/%d: %w", i+1, runs, err)
		}
		all = append(all, s)
		fmt.Fprintf(w, "  Run %d: rows/s=%.1f  p50=%s  p95=%s  avg=%s\n",
			i+1, s.QPS, FmtDur(s.LatencyP50), FmtDur(s.LatencyP95), FmtDur(s.LatencyAvg))

		if i < runs-1 && cooldown > 0 {
			time.Sleep(cooldown)
		}
	}

	steady, maxDev := SteadyState(all, 0.05)
	if steady {
		fmt.Fprintf(w, "  Steady state: passed (max deviation %.1f%%)\n", maxDev*100)
	} else {
		fmt.Fprintf(w, "  Steady state: FAILED (max deviation %.1f%% > 5%%), reporting median anyway\n", maxDev*100)
	}

	median := MedianStats(all)
	median.Label = fmt.Sprintf("%s (median of %d runs)", label, runs)
	return median, nil
}
