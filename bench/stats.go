package bench

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// ComputeStats aggregates results into latency percentiles. Failed
// operations are counted but excluded from the latency figures; elapsed
// is the wall time QPS is measured against.
func ComputeStats(label string, results []QueryResult, elapsed time.Duration) BenchStats {
	stats := BenchStats{Label: label, Total: len(results), Duration: elapsed}

	durations := make([]time.Duration, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			stats.Errors++
			continue
		}
		durations = append(durations, r.Duration)
	}
	if len(durations) == 0 {
		return stats
	}
	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	stats.LatencyAvg = sum / time.Duration(len(durations))
	stats.LatencyMin = durations[0]
	stats.LatencyMax = durations[len(durations)-1]
	stats.LatencyP50 = percentile(durations, 50)
	stats.LatencyP75 = percentile(durations, 75)
	stats.LatencyP90 = percentile(durations, 90)
	stats.LatencyP95 = percentile(durations, 95)
	stats.LatencyP99 = percentile(durations, 99)
	if elapsed > 0 {
		stats.QPS = float64(len(durations)) / elapsed.Seconds()
	}
	return stats
}

// MedianStats picks the run with the median p50 latency. runs is not
// modified.
func MedianStats(runs []BenchStats) BenchStats {
	if len(runs) == 0 {
		return BenchStats{}
	}
	sorted := slices.Clone(runs)
	slices.SortStableFunc(sorted, func(a, b BenchStats) int {
		return cmp.Compare(a.LatencyP50, b.LatencyP50)
	})
	return sorted[len(sorted)/2]
}

// SteadyState reports whether every run's QPS lies within tolerance
// (a fraction, e.g. 0.05) of the mean, plus the largest deviation seen.
func SteadyState(runs []BenchStats, tolerance float64) (bool, float64) {
	if len(runs) < 2 {
		return true, 0
	}
	var sum float64
	for _, r := range runs {
		sum += r.QPS
	}
	mean := sum / float64(len(runs))
	if mean == 0 {
		return false, 0
	}

	var maxDev float64
	for _, r := range runs {
		if dev := math.Abs(r.QPS-mean) / mean; dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev <= tolerance, maxDev
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}
