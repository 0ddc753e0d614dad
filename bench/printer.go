package bench

import (
	"fmt"
	"io"
	"time"
)

func PrintStats(w io.Writer, s BenchStats) {
	fmt.Fprintf(w, "\n┌─────────────────────────────────────────┐\n")
	fmt.Fprintf(w, "│  %-39s│\n", s.Label)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Inserts:      %-25d│\n", s.Total)
	fmt.Fprintf(w, "│  Errors:       %-25d│\n", s.Errors)
	fmt.Fprintf(w, "│  Duration:     %-25s│\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "│  Rows/s:       %-25.1f│\n", s.QPS)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Latency avg:  %-25s│\n", FmtDur(s.LatencyAvg))
	fmt.Fprintf(w, "│  Latency min:  %-25s│\n", FmtDur(s.LatencyMin))
	fmt.Fprintf(w, "│  Latency max:  %-25s│\n", FmtDur(s.LatencyMax))
	fmt.Fprintf(w, "│  Latency p50:  %-25s│\n", FmtDur(s.LatencyP50))
	fmt.Fprintf(w, "│  Latency p75:  %-25s│\n", FmtDur(s.LatencyP75))
	fmt.Fprintf(w, "│  Latency p90:  %-25s│\n", FmtDur(s.LatencyP90))
	fmt.Fprintf(w, "│  Latency p95:  %-25s│\n", FmtDur(s.LatencyP95))
	fmt.Fprintf(w, "│  Latency p99:  %-25s│\n", FmtDur(s.LatencyP99))
	fmt.Fprintf(w, "└─────────────────────────────────────────┘\n")
}

// PrintComparison puts random-key and time-ordered-key stats side by side.
// Positive deltas mean v7 was slower.
func PrintComparison(w io.Writer, v4, v7 BenchStats) {
	fmt.Fprintf(w, "\n╔═════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  UUID v4 vs v7 INSERT COMPARISON                            ║\n")
	fmt.Fprintf(w, "╠═══════════════════╦════════════════╦════════════════════════╣\n")
	fmt.Fprintf(w, "║  Metric           ║  v4 (random)   ║  v7 (time-ordered)     ║\n")
	fmt.Fprintf(w, "╠═══════════════════╬════════════════╬════════════════════════╣\n")
	fmt.Fprintf(w, "║  Rows/s           ║  %-13.1f ║  %-21.1f ║\n", v4.QPS, v7.QPS)
	fmt.Fprintf(w, "║  Latency avg      ║  %-13s ║  %-21s ║\n", FmtDur(v4.LatencyAvg), FmtDur(v7.LatencyAvg))
	fmt.Fprintf(w, "║  Latency p50      ║  %-13s ║  %-21s ║\n", FmtDur(v4.LatencyP50), FmtDur(v7.LatencyP50))
	fmt.Fprintf(w, "║  Latency p95      ║  %-13s ║  %-21s ║\n", FmtDur(v4.LatencyP95), FmtDur(v7.LatencyP95))
	fmt.Fprintf(w, "║  Latency p99      ║  %-13s ║  %-21s ║\n", FmtDur(v4.LatencyP99), FmtDur(v7.LatencyP99))
	fmt.Fprintf(w, "╠═══════════════════╩════════════════╩════════════════════════╣\n")
	delta := v7.LatencyAvg - v4.LatencyAvg
	fmt.Fprintf(w, "║  v7 - v4 (avg):   %-41s ║\n", fmt.Sprintf("%s (%+.1f%%)", fmtSigned(delta), pctChange(v4.LatencyAvg, v7.LatencyAvg)))
	fmt.Fprintf(w, "║  v7 - v4 (p99):   %-41s ║\n", fmt.Sprintf("%s (%+.1f%%)", fmtSigned(v7.LatencyP99-v4.LatencyP99), pctChange(v4.LatencyP99, v7.LatencyP99)))
	fmt.Fprintf(w, "╚═════════════════════════════════════════════════════════════╝\n")
}

func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	if us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	return fmt.Sprintf("%.2fms", us/1000)
}

func fmtSigned(d time.Duration) string {
	if d < 0 {
		return "-" + FmtDur(-d)
	}
	return "+" + FmtDur(d)
}

func pctChange(base, v time.Duration) float64 {
	if base == 0 {
		return 0
	}
	return float64(v-base) / float64(base) * 100
}
