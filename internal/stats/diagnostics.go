// Package stats summarizes archipelago runs and writes run artifacts to disk.
package stats

import (
	"gonum.org/v1/gonum/stat"
)

// IslandSummary aggregates one island's champion-fitness trace over a run.
type IslandSummary struct {
	Island int     `json:"island" csv:"island"`
	Epochs int     `json:"epochs" csv:"epochs"`
	Best   float64 `json:"best" csv:"best"`
	Mean   float64 `json:"mean" csv:"mean"`
	StdDev float64 `json:"std_dev" csv:"std_dev"`
}

// Summarize reduces per-island fitness traces to per-island summaries.
// Islands with empty traces are skipped.
func Summarize(traces [][]float64) []IslandSummary {
	out := make([]IslandSummary, 0, len(traces))
	for i, trace := range traces {
		if len(trace) == 0 {
			continue
		}
		best := trace[0]
		for _, v := range trace {
			if v < best {
				best = v
			}
		}
		summary := IslandSummary{
			Island: i,
			Epochs: len(trace),
			Best:   best,
			Mean:   stat.Mean(trace, nil),
		}
		if len(trace) > 1 {
			summary.StdDev = stat.StdDev(trace, nil)
		}
		out = append(out, summary)
	}
	return out
}

// BestOf returns the lowest fitness across all traces.
func BestOf(traces [][]float64) (float64, bool) {
	found := false
	best := 0.0
	for _, trace := range traces {
		for _, v := range trace {
			if !found || v < best {
				best = v
				found = true
			}
		}
	}
	return best, found
}
