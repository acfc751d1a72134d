// Package stats provides the statistical helpers used by report
// summaries.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0..1) of values. The input is
// copied and sorted; an empty slice yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Mean returns the arithmetic mean of values, 0 when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
