// Package statutil holds order statistics shared by the color samplers.
package statutil

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks at position (n-1)*p/100. Values are not
// reordered. Empty input yields 0 rather than NaN.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return PercentileSorted(sorted, p)
}

// PercentileSorted is Percentile for input already in ascending order.
func PercentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	p = min(max(p, 0), 100)
	h := float64(n-1) * p / 100
	lo := math.Floor(h)
	hi := math.Ceil(h)
	x0, x1 := sorted[int(lo)], sorted[int(hi)]
	return x0 + (h-lo)*(x1-x0)
}

// Median is the 50th percentile; even-length input averages the middle pair.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}
