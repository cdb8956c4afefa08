// Package stats keeps running summary statistics without storing samples.
package stats

import "math"

// Running holds a count, mean and spread updated one observation at a time
// with Welford's online algorithm.
type Running struct {
	Count int
	Mean  float64
	M2    float64 // sum of squared differences from the mean
	Min   float64
	Max   float64
}

// Add records one observation.
func (r *Running) Add(x float64) {
	r.Count++
	if r.Count == 1 {
		r.Min, r.Max = x, x
	} else {
		r.Min = math.Min(r.Min, x)
		r.Max = math.Max(r.Max, x)
	}
	delta := x - r.Mean
	r.Mean += delta / float64(r.Count)
	r.M2 += delta * (x - r.Mean)
}

// StdDev returns the population standard deviation, or 0 with fewer than two
// observations.
func (r *Running) StdDev() float64 {
	if r.Count < 2 {
		return 0
	}
	return math.Sqrt(r.M2 / float64(r.Count))
}
