package calc

import (
	"math"
	"sort"
)

// Convention selects how sample percentiles are interpolated.
type Convention int

const (
	// Midpoint places the i-th of n sorted values at quantile (i-0.5)/n and
	// interpolates linearly between neighbours. Requests below the first or
	// above the last position clamp to the minimum or maximum.
	Midpoint Convention = iota
	// Linear places the i-th of n sorted values at quantile (i-1)/(n-1).
	Linear
)

func (c Convention) String() string {
	switch c {
	case Midpoint:
		return "midpoint"
	case Linear:
		return "linear"
	}
	return "unknown"
}

func sortedValid(x []float64) []float64 {
	v := OmitNaN(x)
	sort.Float64s(v)
	return v
}

// Percentile returns the p-th percentile (0 <= p <= 100) of the non-missing
// values of x. It returns NaN when x has no values.
func Percentile(x []float64, p float64, c Convention) float64 {
	return percentileSorted(sortedValid(x), p, c)
}

// Percentiles evaluates several percentiles with a single sort.
func Percentiles(x []float64, ps []float64, c Convention) []float64 {
	v := sortedValid(x)
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = percentileSorted(v, p, c)
	}
	return out
}

func percentileSorted(v []float64, p float64, c Convention) float64 {
	n := len(v)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if n == 1 {
		return v[0]
	}

	q := p / 100

	var pos float64 // 0-based fractional index into v
	switch c {
	case Linear:
		pos = q * float64(n-1)
	default:
		pos = q*float64(n) - 0.5
	}

	if pos <= 0 {
		return v[0]
	}
	if pos >= float64(n-1) {
		return v[n-1]
	}

	lower := int(math.Floor(pos))
	frac := pos - float64(lower)
	if frac == 0 {
		return v[lower]
	}
	return v[lower] + frac*(v[lower+1]-v[lower])
}
