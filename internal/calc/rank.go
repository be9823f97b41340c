package calc

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TiedRank assigns 1-based ranks to the non-missing values of x, giving tied
// values the mean of the ranks they span. Missing values keep NaN.
func TiedRank(x []float64) []float64 {
	idx := make([]int, 0, len(x))
	for i, v := range x {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks := make([]float64, len(x))
	for i := range ranks {
		ranks[i] = math.NaN()
	}

	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && x[idx[end]] == x[idx[start]] {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		mid := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[idx[k]] = mid
		}
		start = end
	}

	return ranks
}

// Spearman is the rank correlation of x and y over the rows where both are
// present. It returns NaN with fewer than two complete pairs or when either
// side is constant.
func Spearman(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	rx, ry := TiedRank(xs), TiedRank(ys)
	if constant(rx) || constant(ry) {
		return math.NaN()
	}
	return stat.Correlation(rx, ry, nil)
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
