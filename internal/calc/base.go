package calc

import (
	"math"

	"github.com/gonum/matrix/mat64"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Check rejects nil and empty matrices with an InvalidInput error naming
// field, and returns the dimensions otherwise.
func Check(m mat64.Matrix, field string) (rows, cols int, err error) {
	if m == nil {
		return 0, 0, apperrors.InvalidInput(field, "%s is required", field)
	}
	if d, ok := m.(*mat64.Dense); ok && d == nil {
		return 0, 0, apperrors.InvalidInput(field, "%s is required", field)
	}
	rows, cols = m.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, apperrors.InvalidInput(field, "%s is empty (%d x %d)", field, rows, cols)
	}
	return rows, cols, nil
}

// Col copies column j of m into a new slice.
func Col(m mat64.Matrix, j int) []float64 {
	return mat64.Col(nil, j, m)
}

// Columns copies every column of m.
func Columns(m mat64.Matrix) [][]float64 {
	_, c := m.Dims()
	cols := make([][]float64, c)
	for j := 0; j < c; j++ {
		cols[j] = Col(m, j)
	}
	return cols
}

// FromColumns builds a dense matrix whose j-th column is cols[j].
func FromColumns(cols [][]float64) *mat64.Dense {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return &mat64.Dense{}
	}
	out := mat64.NewDense(len(cols[0]), len(cols), nil)
	for j, col := range cols {
		out.SetCol(j, col)
	}
	return out
}

// OmitNaN returns the non-missing values of x in their original order.
func OmitNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CountNaN returns the number of missing values in x.
func CountNaN(x []float64) int {
	n := 0
	for _, v := range x {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Mean is the mean of the non-missing values; NaN when there are none.
func Mean(x []float64) float64 {
	v := OmitNaN(x)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// Variance is the sample (n-1) variance of the non-missing values. A single
// value has zero variance; no values give NaN.
func Variance(x []float64) float64 {
	v := OmitNaN(x)
	switch len(v) {
	case 0:
		return math.NaN()
	case 1:
		return 0
	}
	_, variance := stat.MeanVariance(v, nil)
	return variance
}

// Std is the sample standard deviation of the non-missing values.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// Median is the median of the non-missing values; NaN when there are none.
func Median(x []float64) float64 {
	v := sortedValid(x)
	n := len(v)
	if n == 0 {
		return math.NaN()
	}
	mid := n / 2
	if n%2 == 1 {
		return v[mid]
	}
	return 0.5 * (v[mid-1] + v[mid])
}

// MAD is the unscaled median absolute deviation from the median.
func MAD(x []float64) float64 {
	v := OmitNaN(x)
	if len(v) == 0 {
		return math.NaN()
	}
	med := Median(v)
	res := make([]float64, len(v))
	for i, val := range v {
		res[i] = math.Abs(val - med)
	}
	return Median(res)
}

// MADScale converts a MAD into a consistent estimator of the standard
// deviation under normality.
const MADScale = 1.4826

// ScaledMAD is MADScale * MAD(x).
func ScaledMAD(x []float64) float64 {
	return MADScale * MAD(x)
}

// MinMax returns the extremes of the non-missing values, or NaN, NaN.
func MinMax(x []float64) (float64, float64) {
	lo, hi := math.NaN(), math.NaN()
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Split partitions x by a two-class label vector. Entries with label 0 go to
// the first slice, all others to the second.
func Split(x []float64, labels []int) ([]float64, []float64) {
	var c0, c1 []float64
	for i, v := range x {
		if labels[i] == 0 {
			c0 = append(c0, v)
		} else {
			c1 = append(c1, v)
		}
	}
	return c0, c1
}
