// Package outlier flags column-wise outliers in numeric matrices.
package outlier

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Policy selects the detection rule and its parameters. A nil Threshold
// uses the method default.
type Policy struct {
	Method     Method
	Threshold  []float64
	Convention calc.Convention
}

// DefaultPolicy is IQR with [1.5, 75, 25] and midpoint percentiles.
func DefaultPolicy() Policy {
	return Policy{Method: IQR}
}

// Result holds the per-entry flags and per-column cutoffs of one detection.
// Missing entries are never flagged.
type Result struct {
	IsOutlier    [][]bool
	IsAboveUpper [][]bool
	IsBelowLower [][]bool
	CutoffUpper  []float64
	CutoffLower  []float64
}

// Validate checks the method and threshold arity without touching data.
func (p Policy) Validate() error {
	_, err := p.threshold()
	return err
}

func (p Policy) threshold() ([]float64, error) {
	if p.Method.Arity() == 0 {
		return nil, apperrors.UnknownMethod("outlier method", p.Method.String())
	}

	th := p.Threshold
	if th == nil {
		th = p.Method.DefaultThreshold()
	}
	if len(th) != p.Method.Arity() {
		return nil, apperrors.InvalidThreshold("%s expects %d threshold value(s), got %d",
			p.Method, p.Method.Arity(), len(th))
	}

	for _, v := range th {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.InvalidThreshold("%s threshold must be finite, got %v", p.Method, th)
		}
	}

	var pcts []float64
	switch p.Method {
	case IQR:
		pcts = th[1:]
	case Percentile:
		pcts = th
	}
	for _, v := range pcts {
		if v < 0 || v > 100 {
			return nil, apperrors.InvalidThreshold("%s percentile %v outside [0, 100]", p.Method, v)
		}
	}

	return th, nil
}

// Cutoffs derives the upper and lower cutoff of a single column.
func (p Policy) Cutoffs(col []float64) (upper, lower float64, err error) {
	th, err := p.threshold()
	if err != nil {
		return 0, 0, err
	}
	upper, lower = cutoffs(col, p.Method, th, p.Convention)
	return upper, lower, nil
}

func cutoffs(col []float64, m Method, th []float64, c calc.Convention) (float64, float64) {
	switch m {
	case SD:
		mean, std := calc.Mean(col), calc.Std(col)
		return mean + th[0]*std, mean - th[0]*std

	case MAD:
		med, s := calc.Median(col), calc.ScaledMAD(col)
		return med + th[0]*s, med - th[0]*s

	case IQR:
		// th = [k, upperPct, lowerPct]; the spread is always P75-P25
		ps := calc.Percentiles(col, []float64{th[1], th[2], 75, 25}, c)
		iqr := ps[2] - ps[3]
		return ps[0] + th[0]*iqr, ps[1] - th[0]*iqr

	case Percentile:
		lo, hi := th[0], th[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		ps := calc.Percentiles(col, []float64{hi, lo}, c)
		return ps[0], ps[1]
	}

	return math.NaN(), math.NaN()
}

// Detect flags the outliers of every column of m under policy p.
func Detect(m mat64.Matrix, p Policy) (*Result, error) {
	rows, cols, err := calc.Check(m, "matrix")
	if err != nil {
		return nil, err
	}

	th, err := p.threshold()
	if err != nil {
		return nil, err
	}

	res := &Result{
		IsOutlier:    newMask(rows, cols),
		IsAboveUpper: newMask(rows, cols),
		IsBelowLower: newMask(rows, cols),
		CutoffUpper:  make([]float64, cols),
		CutoffLower:  make([]float64, cols),
	}

	for j := 0; j < cols; j++ {
		col := calc.Col(m, j)
		upper, lower := cutoffs(col, p.Method, th, p.Convention)
		res.CutoffUpper[j] = upper
		res.CutoffLower[j] = lower

		for i, v := range col {
			// comparisons against NaN are false, so missing entries stay unflagged
			above := v > upper
			below := v < lower
			res.IsAboveUpper[i][j] = above
			res.IsBelowLower[i][j] = below
			res.IsOutlier[i][j] = above || below
		}
	}

	return res, nil
}

func newMask(rows, cols int) [][]bool {
	backing := make([]bool, rows*cols)
	mask := make([][]bool, rows)
	for i := range mask {
		mask[i] = backing[i*cols : (i+1)*cols]
	}
	return mask
}

// Count returns the number of flagged entries per column.
func (r *Result) Count() []int {
	counts := make([]int, len(r.CutoffUpper))
	for _, row := range r.IsOutlier {
		for j, flagged := range row {
			if flagged {
				counts[j]++
			}
		}
	}
	return counts
}

// Winsorize returns a copy of m with every flagged entry clamped to the
// cutoff it crossed. m must be the matrix r was computed from.
func (r *Result) Winsorize(m mat64.Matrix) *mat64.Dense {
	out := mat64.DenseCopyOf(m)
	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			switch {
			case r.IsAboveUpper[i][j]:
				out.Set(i, j, r.CutoffUpper[j])
			case r.IsBelowLower[i][j]:
				out.Set(i, j, r.CutoffLower[j])
			}
		}
	}
	return out
}

// Trim returns a copy of m with every flagged entry replaced by NaN.
func (r *Result) Trim(m mat64.Matrix) *mat64.Dense {
	out := mat64.DenseCopyOf(m)
	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if r.IsOutlier[i][j] {
				out.Set(i, j, math.NaN())
			}
		}
	}
	return out
}
