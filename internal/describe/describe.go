// Package describe computes per-column summary statistics, omitting
// missing values.
package describe

import (
	"context"
	"math"

	"github.com/gonum/matrix/mat64"
	"gonum.org/v1/gonum/stat"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Summary describes one column. Statistics that need more values than
// are present are NaN.
type Summary struct {
	Feature  int
	N        int
	Missing  int
	Mean     float64
	Std      float64
	Min      float64
	P25      float64
	Median   float64
	P75      float64
	Max      float64
	Skew     float64
	Kurtosis float64 // excess
}

// Options control how columns are summarised.
type Options struct {
	Convention calc.Convention
	Workers    int
}

// Column summarises a single column.
func Column(x []float64, c calc.Convention) Summary {
	valid := calc.OmitNaN(x)
	s := Summary{
		N:        len(valid),
		Missing:  len(x) - len(valid),
		Mean:     calc.Mean(valid),
		Std:      calc.Std(valid),
		Skew:     math.NaN(),
		Kurtosis: math.NaN(),
	}
	s.Min, s.Max = calc.MinMax(valid)
	q := calc.Percentiles(valid, []float64{25, 50, 75}, c)
	s.P25, s.Median, s.P75 = q[0], q[1], q[2]

	if s.N >= 3 && s.Std > 0 {
		s.Skew = stat.Skew(valid, nil)
	}
	if s.N >= 4 && s.Std > 0 {
		s.Kurtosis = stat.ExKurtosis(valid, nil)
	}
	return s
}

// Columns summarises every column of m on a worker pool.
func Columns(ctx context.Context, m mat64.Matrix, opts Options) ([]Summary, error) {
	if _, _, err := calc.Check(m, "matrix"); err != nil {
		return nil, err
	}
	return summarise(ctx, calc.Columns(m), opts)
}

// ByClass summarises every column separately for the samples labelled 0
// and the samples labelled 1.
func ByClass(ctx context.Context, m mat64.Matrix, labels []int, opts Options) (class0, class1 []Summary, err error) {
	rows, _, err := calc.Check(m, "matrix")
	if err != nil {
		return nil, nil, err
	}
	if len(labels) != rows {
		return nil, nil, apperrors.InvalidLabels("expected %d labels, got %d", rows, len(labels))
	}

	x := calc.Columns(m)
	c0 := make([][]float64, len(x))
	c1 := make([][]float64, len(x))
	for j, col := range x {
		c0[j], c1[j] = calc.Split(col, labels)
	}

	if class0, err = summarise(ctx, c0, opts); err != nil {
		return nil, nil, err
	}
	if class1, err = summarise(ctx, c1, opts); err != nil {
		return nil, nil, err
	}
	return class0, class1, nil
}

func summarise(ctx context.Context, x [][]float64, opts Options) ([]Summary, error) {
	out := make([]Summary, len(x))
	err := calc.NewPool(opts.Workers).Run(ctx, len(x), func(j int) {
		out[j] = Column(x[j], opts.Convention)
		out[j].Feature = j
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
