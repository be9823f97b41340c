// Package scale standardizes matrix columns.
package scale

import (
	"math"
	"strings"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Method is a column transform.
type Method int

const (
	None Method = iota
	// Rescale maps the column onto [0, 1].
	Rescale
	// MeanCenter subtracts the column mean.
	MeanCenter
	// StdUnit subtracts the mean and divides by the sample standard deviation.
	StdUnit
)

var methodNames = map[Method]string{
	None:       "none",
	Rescale:    "rescale",
	MeanCenter: "mean_center",
	StdUnit:    "std_unit",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMethod accepts the names above case-insensitively, with "-" and "_"
// interchangeable. The empty string selects StdUnit.
func ParseMethod(name string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if key == "" {
		return StdUnit, nil
	}
	for m, n := range methodNames {
		if n == key {
			return m, nil
		}
	}
	return None, apperrors.UnknownMethod("scaling method", name)
}

// Scaler transforms a single column. Implementations must not modify the
// input slice.
type Scaler interface {
	Scale(column []float64, m Method) []float64
}

// Columns is the default column scaler. Missing values stay missing and are
// ignored by the statistics. Constant columns map to zeros.
type Columns struct{}

// Scale returns a transformed copy of column.
func (Columns) Scale(column []float64, m Method) []float64 {
	out := make([]float64, len(column))
	copy(out, column)

	switch m {
	case Rescale:
		lo, hi := calc.MinMax(column)
		span := hi - lo
		floats.AddConst(-lo, out)
		if span == 0 || math.IsNaN(span) {
			zeroValid(out)
			break
		}
		floats.Scale(1/span, out)

	case MeanCenter:
		floats.AddConst(-calc.Mean(column), out)

	case StdUnit:
		mean, std := calc.Mean(column), calc.Std(column)
		floats.AddConst(-mean, out)
		if std == 0 || math.IsNaN(std) {
			zeroValid(out)
			break
		}
		floats.Scale(1/std, out)
	}

	return out
}

func zeroValid(x []float64) {
	for i, v := range x {
		if !math.IsNaN(v) {
			x[i] = 0
		}
	}
}

// Matrix applies s to every column of m and returns a new matrix.
func Matrix(s Scaler, m mat64.Matrix, method Method) *mat64.Dense {
	if method == None {
		return mat64.DenseCopyOf(m)
	}
	cols := calc.Columns(m)
	for j, col := range cols {
		cols[j] = s.Scale(col, method)
	}
	return calc.FromColumns(cols)
}
