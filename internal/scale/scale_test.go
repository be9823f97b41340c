package scale

import (
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"", StdUnit},
		{"std_unit", StdUnit},
		{"STD-UNIT", StdUnit},
		{"rescale", Rescale},
		{"Mean-Center", MeanCenter},
		{"none", None},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMethod("zscore")
	assert.ErrorIs(t, err, apperrors.ErrUnknownMethod)
}

func TestColumnsScale(t *testing.T) {
	nan := math.NaN()
	col := []float64{2, 4, nan, 6, 8}

	tests := []struct {
		method Method
		want   []float64
	}{
		{None, []float64{2, 4, nan, 6, 8}},
		{Rescale, []float64{0, 1.0 / 3, nan, 2.0 / 3, 1}},
		{MeanCenter, []float64{-3, -1, nan, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			got := Columns{}.Scale(col, tt.method)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				if math.IsNaN(tt.want[i]) {
					assert.True(t, math.IsNaN(got[i]))
					continue
				}
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}

	assert.Equal(t, 8.0, col[4], "input must not change")
}

func TestStdUnit(t *testing.T) {
	got := Columns{}.Scale([]float64{1, 2, 3, 4, 5, math.NaN()}, StdUnit)

	assert.InDelta(t, 0, calc.Mean(got), 1e-12)
	assert.InDelta(t, 1, calc.Std(got), 1e-12)
	assert.True(t, math.IsNaN(got[5]))
}

func TestConstantColumnMapsToZero(t *testing.T) {
	for _, m := range []Method{Rescale, StdUnit} {
		got := Columns{}.Scale([]float64{7, 7, math.NaN(), 7}, m)
		assert.Equal(t, 0.0, got[0], m.String())
		assert.Equal(t, 0.0, got[3], m.String())
		assert.True(t, math.IsNaN(got[2]), m.String())
	}
}

func TestMatrix(t *testing.T) {
	m := mat64.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	orig := mat64.DenseCopyOf(m)

	out := Matrix(Columns{}, m, Rescale)
	assert.True(t, mat64.EqualApprox(out, mat64.NewDense(3, 2, []float64{
		0, 0,
		0.5, 0.5,
		1, 1,
	}), 1e-12))
	assert.True(t, mat64.Equal(orig, m))

	same := Matrix(Columns{}, m, None)
	assert.True(t, mat64.Equal(same, m))
	same.Set(0, 0, 99)
	assert.Equal(t, 1.0, m.At(0, 0))
}
