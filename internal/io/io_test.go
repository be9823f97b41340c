package io

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

func equalWithNaN(t *testing.T, want, got mat64.Matrix) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr)
	require.Equal(t, wc, gc)
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			w, g := want.At(i, j), got.At(i, j)
			if math.IsNaN(w) {
				assert.True(t, math.IsNaN(g), "(%d, %d)", i, j)
				continue
			}
			assert.Equal(t, w, g, "(%d, %d)", i, j)
		}
	}
}

func TestDecodeCSV(t *testing.T) {
	in := `a, b, c
1, 2.5, NaN
-3,, 1e-3
# comment
4, NA, 0.1
`
	m, names, err := DecodeCSV(strings.NewReader(in), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	nan := math.NaN()
	equalWithNaN(t, mat64.NewDense(3, 3, []float64{
		1, 2.5, nan,
		-3, nan, 1e-3,
		4, nan, 0.1,
	}), m)
}

func TestDecodeCSVErrors(t *testing.T) {
	_, _, err := DecodeCSV(strings.NewReader("x\n"), true)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, _, err = DecodeCSV(strings.NewReader("1,2\n3,abc\n"), false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, _, err = DecodeCSV(strings.NewReader("1,2\n3\n"), false)
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	nan := math.NaN()
	m := mat64.NewDense(3, 2, []float64{
		0.1, nan,
		-2, 1e300,
		nan, 3,
	})
	path := filepath.Join(t.TempDir(), "m.csv")

	require.NoError(t, WriteCSV(path, m, []string{"x", "y"}))
	got, names, err := ReadCSV(path, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, names)
	equalWithNaN(t, m, got)
}

func TestNpyRoundTrip(t *testing.T) {
	m := mat64.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, math.NaN(),
	})
	path := filepath.Join(t.TempDir(), "m.npy")

	require.NoError(t, WriteNpy(path, m))
	got, err := ReadNpy(path)
	require.NoError(t, err)
	equalWithNaN(t, m, got)

	_, err = ReadNpy(filepath.Join(t.TempDir(), "missing.npy"))
	assert.Error(t, err)
}

func TestFloatsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.bin")
	want := []float64{0.5, -1, math.Inf(1), 42}

	require.NoError(t, WriteFloats(path, want))
	got, err := ReadFloats(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))
	_, err = ReadFloats(path)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDecodeLabels(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr error
	}{
		{"one per line", "0\n1\n1\n0\n", []int{0, 1, 1, 0}, nil},
		{"header and blank lines", "label\n0\n\n1\n", []int{0, 1}, nil},
		{"first csv column", "1,a\n0,b\n", []int{1, 0}, nil},
		{"float integers", "1.0\n0.0\n", []int{1, 0}, nil},
		{"fractional", "0.5\n", nil, apperrors.ErrInvalidLabels},
		{"garbage after data", "0\nx\n", nil, apperrors.ErrInvalidLabels},
		{"empty", "\n\n", nil, apperrors.ErrInvalidLabels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLabels(strings.NewReader(tt.in))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteInts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInts(&buf, "rank", []int{3, 1, 2}))
	assert.Equal(t, "rank\n3\n1\n2\n", buf.String())
}
