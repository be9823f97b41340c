package io

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
	"github.com/kshedden/gonpy"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// WriteNpy writes matrix to a NumPy v2 .npy file in row-major order.
func WriteNpy(path string, matrix mat64.Matrix) error {
	rows, cols := matrix.Dims()
	rawMat := mat64.DenseCopyOf(matrix).RawMatrix()

	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w.Shape = []int{rows, cols}
	w.Version = 2
	if err := w.WriteFloat64(rawMat.Data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadNpy reads a float64 .npy file. One-dimensional arrays load as a
// single column.
func ReadNpy(path string) (*mat64.Dense, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	var rows, cols int
	switch len(r.Shape) {
	case 1:
		rows, cols = r.Shape[0], 1
	case 2:
		rows, cols = r.Shape[0], r.Shape[1]
	default:
		return nil, apperrors.InvalidInput("npy", "%s has %d dimensions, expected 1 or 2", path, len(r.Shape))
	}
	if rows == 0 || cols == 0 {
		return nil, apperrors.InvalidInput("npy", "%s is empty (%d x %d)", path, rows, cols)
	}

	data, err := r.GetFloat64()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return mat64.NewDense(rows, cols, data), nil
}
