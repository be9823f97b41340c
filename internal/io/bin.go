package io

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// WriteFloats writes slice to a raw little-endian float64 file.
func WriteFloats(path string, slice []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := binary.Write(file, binary.LittleEndian, slice); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// ReadFloats reads a file written by WriteFloats.
func ReadFloats(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(raw)%8 != 0 {
		return nil, apperrors.InvalidInput("bin", "%s is %d bytes, not a whole number of float64 values", path, len(raw))
	}

	slice := make([]float64, len(raw)/8)
	for i := range slice {
		slice[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return slice, nil
}
