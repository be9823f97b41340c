package io

import (
	"context"
	"encoding/csv"
	"fmt"
	stdio "io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gonum/matrix/mat64"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// ReadCSV loads a numeric CSV file. When header is true the first record
// is returned as column names instead of being parsed. Empty, "NaN" and
// "NA" cells read as NaN.
func ReadCSV(path string, header bool) (*mat64.Dense, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return DecodeCSV(f, header)
}

// DecodeCSV is ReadCSV over an arbitrary reader.
func DecodeCSV(r stdio.Reader, header bool) (*mat64.Dense, []string, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.Comment = '#'
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	var names []string
	if header && len(records) > 0 {
		names, records = records[0], records[1:]
	}
	if len(records) == 0 {
		return nil, names, apperrors.InvalidInput("csv", "no data rows")
	}

	rows, cols := len(records), len(records[0])
	matrix := mat64.NewDense(rows, cols, nil)
	errs := make([]error, rows)

	// Rows parse independently; each worker writes only its own row.
	calc.NewPool(0).Run(context.Background(), rows, func(index int) {
		errs[index] = parseLine(records[index], matrix, index)
	})

	for _, err := range errs {
		if err != nil {
			return nil, names, err
		}
	}
	return matrix, names, nil
}

func parseLine(record []string, matrix *mat64.Dense, row int) error {
	_, cols := matrix.Dims()
	if len(record) != cols {
		return apperrors.InvalidInput("csv", "row %d has %d fields, expected %d", row+1, len(record), cols)
	}
	for i := 0; i < cols; i++ {
		value, err := ParseCell(record[i])
		if err != nil {
			return apperrors.InvalidInput("csv", "row %d column %d: %v", row+1, i+1, err)
		}
		matrix.Set(row, i, value)
	}
	return nil
}

// ParseCell parses one numeric cell, mapping missing markers to NaN.
func ParseCell(cell string) (float64, error) {
	str := strings.TrimSpace(cell)
	switch strings.ToLower(str) {
	case "", "nan", "na":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(str, 64)
}

// WriteCSV saves matrix as a CSV file, preceded by header when it is not
// empty. NaN entries are written as "NaN".
func WriteCSV(path string, matrix mat64.Matrix, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodeCSV(f, matrix, header); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeCSV is WriteCSV over an arbitrary writer.
func EncodeCSV(w stdio.Writer, matrix mat64.Matrix, header []string) error {
	rows, cols := matrix.Dims()

	records := make([][]string, rows)
	calc.NewPool(0).Run(context.Background(), rows, func(row int) {
		record := make([]string, cols)
		for i := 0; i < cols; i++ {
			record[i] = FormatFloat(matrix.At(row, i))
		}
		records[row] = record
	})

	if len(header) > 0 {
		records = append([][]string{header}, records...)
	}
	return WriteTable(w, records)
}

// WriteTable writes records as CSV and flushes.
func WriteTable(w stdio.Writer, records [][]string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// FormatFloat renders v with the shortest exact representation.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
