package cmd

import (
	stdio "io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gonum/matrix/mat64"
	"github.com/rs/zerolog/log"

	"github.com/KyungWonPark/featrank/internal/io"
)

// loadMatrix reads a .npy file or, for any other extension, a CSV file.
func loadMatrix(path string) (*mat64.Dense, []string, error) {
	var (
		m     *mat64.Dense
		names []string
		err   error
	)
	if strings.EqualFold(filepath.Ext(path), ".npy") {
		m, err = io.ReadNpy(path)
	} else {
		m, names, err = io.ReadCSV(path, header)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, cols := m.Dims()
	log.Info().Str("path", path).Int("rows", rows).Int("cols", cols).Msg("matrix loaded")
	return m, names, nil
}

func loadLabels(path string) ([]int, error) {
	labels, err := io.ReadLabels(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("labels", len(labels)).Msg("labels loaded")
	return labels, nil
}

// output returns stdout or the --out file and a function that closes it.
func output() (stdio.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// writeTable writes records to the output destination.
func writeTable(records [][]string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := io.WriteTable(w, records); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func featureName(names []string, j int) string {
	if j < len(names) && names[j] != "" {
		return names[j]
	}
	return strconv.Itoa(j)
}
