package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// ReadLabels reads integer class labels, one per line. Only the first
// comma-separated field of a line is used, blank lines are skipped and a
// non-numeric first line is taken as a header.
func ReadLabels(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return DecodeLabels(f)
}

// DecodeLabels is ReadLabels over an arbitrary reader.
func DecodeLabels(r stdio.Reader) ([]int, error) {
	var labels []int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		field := strings.TrimSpace(strings.SplitN(scanner.Text(), ",", 2)[0])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if len(labels) == 0 && line == 1 {
				continue
			}
			return nil, apperrors.InvalidLabels("line %d: %q is not a number", line, field)
		}
		if v != math.Trunc(v) {
			return nil, apperrors.InvalidLabels("line %d: %v is not an integer label", line, v)
		}
		labels = append(labels, int(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, apperrors.InvalidLabels("no labels found")
	}
	return labels, nil
}

// WriteInts writes one value per line, preceded by header when it is not
// empty.
func WriteInts(w stdio.Writer, header string, values []int) error {
	bw := bufio.NewWriter(w)
	if header != "" {
		fmt.Fprintln(bw, header)
	}
	for _, v := range values {
		fmt.Fprintln(bw, v)
	}
	return bw.Flush()
}
