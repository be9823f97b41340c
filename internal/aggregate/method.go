package aggregate

import (
	"strings"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Method is the statistic that collapses a feature's per-run ranks.
type Method int

const (
	Min Method = iota
	Mean
	Median
	// MinVar uses the variance of the per-run ranks.
	MinVar
)

func (m Method) String() string {
	switch m {
	case Min:
		return "min"
	case Mean:
		return "mean"
	case Median:
		return "median"
	case MinVar:
		return "minvar"
	}
	return "unknown"
}

// ParseMethod maps a case-insensitive name to a Method. The empty string
// selects Median.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "median":
		return Median, nil
	case "min":
		return Min, nil
	case "mean":
		return Mean, nil
	case "minvar":
		return MinVar, nil
	}
	return Median, apperrors.UnknownMethod("aggregation method", name)
}

// TieBreak orders features whose aggregate values are equal.
type TieBreak int

const (
	// TieMinVar puts the feature with the most consistent per-run ranks
	// first, then falls back to index order.
	TieMinVar TieBreak = iota
	// TieAscending keeps feature index order.
	TieAscending
	// TieRandom shuffles each tie group with the configured source.
	TieRandom
)

func (t TieBreak) String() string {
	switch t {
	case TieMinVar:
		return "minvar"
	case TieAscending:
		return "ascending"
	case TieRandom:
		return "random"
	}
	return "unknown"
}

// ParseTieBreak maps a case-insensitive name to a TieBreak. The empty
// string selects TieMinVar.
func ParseTieBreak(name string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "minvar":
		return TieMinVar, nil
	case "ascending":
		return TieAscending, nil
	case "random":
		return TieRandom, nil
	}
	return TieMinVar, apperrors.UnknownMethod("tie break", name)
}
