package outlier

import (
	"strings"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Method is the statistical rule used to derive per-column cutoffs.
type Method int

const (
	// None disables outlier handling. It is a valid choice for callers that
	// make detection optional but cannot be passed to Detect.
	None Method = iota
	SD
	IQR
	MAD
	Percentile
)

var methodNames = map[Method]string{
	None:       "none",
	SD:         "sd",
	IQR:        "iqr",
	MAD:        "mad",
	Percentile: "percentile",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMethod maps a case-insensitive name to a Method. The empty string
// selects IQR.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return IQR, nil
	}
	for m, n := range methodNames {
		if n == key {
			return m, nil
		}
	}
	return None, apperrors.UnknownMethod("outlier method", name)
}

// Arity is the number of threshold parameters the method expects.
func (m Method) Arity() int {
	switch m {
	case SD, MAD:
		return 1
	case IQR:
		return 3
	case Percentile:
		return 2
	}
	return 0
}

// DefaultThreshold returns a fresh copy of the method's default parameters.
func (m Method) DefaultThreshold() []float64 {
	switch m {
	case SD, MAD:
		return []float64{3}
	case IQR:
		return []float64{1.5, 75, 25}
	case Percentile:
		return []float64{10, 90}
	}
	return nil
}
