package rank

import (
	"strings"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

// Method is the statistic used to score features.
type Method int

const (
	ReliefF Method = iota
	TStat
	Wilcoxon
	Bhattacharyya
	MRMR
	DMean
	DMedian
	DStd
)

var methodNames = map[Method]string{
	ReliefF:       "relieff",
	TStat:         "t_stat",
	Wilcoxon:      "wilcoxon",
	Bhattacharyya: "bhattacharyya",
	MRMR:          "mrmr",
	DMean:         "dmean",
	DMedian:       "dmedian",
	DStd:          "dstd",
}

var methodAliases = map[string]Method{
	"ttest": TStat,
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// ParseMethod maps a case-insensitive name to a Method. The empty string
// selects ReliefF.
func ParseMethod(name string) (Method, error) {
	key := normalize(name)
	if key == "" {
		return ReliefF, nil
	}
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}
	for m, n := range methodNames {
		if n == key {
			return m, nil
		}
	}
	return ReliefF, apperrors.UnknownMethod("rank method", name)
}

// Handling says what happens to entries flagged as outliers.
type Handling int

const (
	// Trim replaces outliers with NaN.
	Trim Handling = iota
	// Winsorize clamps outliers to the cutoff they crossed.
	Winsorize
)

func (h Handling) String() string {
	switch h {
	case Trim:
		return "trim"
	case Winsorize:
		return "winsorize"
	}
	return "unknown"
}

// ParseHandling maps "trim" or "winsorize" (any case) to a Handling. The
// empty string selects Trim.
func ParseHandling(name string) (Handling, error) {
	switch normalize(name) {
	case "", "trim":
		return Trim, nil
	case "winsorize":
		return Winsorize, nil
	}
	return Trim, apperrors.UnknownMethod("outlier handling", name)
}
