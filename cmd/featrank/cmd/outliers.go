package cmd

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
	"github.com/KyungWonPark/featrank/internal/io"
	"github.com/KyungWonPark/featrank/internal/outlier"
)

var (
	outlierMethod     string
	outlierThreshold  []float64
	outlierConvention string
	outlierApply      string
)

var outliersCmd = &cobra.Command{
	Use:   "outliers <matrix>",
	Short: "Flag column-wise outliers",
	Long: `Computes per-column cutoffs and counts the entries outside them.

With --apply trim or --apply winsorize the treated matrix is written
instead of the cutoff table.

Examples:
  featrank outliers data.csv --method iqr --threshold 1.5,75,25
  featrank outliers data.csv --method sd --threshold 2 --apply winsorize -o clean.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runOutliers,
}

func init() {
	flags := outliersCmd.Flags()
	flags.StringVar(&outlierMethod, "method", "iqr", "sd, iqr, mad or percentile")
	flags.Float64SliceVar(&outlierThreshold, "threshold", nil, "threshold parameters (method default when omitted)")
	flags.StringVar(&outlierConvention, "convention", "midpoint", "percentile convention: midpoint, linear")
	flags.StringVar(&outlierApply, "apply", "", "write the treated matrix: trim or winsorize")
}

func runOutliers(cmd *cobra.Command, args []string) error {
	method, err := outlier.ParseMethod(outlierMethod)
	if err != nil {
		return err
	}
	convention, err := parseConvention(outlierConvention)
	if err != nil {
		return err
	}
	policy := outlier.Policy{Method: method, Threshold: outlierThreshold, Convention: convention}

	m, names, err := loadMatrix(args[0])
	if err != nil {
		return err
	}

	res, err := outlier.Detect(m, policy)
	if err != nil {
		return err
	}

	counts := res.Count()
	total := 0
	for _, c := range counts {
		total += c
	}
	log.Info().Str("method", method.String()).Int("outliers", total).Msg("outliers detected")

	switch outlierApply {
	case "":
	case "trim", "winsorize":
		treated := res.Trim(m)
		if outlierApply == "winsorize" {
			treated = res.Winsorize(m)
		}
		w, closeFn, err := output()
		if err != nil {
			return err
		}
		if err := io.EncodeCSV(w, treated, names); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	default:
		return apperrors.UnknownMethod("outlier handling", outlierApply)
	}

	records := [][]string{{"feature", "lower", "upper", "below", "above", "outliers"}}
	for j := range counts {
		var below, above int
		for i := range res.IsOutlier {
			if res.IsBelowLower[i][j] {
				below++
			}
			if res.IsAboveUpper[i][j] {
				above++
			}
		}
		records = append(records, []string{
			featureName(names, j),
			io.FormatFloat(res.CutoffLower[j]),
			io.FormatFloat(res.CutoffUpper[j]),
			strconv.Itoa(below),
			strconv.Itoa(above),
			strconv.Itoa(counts[j]),
		})
	}
	return writeTable(records)
}
