package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KyungWonPark/featrank/internal/calc"
	apperrors "github.com/KyungWonPark/featrank/internal/errors"
	"github.com/KyungWonPark/featrank/internal/outlier"
	"github.com/KyungWonPark/featrank/internal/rank"
	"github.com/KyungWonPark/featrank/internal/scale"
)

// rankFlags are shared by rank and ensemble. Empty strings and unset
// numbers fall back to the loaded configuration.
type rankFlags struct {
	method     string
	scaling    string
	outlier    string
	handling   string
	threshold  []float64
	neighbors  int
	convention string
}

func (f *rankFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.method, "method", "", "rank method: relieff, t_stat, wilcoxon, bhattacharyya, mrmr, dmean, dmedian, dstd")
	flags.StringVar(&f.scaling, "scaling", "", "scaling: std_unit, rescale, mean_center, none")
	flags.StringVar(&f.outlier, "outlier", "", "outlier method: mad, sd, iqr, percentile, none")
	flags.StringVar(&f.handling, "handling", "", "outlier handling: trim, winsorize")
	flags.Float64SliceVar(&f.threshold, "threshold", nil, "outlier threshold parameters (method default when omitted)")
	flags.IntVar(&f.neighbors, "neighbors", 0, "ReliefF neighbourhood size")
	flags.StringVar(&f.convention, "convention", "midpoint", "percentile convention: midpoint, linear")
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func parseConvention(name string) (calc.Convention, error) {
	switch name {
	case "", "midpoint":
		return calc.Midpoint, nil
	case "linear":
		return calc.Linear, nil
	}
	return calc.Midpoint, apperrors.UnknownMethod("percentile convention", name)
}

func (f *rankFlags) config() (rank.Config, error) {
	rc := rank.DefaultConfig()
	var err error

	if rc.Method, err = rank.ParseMethod(pick(f.method, cfg.Rank.Method)); err != nil {
		return rc, err
	}
	if rc.Scaling, err = scale.ParseMethod(pick(f.scaling, cfg.Rank.Scaling)); err != nil {
		return rc, err
	}
	if rc.Outlier.Method, err = outlier.ParseMethod(pick(f.outlier, cfg.Rank.OutlierMethod)); err != nil {
		return rc, err
	}
	if rc.Handling, err = rank.ParseHandling(pick(f.handling, cfg.Rank.OutlierHandling)); err != nil {
		return rc, err
	}
	if rc.Outlier.Convention, err = parseConvention(f.convention); err != nil {
		return rc, err
	}
	rc.Outlier.Threshold = f.threshold

	rc.Neighbors = cfg.Rank.Neighbors
	if f.neighbors != 0 {
		rc.Neighbors = f.neighbors
	}
	return rc, nil
}
