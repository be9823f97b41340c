package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KyungWonPark/featrank/internal/describe"
	"github.com/KyungWonPark/featrank/internal/io"
)

var (
	describeConvention string
	describeWorkers    int
)

var describeCmd = &cobra.Command{
	Use:   "describe <matrix> [labels]",
	Short: "Per-column summary statistics",
	Long: `Summarises every column, ignoring missing values. With a label file
each column is summarised once per class.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().StringVar(&describeConvention, "convention", "midpoint", "percentile convention: midpoint, linear")
	describeCmd.Flags().IntVar(&describeWorkers, "workers", 0, "worker goroutines (default FEATRANK_WORKERS or NumCPU)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	convention, err := parseConvention(describeConvention)
	if err != nil {
		return err
	}
	opts := describe.Options{Convention: convention, Workers: cfg.Ensemble.Workers}
	if describeWorkers != 0 {
		opts.Workers = describeWorkers
	}

	m, names, err := loadMatrix(args[0])
	if err != nil {
		return err
	}

	records := [][]string{{"class", "feature", "n", "missing", "mean", "std", "min", "p25", "median", "p75", "max", "skew", "kurtosis"}}

	if len(args) == 1 {
		sums, err := describe.Columns(cmd.Context(), m, opts)
		if err != nil {
			return err
		}
		records = appendSummaries(records, "all", sums, names)
		return writeTable(records)
	}

	labels, err := loadLabels(args[1])
	if err != nil {
		return err
	}
	class0, class1, err := describe.ByClass(cmd.Context(), m, labels, opts)
	if err != nil {
		return err
	}
	records = appendSummaries(records, "0", class0, names)
	records = appendSummaries(records, "1", class1, names)
	return writeTable(records)
}

func appendSummaries(records [][]string, class string, sums []describe.Summary, names []string) [][]string {
	for _, s := range sums {
		records = append(records, []string{
			class,
			featureName(names, s.Feature),
			strconv.Itoa(s.N),
			strconv.Itoa(s.Missing),
			io.FormatFloat(s.Mean),
			io.FormatFloat(s.Std),
			io.FormatFloat(s.Min),
			io.FormatFloat(s.P25),
			io.FormatFloat(s.Median),
			io.FormatFloat(s.P75),
			io.FormatFloat(s.Max),
			io.FormatFloat(s.Skew),
			io.FormatFloat(s.Kurtosis),
		})
	}
	return records
}
