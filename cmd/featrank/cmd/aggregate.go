package cmd

import (
	"math/rand"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KyungWonPark/featrank/internal/aggregate"
	"github.com/KyungWonPark/featrank/internal/io"
)

var aggOpts aggFlags

// aggFlags are shared by aggregate and ensemble.
type aggFlags struct {
	method      string
	tieBreak    string
	noPrenormal bool
	seed        int64
}

func (f *aggFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.method, "agg", "", "aggregation: median, mean, min, minvar")
	flags.StringVar(&f.tieBreak, "tie-break", "", "tie break: minvar, ascending, random")
	flags.BoolVar(&f.noPrenormal, "no-prenormalize", false, "aggregate raw ranks instead of rank/numFeatures")
	flags.Int64Var(&f.seed, "seed", 0, "random seed (default FEATRANK_SEED)")
}

func (f *aggFlags) config(cmd *cobra.Command) (aggregate.Config, error) {
	ac := aggregate.DefaultConfig()
	var err error
	if ac.Method, err = aggregate.ParseMethod(pick(f.method, cfg.Aggregate.Method)); err != nil {
		return ac, err
	}
	if ac.TieBreak, err = aggregate.ParseTieBreak(pick(f.tieBreak, cfg.Aggregate.TieBreak)); err != nil {
		return ac, err
	}
	ac.Prenormalize = !f.noPrenormal
	if ac.TieBreak == aggregate.TieRandom {
		ac.Rand = rand.New(rand.NewSource(f.seedOr(cmd)))
	}
	return ac, nil
}

func (f *aggFlags) seedOr(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") {
		return f.seed
	}
	return cfg.Ensemble.Seed
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <rank-matrix>",
	Short: "Combine rankings into a consensus ranking",
	Long: `Reads a rank matrix (rows = features, columns = ranking runs, every
column a permutation of 1..rows) and aggregates each feature's ranks.
Lower aggregate values rank first.

Examples:
  featrank aggregate ranks.csv
  featrank aggregate ranks.csv --agg mean --tie-break random --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

func init() {
	aggOpts.bind(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	ac, err := aggOpts.config(cmd)
	if err != nil {
		return err
	}
	rm, _, err := loadMatrix(args[0])
	if err != nil {
		return err
	}

	res, err := aggregate.Aggregate(rm, ac)
	if err != nil {
		return err
	}
	log.Info().
		Str("method", ac.Method.String()).
		Str("tie_break", ac.TieBreak.String()).
		Int("best", res.Order[0]).
		Msg("rankings aggregated")

	return writeTable(consensusTable(res, nil))
}

func consensusTable(res *aggregate.Result, names []string) [][]string {
	records := [][]string{{"rank", "feature", "index", "score", "variance"}}
	for pos, j := range res.Order {
		records = append(records, []string{
			strconv.Itoa(pos + 1),
			featureName(names, j),
			strconv.Itoa(j),
			io.FormatFloat(res.Scores[j]),
			io.FormatFloat(res.Variance[j]),
		})
	}
	return records
}
