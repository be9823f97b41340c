package cmd

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KyungWonPark/featrank/internal/io"
	"github.com/KyungWonPark/featrank/internal/rank"
)

var rankOpts rankFlags

var rankCmd = &cobra.Command{
	Use:   "rank <matrix> <labels>",
	Short: "Rank features by class separation",
	Long: `Ranks every column of the matrix against 0/1 labels.

Stages run in a fixed order: outlier detection, trimming or winsorizing,
scaling, scoring, and a descending sort on |score|. Options left unset
fall back to FEATRANK_* environment variables.

Examples:
  featrank rank data.csv labels.txt
  featrank rank data.csv labels.txt --method t_stat --outlier none --scaling none`,
	Args: cobra.ExactArgs(2),
	RunE: runRank,
}

func init() {
	rankOpts.bind(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	rc, err := rankOpts.config()
	if err != nil {
		return err
	}
	ranker, err := rank.New(rc)
	if err != nil {
		return err
	}

	data, names, err := loadMatrix(args[0])
	if err != nil {
		return err
	}
	labels, err := loadLabels(args[1])
	if err != nil {
		return err
	}

	res, err := ranker.Rank(data, labels)
	if err != nil {
		return err
	}
	log.Info().
		Str("method", res.Method.String()).
		Int("features", len(res.Order)).
		Str("best", featureName(names, res.Order[0])).
		Msg("features ranked")

	head := []string{"rank", "feature", "index", "score"}
	if res.PValues != nil {
		head = append(head, "p_value")
	}
	records := [][]string{head}
	for pos, j := range res.Order {
		record := []string{
			strconv.Itoa(pos + 1),
			featureName(names, j),
			strconv.Itoa(j),
			io.FormatFloat(res.Scores[j]),
		}
		if res.PValues != nil {
			record = append(record, io.FormatFloat(res.PValues[j]))
		}
		records = append(records, record)
	}
	return writeTable(records)
}
