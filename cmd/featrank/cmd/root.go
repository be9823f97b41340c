// Package cmd holds the featrank commands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KyungWonPark/featrank/internal/pkg/config"
	"github.com/KyungWonPark/featrank/internal/pkg/logger"
)

var (
	envFile string
	verbose bool
	header  bool
	outPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "featrank",
	Short: "Outlier detection, feature ranking and rank aggregation",
	Long: `featrank ranks the columns of a two-class dataset by how well they
separate the classes.

Matrices are read from CSV or NumPy .npy files (rows = samples,
columns = features). Labels are read one per line and must be 0 or 1.
Results are written to stdout as CSV unless --out is given.

Commands:
    outliers    flag column-wise outliers
    rank        rank features
    aggregate   combine a rank matrix into a consensus ranking
    describe    per-column summary statistics
    ensemble    rank repeatedly and aggregate the runs
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("command failed")
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&header, "header", false, "the first CSV row holds column names")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(outliersCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(ensembleCmd)
}

// initConfig loads the environment and installs the logger.
func initConfig(cmd *cobra.Command) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	var err error
	if cfg, err = config.Load(files...); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logger.Init(logger.Config{
		Level:         level,
		Format:        cfg.Logging.Format,
		FileEnabled:   cfg.Logging.FileEnabled,
		Dir:           cfg.Logging.Dir,
		RotationSize:  cfg.Logging.RotationSize,
		RetentionDays: cfg.Logging.RetentionDays,
		Command:       cmd.Name(),
	})
}
