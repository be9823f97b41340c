package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every setting the featrank commands read from the
// environment. Command-line flags override these values.
type Config struct {
	Logging   LoggingConfig
	Rank      RankConfig
	Aggregate AggregateConfig
	Ensemble  EnsembleConfig
}

// LoggingConfig configures the global logger (FEATRANK_LOG_*).
type LoggingConfig struct {
	Level         string
	Format        string // json, pretty
	FileEnabled   bool
	Dir           string
	RotationSize  int // MB
	RetentionDays int
}

// RankConfig holds the default ranker options.
type RankConfig struct {
	Method          string
	Scaling         string
	OutlierMethod   string
	OutlierHandling string
	Neighbors       int
}

// AggregateConfig holds the default aggregation options.
type AggregateConfig struct {
	Method   string
	TieBreak string
}

// EnsembleConfig holds the seed, pool size and resample count used by
// ensemble runs and the random tie break.
type EnsembleConfig struct {
	Seed      int64
	Workers   int
	Resamples int
}

// Load reads the given .env files (".env" when none are named) and then
// the environment. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using environment variables")
	}

	fileEnabled, err := getBool("FEATRANK_LOG_FILE_ENABLED", false)
	if err != nil {
		return nil, err
	}
	neighbors, err := getInt("FEATRANK_NEIGHBORS", 10)
	if err != nil {
		return nil, err
	}
	seed, err := getInt("FEATRANK_SEED", 1)
	if err != nil {
		return nil, err
	}
	workers, err := getInt("FEATRANK_WORKERS", 0)
	if err != nil {
		return nil, err
	}
	resamples, err := getInt("FEATRANK_RESAMPLES", 20)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Logging: LoggingConfig{
			Level:         getEnv("FEATRANK_LOG_LEVEL", "info"),
			Format:        getEnv("FEATRANK_LOG_FORMAT", "pretty"),
			FileEnabled:   fileEnabled,
			Dir:           getEnv("FEATRANK_LOG_DIR", "logs"),
			RotationSize:  100,
			RetentionDays: 30,
		},
		Rank: RankConfig{
			Method:          getEnv("FEATRANK_RANK_METHOD", "relieff"),
			Scaling:         getEnv("FEATRANK_SCALING", "std_unit"),
			OutlierMethod:   getEnv("FEATRANK_OUTLIER_METHOD", "mad"),
			OutlierHandling: getEnv("FEATRANK_OUTLIER_HANDLING", "trim"),
			Neighbors:       neighbors,
		},
		Aggregate: AggregateConfig{
			Method:   getEnv("FEATRANK_AGG_METHOD", "median"),
			TieBreak: getEnv("FEATRANK_TIE_BREAK", "minvar"),
		},
		Ensemble: EnsembleConfig{
			Seed:      int64(seed),
			Workers:   workers,
			Resamples: resamples,
		},
	}

	return config, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
