// Command recommend prints a workout recommendation for the given measurements as a single JSON document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/fitrec/internal/advisor"
	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/catalog"
	"github.com/myrjola/fitrec/internal/envstruct"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/logging"
)

var ErrMissingFlag = errors.NewSentinel("missing required flag")

type config struct {
	HistoryPath string `env:"FITREC_HISTORY_PATH" envDefault:"data_workout_final.csv"`
	CatalogPath string `env:"FITREC_CATALOG_PATH" envDefault:"workouts.yaml"`
}

// run writes the recommendation for args to stdout. Diagnostics go to logger and flag usage to stderr so that stdout
// only ever carries the JSON document.
func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	logger *slog.Logger,
	lookupEnv func(string) (string, bool),
) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var p body.Profile
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&p.Age, "age", 0, "age in years (required)")
	fs.Float64Var(&p.HeightCm, "height", 0, "height in centimeters (required)")
	fs.Float64Var(&p.WeightKg, "weight", 0, "weight in kilograms (required)")
	historyPath := fs.String("csv", cfg.HistoryPath, "historical dataset, CSV or SQLite (.sqlite3, .sqlite, .db)")
	catalogPath := fs.String("catalog", cfg.CatalogPath, "workout catalog YAML")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parse flags")
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range []string{"age", "height", "weight"} {
		if !set[name] {
			return errors.Wrap(ErrMissingFlag, "-"+name)
		}
	}

	c := catalog.LoadOrDefault(ctx, *catalogPath, logger)
	patterns := advisor.LoadPatterns(ctx, *historyPath, logger)
	res, err := advisor.New(c, patterns, logger).Recommend(ctx, p)
	if err != nil {
		return errors.Wrap(err, "recommend")
	}

	if err = json.NewEncoder(stdout).Encode(res); err != nil {
		return errors.Wrap(err, "write result")
	}
	return nil
}

type errorResult struct {
	Error string `json:"error"`
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo, nil)

	envFile, ok := os.LookupEnv("FITREC_ENV_FILE")
	if !ok {
		envFile = ".env"
	}
	lookupEnv, err := envstruct.WithDotenv(os.LookupEnv, envFile)
	if err == nil {
		level, _ := lookupEnv("FITREC_LOG_LEVEL")
		logger = logging.NewLogger(os.Stderr, logging.ParseLevel(level), nil)
		err = run(ctx, os.Args[1:], os.Stdout, os.Stderr, logger, lookupEnv)
	}
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to recommend workouts", errors.SlogError(err))
		_ = json.NewEncoder(os.Stdout).Encode(errorResult{Error: err.Error()})
		os.Exit(1)
	}
}
