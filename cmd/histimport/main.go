// Command histimport copies a CSV workout history into a SQLite history store.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/myrjola/fitrec/internal/envstruct"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/history"
	"github.com/myrjola/fitrec/internal/logging"
	"github.com/myrjola/fitrec/internal/sqlite"
)

type config struct {
	CSVPath   string `env:"FITREC_HISTORY_CSV"    envDefault:"data_workout_final.csv"`
	SqliteURL string `env:"FITREC_HISTORY_DB"     envDefault:"history.sqlite3"`
	Replace   bool   `env:"FITREC_IMPORT_REPLACE" envDefault:"false"`
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	logger *slog.Logger,
	lookupEnv func(string) (string, bool),
) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	fs := flag.NewFlagSet("histimport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "CSV dataset to import")
	fs.StringVar(&cfg.SqliteURL, "db", cfg.SqliteURL, "SQLite history store to import into")
	fs.BoolVar(&cfg.Replace, "replace", cfg.Replace, "delete existing records before importing")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parse flags")
	}

	records, err := history.LoadCSV(cfg.CSVPath)
	if err != nil {
		return errors.Wrap(err, "load csv")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(cerr))
		}
	}()

	if cfg.Replace {
		if err = db.DeleteRecords(ctx); err != nil {
			return errors.Wrap(err, "delete existing records")
		}
	}
	if err = db.InsertRecords(ctx, records); err != nil {
		return errors.Wrap(err, "insert records", slog.String("csv", cfg.CSVPath))
	}
	if err = db.Optimize(ctx); err != nil {
		return errors.Wrap(err, "optimize db")
	}

	total, err := db.CountRecords(ctx)
	if err != nil {
		return errors.Wrap(err, "count records")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "imported history",
		slog.String("csv", cfg.CSVPath), slog.String("db", cfg.SqliteURL),
		slog.Int("imported", len(records)), slog.Int("total", total))
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo, nil)

	envFile, ok := os.LookupEnv("FITREC_ENV_FILE")
	if !ok {
		envFile = ".env"
	}
	lookupEnv, err := envstruct.WithDotenv(os.LookupEnv, envFile)
	if err == nil {
		err = run(ctx, os.Args[1:], os.Stderr, logger, lookupEnv)
	}
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to import history", errors.SlogError(err))
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called above.
	}
}
