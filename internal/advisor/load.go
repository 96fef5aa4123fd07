package advisor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/history"
	"github.com/myrjola/fitrec/internal/pattern"
	"github.com/myrjola/fitrec/internal/sqlite"
)

//nolint:gochecknoglobals // read-only list.
var sqliteExtensions = []string{".sqlite3", ".sqlite", ".db"}

// IsSQLite reports whether path names a SQLite history store rather than a CSV dataset.
func IsSQLite(path string) bool {
	return slices.Contains(sqliteExtensions, strings.ToLower(filepath.Ext(path)))
}

// ReadHistory reads the historical records at path from a SQLite store or a CSV dataset depending on its extension.
func ReadHistory(ctx context.Context, path string, logger *slog.Logger) ([]history.Record, error) {
	if !IsSQLite(path) {
		records, err := history.LoadCSV(path)
		if err != nil {
			return nil, errors.Wrap(err, "load csv history")
		}
		return records, nil
	}

	// Opening a missing database would create an empty one.
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "stat history database", slog.String("path", path))
	}
	db, err := sqlite.NewDatabase(ctx, path, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open history database", slog.String("path", path))
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close history database", errors.SlogError(cerr))
		}
	}()
	records, err := db.ListRecords(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list history records", slog.String("path", path))
	}
	return records, nil
}

// LoadPatterns extracts the historical patterns of the dataset at path. It returns nil, which selects rule-based
// recommendations only, when the dataset cannot be read.
func LoadPatterns(ctx context.Context, path string, logger *slog.Logger) pattern.Patterns {
	records, err := ReadHistory(ctx, path, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "could not load history, using rule-based recommendations only",
			errors.SlogError(err))
		return nil
	}
	patterns := pattern.Extract(records)
	logger.LogAttrs(ctx, slog.LevelDebug, "loaded history",
		slog.String("path", path), slog.Int("records", len(records)), slog.Int("groups", len(patterns)))
	return patterns
}
