package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/fitrec/internal/errors"
)

// Optimize updates the query planner statistics after bulk writes. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) Optimize(ctx context.Context) error {
	start := time.Now()
	// 0x10002 analyzes every table regardless of how recently it was analyzed.
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		return errors.Wrap(err, "optimize database")
	}
	db.logger.LogAttrs(ctx, slog.LevelInfo, "optimized database", slog.Duration("duration", time.Since(start)))
	return nil
}
