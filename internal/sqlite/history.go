package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/history"
)

//nolint:gochecknoglobals // derived once from the slot count.
var workoutColumns = func() []string {
	cols := make([]string, history.MaxWorkoutSlots)
	for i := range cols {
		cols[i] = fmt.Sprintf("workout_%d", i+1)
	}
	return cols
}()

var ErrTooManyWorkouts = errors.NewSentinel("too many workout slots")

// InsertRecords appends records to the workout log in a single transaction. Empty workout slots are stored as NULL.
func (db *Database) InsertRecords(ctx context.Context, records []history.Record) error {
	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer db.rollback(ctx, tx)

	placeholders := strings.Repeat(", ?", len(workoutColumns))
	//nolint:gosec // column names are constants.
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO workout_logs
    (weight_kg, height_cm, bmi, bmi_category, age_category, total_workouts, `+strings.Join(workoutColumns, ", ")+`)
VALUES (?, ?, ?, ?, ?, ?`+placeholders+`)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close statement", errors.SlogError(cerr))
		}
	}()

	for i, r := range records {
		if len(r.Workouts) > len(workoutColumns) {
			return errors.Wrap(ErrTooManyWorkouts, "insert record",
				slog.Int("record", i), slog.Int("slots", len(r.Workouts)))
		}
		args := []any{r.WeightKg, r.HeightCm, r.BMI, r.BMICategory, r.AgeBracket, nullFloat(r.TotalWorkouts)}
		for slot := range workoutColumns {
			var name sql.NullString
			if slot < len(r.Workouts) && r.Workouts[slot] != "" {
				name = sql.NullString{String: r.Workouts[slot], Valid: true}
			}
			args = append(args, name)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrap(err, "insert record", slog.Int("record", i))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// ListRecords returns the whole workout log in insertion order. Every record has [history.MaxWorkoutSlots] workout
// slots with NULL slots read as empty strings.
func (db *Database) ListRecords(ctx context.Context) (_ []history.Record, err error) {
	//nolint:gosec // column names are constants.
	rows, err := db.ReadOnly.QueryContext(ctx, `SELECT weight_kg, height_cm, bmi, bmi_category, age_category,
       total_workouts, `+strings.Join(workoutColumns, ", ")+`
FROM workout_logs
ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query workout logs")
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var records []history.Record
	for rows.Next() {
		var (
			r     history.Record
			total sql.NullFloat64
			slots = make([]sql.NullString, len(workoutColumns))
		)
		dest := []any{&r.WeightKg, &r.HeightCm, &r.BMI, &r.BMICategory, &r.AgeBracket, &total}
		for i := range slots {
			dest = append(dest, &slots[i])
		}
		if err = rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "scan workout log")
		}
		if total.Valid {
			r.TotalWorkouts = &total.Float64
		}
		r.Workouts = make([]string, len(slots))
		for i, s := range slots {
			r.Workouts[i] = s.String
		}
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return records, nil
}

// CountRecords returns the number of rows in the workout log.
func (db *Database) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*) FROM workout_logs").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count workout logs")
	}
	return n, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Float64: 0, Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// DeleteRecords empties the workout log.
func (db *Database) DeleteRecords(ctx context.Context) error {
	if _, err := db.ReadWrite.ExecContext(ctx, "DELETE FROM workout_logs"); err != nil {
		return errors.Wrap(err, "delete workout logs")
	}
	return nil
}
