package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/fitrec/internal/errors"
)

// migrateTo makes the live schema match schemaDefinition declaratively. It
//
// 1. drops tables missing from the target,
// 2. creates tables new in the target,
// 3. rebuilds changed tables keeping the data of their common columns, see
// https://www.sqlite.org/lang_altertable.html#otheralter,
// 4. synchronises indexes.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	start := time.Now()

	detach, err := db.attachSchemaTarget(ctx, schemaDefinition)
	if err != nil {
		return errors.Wrap(err, "attach schema target")
	}
	defer detach()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer db.rollback(ctx, tx)

	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}
	if err = db.migrateIndexes(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate indexes")
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}

	db.logger.LogAttrs(ctx, slog.LevelDebug, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachSchemaTarget attaches an in-memory database holding the target schema as schemaTarget. The returned
// function detaches it.
func (db *Database) attachSchemaTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	target, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open schema target")
	}
	defer func() {
		if cerr := target.Close(); cerr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target", errors.SlogError(cerr))
		}
	}()
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "create schema target")
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", dsn); err != nil {
		return nil, errors.Wrap(err, "attach")
	}
	return func() {
		if _, derr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE schemaTarget"); derr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target", errors.SlogError(derr))
		}
	}, nil
}

func (db *Database) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction", errors.SlogError(err))
	}
}

func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	deleted, err := db.queryStrings(ctx, tx, `SELECT live.name
FROM sqlite_schema AS live
         LEFT JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = 'table'
  AND target.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return errors.Wrap(err, "query deleted tables")
	}
	for _, table := range deleted {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", table)); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", table))
		}
	}

	created, err := db.queryStrings(ctx, tx, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
         LEFT JOIN sqlite_schema AS live ON live.name = target.name AND live.type = target.type
WHERE target.type = 'table'
  AND live.type IS NULL
  AND target.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return errors.Wrap(err, "query new tables")
	}
	for _, query := range created {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", query))
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return errors.Wrap(err, "create table")
		}
	}

	changed, err := db.queryChanged(ctx, tx, "table")
	if err != nil {
		return errors.Wrap(err, "query changed tables")
	}
	for _, c := range changed {
		if err = db.rebuildTable(ctx, tx, c); err != nil {
			return errors.Wrap(err, "rebuild table", slog.String("table", c.name))
		}
	}
	return nil
}

// rebuildTable creates the target table under a temporary name, copies the common columns, drops the live table
// and renames the new one in its place.
func (db *Database) rebuildTable(ctx context.Context, tx *sql.Tx, c changedSchema) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
		slog.String("table", c.name), slog.String("live_sql", c.liveSQL), slog.String("new_sql", c.newSQL))

	temp := c.name + "_migration_temp"
	if _, err := tx.ExecContext(ctx, strings.Replace(c.newSQL, c.name, temp, 1)); err != nil {
		return errors.Wrap(err, "create temporary table")
	}

	// Column names are quoted because some of them may be SQLite keywords.
	common, err := db.queryStrings(ctx, tx, `SELECT '"' || target.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name) AS live
         JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS target ON target.name = live.name`,
		sql.Named("table_name", c.name))
	if err != nil {
		return errors.Wrap(err, "query common columns")
	}
	if len(common) > 0 {
		columns := strings.Join(common, ", ")
		//nolint:gosec // identifiers come from the schema, not from input.
		query := fmt.Sprintf("INSERT INTO %q (%s) SELECT %s FROM %q", temp, columns, columns, c.name)
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return errors.Wrap(err, "copy data")
		}
	}

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", c.name)); err != nil {
		return errors.Wrap(err, "drop live table")
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %q RENAME TO %q", temp, c.name)); err != nil {
		return errors.Wrap(err, "rename temporary table")
	}
	return nil
}

func (db *Database) migrateIndexes(ctx context.Context, tx *sql.Tx) error {
	// Rebuilt tables lose their indexes, so every index missing from the live schema is created again here.
	deleted, err := db.queryStrings(ctx, tx, `SELECT live.name
FROM sqlite_schema AS live
         LEFT JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = 'index'
  AND target.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return errors.Wrap(err, "query deleted indexes")
	}
	for _, name := range deleted {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping index", slog.String("index", name))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP INDEX %q", name)); err != nil {
			return errors.Wrap(err, "drop index", slog.String("index", name))
		}
	}

	changed, err := db.queryChanged(ctx, tx, "index")
	if err != nil {
		return errors.Wrap(err, "query changed indexes")
	}
	for _, c := range changed {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "recreating index", slog.String("query", c.newSQL))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP INDEX %q", c.name)); err != nil {
			return errors.Wrap(err, "drop changed index", slog.String("index", c.name))
		}
		if _, err = tx.ExecContext(ctx, c.newSQL); err != nil {
			return errors.Wrap(err, "create changed index", slog.String("index", c.name))
		}
	}

	created, err := db.queryStrings(ctx, tx, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
         LEFT JOIN sqlite_schema AS live ON live.name = target.name AND live.type = target.type
WHERE target.type = 'index'
  AND live.type IS NULL
  AND target.sql IS NOT NULL`)
	if err != nil {
		return errors.Wrap(err, "query new indexes")
	}
	for _, query := range created {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating index", slog.String("query", query))
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return errors.Wrap(err, "create index")
		}
	}
	return nil
}

type changedSchema struct {
	name    string
	liveSQL string
	newSQL  string
}

// queryChanged lists the entities of typ whose definition differs between the live and the target schema.
func (db *Database) queryChanged(ctx context.Context, tx *sql.Tx, typ string) (_ []changedSchema, err error) {
	rows, err := tx.QueryContext(ctx, `SELECT live.name, live.sql, target.sql
FROM sqlite_schema AS live
         JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = ?
  AND live.name NOT LIKE 'sqlite_%'
  -- Renaming a table adds double quotes around its name.
  AND REPLACE(live.sql, '"', '') <> REPLACE(target.sql, '"', '')`, typ)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var changed []changedSchema
	for rows.Next() {
		var c changedSchema
		if err = rows.Scan(&c.name, &c.liveSQL, &c.newSQL); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		changed = append(changed, c)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return changed, nil
}

// queryStrings returns the single string column of every row of query.
func (db *Database) queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) (_ []string, err error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var results []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		results = append(results, s)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return results, nil
}
