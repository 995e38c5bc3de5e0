//go:build integration

package infra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"
)

// Reset empties every migrated table and the redis database so each case
// starts from a clean store. The goose version table is kept.
func Reset(ctx context.Context, db *sql.DB, rdb *goredis.Client) error {
	tables, err := migratedTables(ctx, db)
	if err != nil {
		return err
	}
	if len(tables) > 0 {
		stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset postgres: %w", err)
		}
	}
	if err := rdb.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("reset redis: %w", err)
	}
	return nil
}

func migratedTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename <> 'goose_db_version'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, pgx.Identifier{name}.Sanitize())
	}
	return out, rows.Err()
}
