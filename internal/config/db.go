package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/contacts-service/internal/logger"
)

// PoolSettings sizes the postgres connection pool.
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

var defaultPool = PoolSettings{
	MaxOpen:     20,
	MaxIdle:     10,
	MaxIdleTime: 5 * time.Minute,
	MaxLifetime: time.Hour,
}

const dbPingTimeout = 3 * time.Second

// NewDB opens DB_ADDR through pgx and fails fast when the server is unreachable.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("config: DB_ADDR is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return prepareDB(db, defaultPool, debug)
}

// prepareDB applies pool limits and pings. db is closed on failure.
func prepareDB(db *sql.DB, pool PoolSettings, debug bool) (*sql.DB, error) {
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxIdleTime(pool.MaxIdleTime)
	db.SetConnMaxLifetime(pool.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if debug {
		logSession(ctx, db)
	}
	return db, nil
}

// logSession records which role and database the pool landed on. No secrets.
func logSession(ctx context.Context, db *sql.DB) {
	var role, name, version string
	err := db.QueryRowContext(ctx,
		"SELECT current_user, current_database(), current_setting('server_version')",
	).Scan(&role, &name, &version)
	if err != nil {
		logger.Logger.Debug().Err(err).Msg("db session lookup failed")
		return
	}
	logger.Logger.Debug().
		Str("db_user", role).
		Str("db_name", name).
		Str("server_version", version).
		Msg("db connected")
}
