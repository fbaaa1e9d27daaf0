package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DBTX is the subset of a pgx pool the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect sets up the database connection pool and checks it is reachable.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logrus.Info("Successfully connected to the database")
	return pool, nil
}

// Close closes the database connection pool.
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		logrus.Info("Database connection pool closed")
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id               UUID PRIMARY KEY,
	user_id          TEXT        NOT NULL,
	design_id        UUID,
	description      TEXT        NOT NULL,
	location         TEXT        NOT NULL DEFAULT '',
	age_group        TEXT        NOT NULL DEFAULT '',
	gender           TEXT        NOT NULL DEFAULT '',
	trend_label      TEXT        NOT NULL,
	sentiment        TEXT        NOT NULL,
	confidence_level TEXT        NOT NULL,
	analysis_text    TEXT        NOT NULL DEFAULT '',
	key_factors      TEXT[]      NOT NULL DEFAULT '{}',
	ai_available     BOOLEAN     NOT NULL,
	forecast         JSONB       NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_predictions_user_created ON predictions (user_id, created_at DESC);
`

// EnsureSchema creates the tables the service writes to.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
