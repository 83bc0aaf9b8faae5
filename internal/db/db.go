// Package db provides PostgreSQL storage for the car catalog.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cars (
	id               TEXT PRIMARY KEY,
	make             TEXT NOT NULL,
	model            TEXT NOT NULL,
	year             INTEGER NOT NULL,
	price            NUMERIC(12, 2) NOT NULL CHECK (price > 0),
	body_type        TEXT NOT NULL,
	fuel_type        TEXT NOT NULL,
	fuel_efficiency  DOUBLE PRECISION NOT NULL CHECK (fuel_efficiency > 0),
	safety_rating    SMALLINT NOT NULL CHECK (safety_rating BETWEEN 1 AND 5),
	seating_capacity SMALLINT NOT NULL CHECK (seating_capacity >= 2),
	transmission     TEXT NOT NULL,
	drivetrain       TEXT NOT NULL,
	features         TEXT[] NOT NULL DEFAULT '{}',
	pros             TEXT[] NOT NULL DEFAULT '{}',
	cons             TEXT[] NOT NULL DEFAULT '{}',
	image            TEXT NOT NULL DEFAULT '',
	brand            TEXT NOT NULL DEFAULT '',
	segment          TEXT NOT NULL,
	reliability      SMALLINT NOT NULL CHECK (reliability BETWEEN 1 AND 10),
	maintenance_cost TEXT NOT NULL,
	resale_value     SMALLINT NOT NULL CHECK (resale_value BETWEEN 1 AND 10),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the cars table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
