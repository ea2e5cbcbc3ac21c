// Package store provides the pgx-backed execution surface for query
// plans.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DB wraps a pgx connection pool behind the query.Store contract.
// Connections are acquired per call and released on all paths.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the database URL and verifies it.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Str("database", cfg.ConnConfig.Database).Msg("Connected to database")
	return &DB{pool: pool}, nil
}

// Close releases the pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Select runs the query and decodes every row into a column-name keyed
// map, preserving row order.
func (d *DB) Select(ctx context.Context, sql string, args []any) ([]map[string]any, error) {
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	results := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[fd.Name] = values[i]
		}
		results = append(results, record)
	}
	return results, rows.Err()
}

// Count runs a COUNT query and returns the single value.
func (d *DB) Count(ctx context.Context, sql string, args []any) (int64, error) {
	var total int64
	if err := d.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
