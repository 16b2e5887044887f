package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StatsStore = (*StatsRepo)(nil)

// StatsRepo is the SQLite implementation of the StatsStore port interface.
type StatsRepo struct {
	db  *DB
	now func() time.Time
}

// NewStatsRepo creates a new StatsRepo backed by the given DB.
func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Upsert inserts or updates the stats for repository. The row ID survives updates.
func (r *StatsRepo) Upsert(ctx context.Context, repository string, stars, forks int) (model.StatRecord, error) {
	const query = `
		INSERT INTO repo_stats (repository, stars, forks, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(repository) DO UPDATE SET
			stars = excluded.stars,
			forks = excluded.forks,
			updated_at = excluded.updated_at
		RETURNING id, repository, stars, forks, updated_at`

	updatedAt := r.now().Format(time.RFC3339Nano)

	rec, err := scanStatRecord(r.db.Writer.QueryRowContext(ctx, query, repository, stars, forks, updatedAt))
	if err != nil {
		return model.StatRecord{}, fmt.Errorf("upsert stats %s: %w", repository, err)
	}

	return *rec, nil
}

// Get retrieves the stats for repository. Returns nil, nil if none are cached.
func (r *StatsRepo) Get(ctx context.Context, repository string) (*model.StatRecord, error) {
	const query = `SELECT id, repository, stars, forks, updated_at FROM repo_stats WHERE repository = ?`

	rec, err := scanStatRecord(r.db.Reader.QueryRowContext(ctx, query, repository))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats %s: %w", repository, err)
	}

	return rec, nil
}

// List returns all cached stats ordered by repository.
func (r *StatsRepo) List(ctx context.Context) ([]model.StatRecord, error) {
	const query = `SELECT id, repository, stars, forks, updated_at FROM repo_stats ORDER BY repository`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}
	defer rows.Close()

	records := []model.StatRecord{}
	for rows.Next() {
		rec, err := scanStatRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}

	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStatRecord(s scanner) (*model.StatRecord, error) {
	var rec model.StatRecord
	var updatedAt string

	if err := s.Scan(&rec.ID, &rec.Repository, &rec.Stars, &rec.Forks, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	rec.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &rec, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
