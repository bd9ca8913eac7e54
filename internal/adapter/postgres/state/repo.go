// Package state persists batch processing progress using PostgreSQL.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordpipe/internal/adapter/postgres"
	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Repo provides processing state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const loadStateSQL = `
SELECT ranges, last_processed_id, total_processed, with_frequency, without_frequency, updated_at
FROM processing_state
WHERE name = $1`

// Load returns the named state. A state that was never saved is returned
// as the zero value.
func (r *Repo) Load(ctx context.Context, name string) (domain.ProcessingState, error) {
	var (
		s      domain.ProcessingState
		ranges []byte
	)
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, loadStateSQL, name).Scan(
		&ranges, &s.LastProcessedID, &s.TotalProcessed, &s.WithFrequency, &s.WithoutFrequency, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProcessingState{}, nil
	}
	if err != nil {
		return domain.ProcessingState{}, postgres.MapError(err, "processing state", name)
	}

	if err := json.Unmarshal(ranges, &s.Ranges); err != nil {
		return domain.ProcessingState{}, fmt.Errorf("processing state %s: decode ranges: %w", name, err)
	}
	s.Ranges = domain.MergeRanges(s.Ranges)
	return s, nil
}

const saveStateSQL = `
INSERT INTO processing_state (name, ranges, last_processed_id, total_processed, with_frequency, without_frequency, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (name) DO UPDATE SET
    ranges            = EXCLUDED.ranges,
    last_processed_id = EXCLUDED.last_processed_id,
    total_processed   = EXCLUDED.total_processed,
    with_frequency    = EXCLUDED.with_frequency,
    without_frequency = EXCLUDED.without_frequency,
    updated_at        = EXCLUDED.updated_at`

// Save writes the named state, replacing any previous value.
func (r *Repo) Save(ctx context.Context, name string, s domain.ProcessingState) error {
	ranges := domain.MergeRanges(s.Ranges)
	if ranges == nil {
		ranges = []domain.IDRange{}
	}
	raw, err := json.Marshal(ranges)
	if err != nil {
		return fmt.Errorf("marshal ranges: %w", err)
	}

	_, err = postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, saveStateSQL,
		name, raw, s.LastProcessedID, s.TotalProcessed, s.WithFrequency, s.WithoutFrequency, s.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "processing state", name)
	}
	return nil
}

// Reset deletes the named state so the next Load starts from zero.
func (r *Repo) Reset(ctx context.Context, name string) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM processing_state WHERE name = $1`, name); err != nil {
		return postgres.MapError(err, "processing state", name)
	}
	return nil
}
