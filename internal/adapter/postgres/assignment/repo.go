// Package assignment implements daily assignment persistence using PostgreSQL.
package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordpipe/internal/adapter/postgres"
	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Repo provides daily assignment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new assignment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var assignmentColumns = []string{
	"a.id", "a.assigned_date", "a.tier", "a.slot", "a.word_id", "w.text", "a.quiz", "a.created_at",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByDate returns the assignments of one day ordered by tier rank then slot.
func (r *Repo) ListByDate(ctx context.Context, date time.Time) ([]domain.DailyAssignment, error) {
	return r.ListRange(ctx, date, date)
}

// ListRange returns the assignments for from <= date <= to, ordered by date,
// tier rank and slot.
func (r *Repo) ListRange(ctx context.Context, from, to time.Time) ([]domain.DailyAssignment, error) {
	query := postgres.Builder().
		Select(assignmentColumns...).
		From("daily_assignments a").
		Join("words w ON w.id = a.word_id").
		Where(sq.And{
			sq.GtOrEq{"a.assigned_date": domain.Day(from)},
			sq.LtOrEq{"a.assigned_date": domain.Day(to)},
		}).
		OrderBy(
			"a.assigned_date ASC",
			"CASE a.tier WHEN 'easy' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC",
			"a.slot ASC",
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignment range query: %w", err)
	}

	key := from.Format(domain.DateLayout) + ".." + to.Format(domain.DateLayout)
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "assignments", key)
	}
	defer rows.Close()

	var out []domain.DailyAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "assignments", key)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertAssignmentSQL = `
INSERT INTO daily_assignments (id, assigned_date, tier, slot, word_id, quiz)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT ON CONSTRAINT daily_assignments_slot_key DO UPDATE SET
    word_id    = EXCLUDED.word_id,
    quiz       = EXCLUDED.quiz,
    created_at = now()
RETURNING id, created_at`

// InsertDay writes a full day of assignments in a single batch. Each row
// replaces whatever occupied its (date, tier, slot). Assigning a word twice
// on the same day returns domain.ErrAlreadyExists.
func (r *Repo) InsertDay(ctx context.Context, rows []domain.DailyAssignment) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range rows {
		a := &rows[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.Date = domain.Day(a.Date)
		quiz, err := json.Marshal(a.Quiz)
		if err != nil {
			return 0, fmt.Errorf("marshal quiz for word %d: %w", a.WordID, err)
		}
		batch.Queue(upsertAssignmentSQL, a.ID, a.Date, string(a.Tier), a.Slot, a.WordID, quiz)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	var written int
	for i := range batch.Len() {
		if err := results.QueryRow().Scan(&rows[i].ID, &rows[i].CreatedAt); err != nil {
			return written, mapInsertError(err, rows[i])
		}
		written++
	}
	return written, nil
}

// DeleteByDate removes every assignment of one day and returns how many were removed.
func (r *Repo) DeleteByDate(ctx context.Context, date time.Time) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM daily_assignments WHERE assigned_date = $1`, domain.Day(date))
	if err != nil {
		return 0, postgres.MapError(err, "assignments", date.Format(domain.DateLayout))
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mapInsertError(err error, a domain.DailyAssignment) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "daily_assignments_word_key" {
		return fmt.Errorf("word %d on %s: %w", a.WordID, a.Date.Format(domain.DateLayout), domain.ErrAlreadyExists)
	}
	return postgres.MapError(err, "assignment", fmt.Sprintf("%s/%s/%d", a.Date.Format(domain.DateLayout), a.Tier, a.Slot))
}

func scanAssignment(row pgx.Row) (domain.DailyAssignment, error) {
	var (
		a    domain.DailyAssignment
		tier string
		quiz []byte
	)
	if err := row.Scan(&a.ID, &a.Date, &tier, &a.Slot, &a.WordID, &a.Word, &quiz, &a.CreatedAt); err != nil {
		return domain.DailyAssignment{}, fmt.Errorf("scan assignment: %w", err)
	}
	a.Tier = domain.Tier(tier)
	if len(quiz) > 0 {
		if err := json.Unmarshal(quiz, &a.Quiz); err != nil {
			return domain.DailyAssignment{}, fmt.Errorf("assignment %s: decode quiz: %w", a.ID, err)
		}
	}
	return a, nil
}
