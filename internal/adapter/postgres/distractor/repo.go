// Package distractor implements the distractor store using PostgreSQL.
package distractor

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordpipe/internal/adapter/postgres"
	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Repo provides distractor persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new distractor repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var distractorColumns = []string{
	"id", "word", "correct_definition", "text", "part_of_speech", "tier", "source",
	"quality", "usage_count", "success_count", "created_at", "updated_at",
}

// ListByKey returns stored distractors for a word with the given part of
// speech and tier, best quality first and least used among equals.
func (r *Repo) ListByKey(ctx context.Context, word string, pos domain.PartOfSpeech, tier domain.Tier, limit int) ([]domain.Distractor, error) {
	query := postgres.Builder().
		Select(distractorColumns...).
		From("distractors").
		Where(sq.Eq{
			"word":           word,
			"part_of_speech": string(pos),
			"tier":           string(tier),
		}).
		OrderBy("quality DESC", "usage_count ASC", "created_at ASC").
		Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distractor query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "distractors", word)
	}
	defer rows.Close()

	var out []domain.Distractor
	for rows.Next() {
		d, err := scanDistractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "distractors", word)
	}
	return out, nil
}

const upsertDistractorSQL = `
INSERT INTO distractors (id, word, correct_definition, text, part_of_speech, tier, source, quality)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT ON CONSTRAINT distractors_word_text_key DO UPDATE SET
    correct_definition = EXCLUDED.correct_definition,
    part_of_speech     = EXCLUDED.part_of_speech,
    tier               = EXCLUDED.tier,
    quality            = GREATEST(distractors.quality, EXCLUDED.quality),
    updated_at         = now()
RETURNING id, usage_count, success_count, created_at, updated_at`

// Upsert stores each distractor. When the (word, text) pair already exists
// the higher quality is kept and the definition, part of speech and tier
// follow the new row. IDs and counters are filled in place.
func (r *Repo) Upsert(ctx context.Context, ds []domain.Distractor) error {
	if len(ds) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range ds {
		d := &ds[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		batch.Queue(upsertDistractorSQL,
			d.ID, d.Word, d.CorrectDefinition, d.Text, string(d.PartOfSpeech), string(d.Tier), string(d.Source), d.Quality,
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	for i := range batch.Len() {
		d := &ds[i]
		if err := results.QueryRow().Scan(&d.ID, &d.UsageCount, &d.SuccessCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return postgres.MapError(err, "distractor", d.Word+"/"+d.Text)
		}
	}
	return nil
}

// IncrementUsage bumps usage_count of the given distractors.
func (r *Repo) IncrementUsage(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE distractors SET usage_count = usage_count + 1, updated_at = now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return postgres.MapError(err, "distractor usage", len(ids))
	}
	return nil
}

// IncrementSuccess bumps success_count of the word's distractors whose text
// is in texts and returns how many rows changed.
func (r *Repo) IncrementSuccess(ctx context.Context, word string, texts []string) (int, error) {
	if len(texts) == 0 {
		return 0, nil
	}
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE distractors SET success_count = success_count + 1, updated_at = now()
		 WHERE word = $1 AND text = ANY($2)`, word, texts)
	if err != nil {
		return 0, postgres.MapError(err, "distractor success", word)
	}
	return int(tag.RowsAffected()), nil
}

func scanDistractor(row pgx.Row) (domain.Distractor, error) {
	var d domain.Distractor
	var pos, tier, source string
	err := row.Scan(&d.ID, &d.Word, &d.CorrectDefinition, &d.Text, &pos, &tier, &source,
		&d.Quality, &d.UsageCount, &d.SuccessCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Distractor{}, fmt.Errorf("scan distractor: %w", err)
	}
	d.PartOfSpeech = domain.PartOfSpeech(pos)
	d.Tier = domain.Tier(tier)
	d.Source = domain.DistractorSource(source)
	return d, nil
}
