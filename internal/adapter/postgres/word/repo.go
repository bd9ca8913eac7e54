// Package word implements the lexical store using PostgreSQL.
package word

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordpipe/internal/adapter/postgres"
	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var wordColumns = []string{
	"w.id", "w.text", "w.part_of_speech", "w.senses", "w.examples", "w.synonyms", "w.antonyms",
	"w.frequency", "w.syllables", "w.difficulty_score", "w.difficulty_tier", "w.difficulty_confidence",
	"w.difficulty_components", "w.difficulty_metadata", "w.scored_at", "w.created_at",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a word by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Word, error) {
	query := postgres.Builder().Select(wordColumns...).From("words w").Where(sq.Eq{"w.id": id})
	w, err := r.getOne(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "word", id)
	}
	return w, nil
}

// GetByText returns a word by its normalised text.
func (r *Repo) GetByText(ctx context.Context, text string) (*domain.Word, error) {
	text = domain.NormalizeText(text)
	query := postgres.Builder().Select(wordColumns...).From("words w").Where(sq.Eq{"w.text": text})
	w, err := r.getOne(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "word", text)
	}
	return w, nil
}

// ListRange returns words with lo <= id <= hi in ascending ID order, at most limit rows.
func (r *Repo) ListRange(ctx context.Context, lo, hi int64, limit int) ([]domain.Word, error) {
	query := postgres.Builder().
		Select(wordColumns...).
		From("words w").
		Where(sq.And{sq.GtOrEq{"w.id": lo}, sq.LtOrEq{"w.id": hi}}).
		OrderBy("w.id ASC").
		Limit(uint64(limit))

	words, err := r.list(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "word range", fmt.Sprintf("[%d,%d]", lo, hi))
	}
	return words, nil
}

// IDBounds returns the lowest and highest word IDs. The range is empty when
// the store holds no words.
func (r *Repo) IDBounds(ctx context.Context) (domain.IDRange, error) {
	var bounds domain.IDRange
	err := postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, `SELECT COALESCE(min(id), 1), COALESCE(max(id), 0) FROM words`).
		Scan(&bounds.Start, &bounds.End)
	if err != nil {
		return domain.IDRange{}, postgres.MapError(err, "word id bounds", "")
	}
	return bounds, nil
}

// ListUnassignedSince returns words inside span that were never assigned on
// or after cutoff, in ascending ID order, at most limit rows.
func (r *Repo) ListUnassignedSince(ctx context.Context, cutoff time.Time, span domain.IDRange, limit int) ([]domain.Word, error) {
	query := postgres.Builder().
		Select(wordColumns...).
		From("words w").
		Where(sq.And{sq.GtOrEq{"w.id": span.Start}, sq.LtOrEq{"w.id": span.End}}).
		Where(`NOT EXISTS (SELECT 1 FROM daily_assignments a WHERE a.word_id = w.id AND a.assigned_date >= ?)`, domain.Day(cutoff)).
		OrderBy("w.id ASC").
		Limit(uint64(limit))

	words, err := r.list(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "unassigned words since", cutoff.Format(domain.DateLayout))
	}
	return words, nil
}

// ListLeastRecentlyAssigned returns words assigned on or after cutoff, the
// least recently assigned first.
func (r *Repo) ListLeastRecentlyAssigned(ctx context.Context, cutoff time.Time, limit int) ([]domain.WordWithUsage, error) {
	cols := append(append([]string{}, wordColumns...), "max(a.assigned_date) AS last_assigned")
	query := postgres.Builder().
		Select(cols...).
		From("words w").
		Join("daily_assignments a ON a.word_id = w.id").
		GroupBy("w.id").
		Having("max(a.assigned_date) >= ?", domain.Day(cutoff)).
		OrderBy("last_assigned ASC", "w.id ASC").
		Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build least recently assigned query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "least recently assigned words", cutoff.Format(domain.DateLayout))
	}
	defer rows.Close()

	var out []domain.WordWithUsage
	for rows.Next() {
		var (
			row  wordRow
			last time.Time
		)
		if err := rows.Scan(append(row.dest(), &last)...); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.WordWithUsage{Word: w, LastAssignedAt: &last})
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "least recently assigned words", cutoff.Format(domain.DateLayout))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const updateDifficultySQL = `
UPDATE words SET
    difficulty_score      = $2,
    difficulty_tier       = $3,
    difficulty_confidence = $4,
    difficulty_components = $5,
    difficulty_metadata   = $6,
    scored_at             = $7,
    frequency             = COALESCE($8, frequency),
    syllables             = CASE WHEN $9 > 0 THEN $9 ELSE syllables END
WHERE id = $1`

// UpdateDifficulty overwrites a word's score, tier and metadata. The tier is
// re-derived from the score. A non-nil frequency and a positive syllable
// count refresh the cached signals.
func (r *Repo) UpdateDifficulty(ctx context.Context, id int64, d domain.Difficulty, frequency *float64, syllables int) error {
	components, err := json.Marshal(d.Components)
	if err != nil {
		return fmt.Errorf("marshal components: %w", err)
	}
	metadata, err := json.Marshal(d.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	score := domain.Clamp01(d.Score)
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, updateDifficultySQL,
		id, score, string(domain.TierForScore(score)), d.Confidence, components, metadata, d.ScoredAt, frequency, syllables,
	)
	if err != nil {
		return postgres.MapError(err, "word", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

const upsertContentSQL = `
INSERT INTO words (text, part_of_speech, senses, examples, synonyms, antonyms, syllables)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (text) DO UPDATE SET
    part_of_speech = EXCLUDED.part_of_speech,
    senses         = EXCLUDED.senses,
    examples       = EXCLUDED.examples,
    synonyms       = EXCLUDED.synonyms,
    antonyms       = EXCLUDED.antonyms,
    syllables      = CASE WHEN EXCLUDED.syllables > 0 THEN EXCLUDED.syllables ELSE words.syllables END
RETURNING id, created_at, (xmax = 0) AS inserted`

// UpsertContent inserts words or refreshes the lexical content of existing
// ones, keyed by normalised text. Difficulty annotations are never touched.
// ID and CreatedAt are filled in place. Returns the number of new rows.
func (r *Repo) UpsertContent(ctx context.Context, words []domain.Word) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range words {
		w := &words[i]
		w.Text = domain.NormalizeText(w.Text)
		senses, err := encodeSenses(w.Senses)
		if err != nil {
			return 0, fmt.Errorf("word %q: %w", w.Text, err)
		}
		pos := w.PartOfSpeech
		if pos == "" {
			pos = w.PrimaryPartOfSpeech()
		}
		batch.Queue(upsertContentSQL,
			w.Text, string(pos), senses, nonNil(w.Examples), nonNil(w.Synonyms), nonNil(w.Antonyms), w.Syllables,
		)
	}

	results := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range words {
		var isNew bool
		if err := results.QueryRow().Scan(&words[i].ID, &words[i].CreatedAt, &isNew); err != nil {
			return inserted, postgres.MapError(err, "word", words[i].Text)
		}
		if isNew {
			inserted++
		}
	}
	return inserted, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

type senseJSON struct {
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"part_of_speech,omitempty"`
	Domain       string `json:"domain,omitempty"`
}

type wordRow struct {
	id         int64
	text       string
	pos        string
	senses     []byte
	examples   []string
	synonyms   []string
	antonyms   []string
	frequency  *float64
	syllables  int
	score      *float64
	tier       *string
	confidence *float64
	components []byte
	metadata   []byte
	scoredAt   *time.Time
	createdAt  time.Time
}

func (r *wordRow) dest() []any {
	return []any{
		&r.id, &r.text, &r.pos, &r.senses, &r.examples, &r.synonyms, &r.antonyms,
		&r.frequency, &r.syllables, &r.score, &r.tier, &r.confidence,
		&r.components, &r.metadata, &r.scoredAt, &r.createdAt,
	}
}

func (r *wordRow) toDomain() (domain.Word, error) {
	w := domain.Word{
		ID:           r.id,
		Text:         r.text,
		PartOfSpeech: domain.ParsePartOfSpeech(r.pos),
		Examples:     r.examples,
		Synonyms:     r.synonyms,
		Antonyms:     r.antonyms,
		Frequency:    r.frequency,
		Syllables:    r.syllables,
		CreatedAt:    r.createdAt,
	}

	if len(r.senses) > 0 {
		var senses []senseJSON
		if err := json.Unmarshal(r.senses, &senses); err != nil {
			return domain.Word{}, fmt.Errorf("word %d: decode senses: %w", r.id, err)
		}
		w.Senses = make([]domain.Sense, 0, len(senses))
		for _, s := range senses {
			sense := domain.Sense{Definition: s.Definition, Domain: s.Domain}
			if s.PartOfSpeech != "" {
				sense.PartOfSpeech = domain.ParsePartOfSpeech(s.PartOfSpeech)
			}
			w.Senses = append(w.Senses, sense)
		}
	}

	if r.score != nil {
		d := domain.Difficulty{
			Score: *r.score,
			Tier:  domain.TierForScore(*r.score),
		}
		if r.confidence != nil {
			d.Confidence = *r.confidence
		}
		if len(r.components) > 0 {
			if err := json.Unmarshal(r.components, &d.Components); err != nil {
				return domain.Word{}, fmt.Errorf("word %d: decode components: %w", r.id, err)
			}
		}
		if len(r.metadata) > 0 {
			if err := json.Unmarshal(r.metadata, &d.Metadata); err != nil {
				return domain.Word{}, fmt.Errorf("word %d: decode metadata: %w", r.id, err)
			}
		}
		if r.scoredAt != nil {
			d.ScoredAt = *r.scoredAt
		}
		w.Difficulty = &d
	}

	return w, nil
}

func (r *Repo) getOne(ctx context.Context, query sq.SelectBuilder) (*domain.Word, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row wordRow
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(row.dest()...); err != nil {
		return nil, err
	}
	w, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repo) list(ctx context.Context, query sq.SelectBuilder) ([]domain.Word, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanWords(rows)
}

func scanWords(rows pgx.Rows) ([]domain.Word, error) {
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		var row wordRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func encodeSenses(senses []domain.Sense) ([]byte, error) {
	out := make([]senseJSON, 0, len(senses))
	for _, s := range senses {
		out = append(out, senseJSON{Definition: s.Definition, PartOfSpeech: string(s.PartOfSpeech), Domain: s.Domain})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode senses: %w", err)
	}
	return b, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
