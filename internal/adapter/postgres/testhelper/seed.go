package testhelper

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// UniqueWord returns a letters-only word that will not collide with other tests.
func UniqueWord(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range uuid.New().String() {
		switch {
		case r >= 'a' && r <= 'f':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune('g' + (r - '0'))
		}
		if b.Len() >= len(prefix)+10 {
			break
		}
	}
	return b.String()
}

// SeedWord inserts w and returns it with ID and CreatedAt filled. An empty
// Text is replaced by a unique word.
func SeedWord(t *testing.T, pool *pgxpool.Pool, w domain.Word) domain.Word {
	t.Helper()

	if w.Text == "" {
		w.Text = UniqueWord("word")
	}
	if w.PartOfSpeech == "" {
		w.PartOfSpeech = domain.PartOfSpeechNoun
	}

	type senseRow struct {
		Definition   string `json:"definition"`
		PartOfSpeech string `json:"part_of_speech,omitempty"`
		Domain       string `json:"domain,omitempty"`
	}
	senses := make([]senseRow, 0, len(w.Senses))
	for _, s := range w.Senses {
		senses = append(senses, senseRow{Definition: s.Definition, PartOfSpeech: string(s.PartOfSpeech), Domain: s.Domain})
	}
	sensesJSON, err := json.Marshal(senses)
	if err != nil {
		t.Fatalf("testhelper: SeedWord marshal senses: %v", err)
	}

	var score *float64
	var tier *string
	if w.Difficulty != nil {
		s := w.Difficulty.Score
		tr := string(domain.TierForScore(s))
		score, tier = &s, &tr
	}

	err = pool.QueryRow(context.Background(),
		`INSERT INTO words (text, part_of_speech, senses, examples, synonyms, antonyms, frequency, syllables, difficulty_score, difficulty_tier)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		w.Text, string(w.PartOfSpeech), sensesJSON, nonNil(w.Examples), nonNil(w.Synonyms), nonNil(w.Antonyms),
		w.Frequency, w.Syllables, score, tier,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedWord insert: %v", err)
	}
	return w
}

// SeedAssignment records that wordID was assigned on date.
func SeedAssignment(t *testing.T, pool *pgxpool.Pool, date time.Time, tier domain.Tier, slot int, wordID int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO daily_assignments (id, assigned_date, tier, slot, word_id, quiz)
		 VALUES ($1, $2, $3, $4, $5, '{}')`,
		id, domain.Day(date), string(tier), slot, wordID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAssignment insert: %v", err)
	}
	return id
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
