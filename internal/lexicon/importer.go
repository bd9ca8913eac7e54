// Package lexicon loads words into the lexical store from Wiktionary (Kaikki)
// dumps, with syllable counts from the CMU Pronouncing Dictionary.
package lexicon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

const defaultBatchSize = 500

type wordStore interface {
	UpsertContent(ctx context.Context, words []domain.Word) (int, error)
}

// Config holds the importer settings.
type Config struct {
	BatchSize int
	DryRun    bool
}

// Result summarises an import run.
type Result struct {
	Words         int
	WithSyllables int
	Inserted      int
	Updated       int
	Batches       int
	DryRun        bool
	Duration      time.Duration
}

// Importer writes parsed words to the lexical store.
type Importer struct {
	log   *slog.Logger
	words wordStore
	cfg   Config
}

// NewImporter creates an Importer.
func NewImporter(log *slog.Logger, words wordStore, cfg Config) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Importer{log: log.With("service", "lexicon"), words: words, cfg: cfg}
}

// Import attaches syllable counts to words and upserts them in batches.
// syllables may be nil. A failed batch aborts the run; earlier batches stay
// committed, and rerunning is safe because every write is an upsert.
func (i *Importer) Import(ctx context.Context, words []domain.Word, syllables map[string]int) (Result, error) {
	start := time.Now()
	res := Result{Words: len(words), DryRun: i.cfg.DryRun}

	for k := range words {
		if n, ok := syllables[words[k].Text]; ok {
			words[k].Syllables = n
			res.WithSyllables++
		}
	}

	if i.cfg.DryRun {
		res.Duration = time.Since(start)
		i.log.InfoContext(ctx, "dry run, nothing written", slog.Int("words", res.Words))
		return res, nil
	}

	for lo := 0; lo < len(words); lo += i.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		hi := min(lo+i.cfg.BatchSize, len(words))

		inserted, err := i.words.UpsertContent(ctx, words[lo:hi])
		if err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("import batch %d-%d: %w", lo, hi-1, err)
		}
		res.Batches++
		res.Inserted += inserted
		res.Updated += hi - lo - inserted

		i.log.DebugContext(ctx, "batch imported",
			slog.Int("batch", res.Batches),
			slog.Int("inserted", inserted),
			slog.Int("size", hi-lo),
		)
	}

	res.Duration = time.Since(start)
	i.log.InfoContext(ctx, "import completed",
		slog.Int("words", res.Words),
		slog.Int("inserted", res.Inserted),
		slog.Int("updated", res.Updated),
		slog.Int("with_syllables", res.WithSyllables),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}
