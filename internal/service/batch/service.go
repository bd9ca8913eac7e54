// Package batch scores ranges of words in bounded, rate-friendly batches and
// records which IDs have been processed.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordpipe/internal/difficulty"
	"github.com/heartmarshall/wordpipe/internal/domain"
)

type wordRepo interface {
	ListRange(ctx context.Context, lo, hi int64, limit int) ([]domain.Word, error)
	UpdateDifficulty(ctx context.Context, id int64, d domain.Difficulty, frequency *float64, syllables int) error
}

type stateRepo interface {
	Load(ctx context.Context, name string) (domain.ProcessingState, error)
	Save(ctx context.Context, name string, s domain.ProcessingState) error
}

type scorer interface {
	ScoreWord(ctx context.Context, word *domain.Word) difficulty.Result
}

// Config holds the batch defaults.
type Config struct {
	BatchSize int
	Delay     time.Duration
	StateName string
}

// Service runs scoring batches.
type Service struct {
	log    *slog.Logger
	words  wordRepo
	state  stateRepo
	scorer scorer
	cfg    Config

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewService creates a new batch service.
func NewService(log *slog.Logger, words wordRepo, state stateRepo, scorer scorer, cfg Config) *Service {
	if cfg.StateName == "" {
		cfg.StateName = "difficulty_scoring"
	}
	return &Service{
		log:    log.With("service", "batch"),
		words:  words,
		state:  state,
		scorer: scorer,
		cfg:    cfg,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

// StateName returns the processing state key this service advances.
func (s *Service) StateName() string { return s.cfg.StateName }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
