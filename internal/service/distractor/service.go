// Package distractor generates wrong answers for definition quizzes and
// keeps a reusable store of them.
package distractor

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/internal/provider"
)

type distractorRepo interface {
	ListByKey(ctx context.Context, word string, pos domain.PartOfSpeech, tier domain.Tier, limit int) ([]domain.Distractor, error)
	Upsert(ctx context.Context, ds []domain.Distractor) error
	IncrementUsage(ctx context.Context, ids []uuid.UUID) error
	IncrementSuccess(ctx context.Context, word string, texts []string) (int, error)
}

type wordRepo interface {
	GetByText(ctx context.Context, text string) (*domain.Word, error)
}

type associationSource interface {
	Related(ctx context.Context, word string) (*provider.Associations, error)
}

// Quality scores given to newly produced distractors, by source.
const (
	QualityAlternateSense = 0.8
	QualityRelated        = 0.7
	QualityFallback       = 0.3
)

const (
	defaultCount               = 3
	defaultSimilarityThreshold = 0.35
	maxRelatedLookups          = 10
)

// Config holds the generator settings.
type Config struct {
	Count               int
	SimilarityThreshold float64

	// Seed fixes the quiz shuffle. Zero seeds from the clock.
	Seed int64
}

// strategy produces up to need candidates for g.
type strategy func(ctx context.Context, g *generation, need int) []candidate

// Service generates distractors.
type Service struct {
	log         *slog.Logger
	distractors distractorRepo
	words       wordRepo
	assoc       associationSource
	cfg         Config
	strategies  []strategy

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new distractor service. assoc may be nil.
func NewService(log *slog.Logger, distractors distractorRepo, words wordRepo, assoc associationSource, cfg Config) *Service {
	if cfg.Count <= 0 {
		cfg.Count = defaultCount
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = defaultSimilarityThreshold
	}
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Service{
		log:         log.With("service", "distractor"),
		distractors: distractors,
		words:       words,
		assoc:       assoc,
		cfg:         cfg,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	s.strategies = []strategy{s.fromStore, s.fromAlternateSenses, s.fromRelatedWords, s.fromTemplates}
	return s
}

// Count returns the number of distractors generated per quiz.
func (s *Service) Count() int { return s.cfg.Count }
