// Package assignment maps calendar dates to vocabulary words, balancing each
// day across difficulty tiers.
package assignment

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/heartmarshall/wordpipe/internal/difficulty"
	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/internal/eligibility"
)

type wordRepo interface {
	IDBounds(ctx context.Context) (domain.IDRange, error)
	ListUnassignedSince(ctx context.Context, cutoff time.Time, span domain.IDRange, limit int) ([]domain.Word, error)
	ListLeastRecentlyAssigned(ctx context.Context, cutoff time.Time, limit int) ([]domain.WordWithUsage, error)
	UpdateDifficulty(ctx context.Context, id int64, d domain.Difficulty, frequency *float64, syllables int) error
}

type assignmentRepo interface {
	ListByDate(ctx context.Context, date time.Time) ([]domain.DailyAssignment, error)
	DeleteByDate(ctx context.Context, date time.Time) (int, error)
	InsertDay(ctx context.Context, rows []domain.DailyAssignment) (int, error)
}

type eligibilityChecker interface {
	Eligible(ctx context.Context, candidate string) eligibility.Result
}

type scorer interface {
	ScoreWord(ctx context.Context, word *domain.Word) difficulty.Result
}

type quizBuilder interface {
	QuizFor(ctx context.Context, w *domain.Word, tier domain.Tier) (domain.Quiz, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	// MaxRangeDays bounds a single assignment run.
	MaxRangeDays = 366

	defaultLookbackMonths = 6
	defaultPoolLimit      = 5000
)

// Config holds the assignment defaults.
type Config struct {
	WordsPerDay    int
	Distribution   domain.Distribution
	LookbackMonths int
	PoolLimit      int // candidate page size

	// Seed fixes the sampling order. Zero seeds from the clock.
	Seed int64
}

// Service assigns words to dates.
type Service struct {
	log         *slog.Logger
	words       wordRepo
	assignments assignmentRepo
	eligibility eligibilityChecker
	scorer      scorer
	quizzes     quizBuilder
	tx          txManager
	cfg         Config
	rng         *rand.Rand
}

// NewService creates a new assignment service.
func NewService(
	log *slog.Logger,
	words wordRepo,
	assignments assignmentRepo,
	checker eligibilityChecker,
	scorer scorer,
	quizzes quizBuilder,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.LookbackMonths < 0 {
		cfg.LookbackMonths = defaultLookbackMonths
	}
	if cfg.PoolLimit <= 0 {
		cfg.PoolLimit = defaultPoolLimit
	}
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Service{
		log:         log.With("service", "assignment"),
		words:       words,
		assignments: assignments,
		eligibility: checker,
		scorer:      scorer,
		quizzes:     quizzes,
		tx:          tx,
		cfg:         cfg,
		rng:         rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)),
	}
}
