package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/wordpipe/internal/adapter/cache"
	"github.com/heartmarshall/wordpipe/internal/adapter/postgres"
	assignmentrepo "github.com/heartmarshall/wordpipe/internal/adapter/postgres/assignment"
	distractorrepo "github.com/heartmarshall/wordpipe/internal/adapter/postgres/distractor"
	"github.com/heartmarshall/wordpipe/internal/adapter/postgres/state"
	"github.com/heartmarshall/wordpipe/internal/adapter/postgres/word"
	"github.com/heartmarshall/wordpipe/internal/adapter/provider/datamuse"
	"github.com/heartmarshall/wordpipe/internal/config"
	"github.com/heartmarshall/wordpipe/internal/difficulty"
	"github.com/heartmarshall/wordpipe/internal/eligibility"
	"github.com/heartmarshall/wordpipe/internal/provider"
	"github.com/heartmarshall/wordpipe/internal/ratelimit"
	"github.com/heartmarshall/wordpipe/internal/scheduler"
	"github.com/heartmarshall/wordpipe/internal/service/assignment"
	"github.com/heartmarshall/wordpipe/internal/service/batch"
	"github.com/heartmarshall/wordpipe/internal/service/distractor"
)

// associations is the external frequency and association service, possibly
// cached. A nil value disables every external lookup.
type associations interface {
	Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error)
	Related(ctx context.Context, word string) (*provider.Associations, error)
}

// App holds every wired component. Build it with New and release it with Close.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool

	Words       *word.Repo
	State       *state.Repo
	Assignments *assignmentrepo.Repo

	Scorer      *difficulty.Scorer
	Eligibility eligibility.Checker
	Batch       *batch.Service
	Distractors *distractor.Service
	Assigner    *assignment.Service
	Scheduler   *scheduler.Scheduler

	redis *redis.Client
}

// New connects to the database and the optional cache, then wires the
// repositories and services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Log: logger, Pool: pool}

	assoc, err := a.associations(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	profile := difficulty.DefaultProfile()
	if cfg.Scoring.ProfilePath != "" {
		profile, err = difficulty.LoadProfile(cfg.Scoring.ProfilePath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load scoring profile: %w", err)
		}
	}

	a.Words = word.New(pool)
	a.State = state.New(pool)
	a.Assignments = assignmentrepo.New(pool)
	distractors := distractorrepo.New(pool)

	a.Scorer, err = difficulty.NewScorer(a.Words, assoc, difficulty.Config{
		Weights: difficulty.Weights{
			Frequency:  cfg.Scoring.WeightFrequency,
			Semantic:   cfg.Scoring.WeightSemantic,
			Structural: cfg.Scoring.WeightStructural,
			Domain:     cfg.Scoring.WeightDomain,
		},
		Frequency: difficulty.FrequencyParams{
			MaxExpected: cfg.Scoring.MaxExpectedFrequency,
			Exponent:    cfg.Scoring.FrequencyExponent,
			Floor:       cfg.Scoring.FrequencyFloor,
		},
	}, profile, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Eligibility = eligibility.Static{}
	if cfg.Eligibility.FrequencyCheck && assoc != nil {
		a.Eligibility = eligibility.NewFrequencyChecker(assoc, cfg.Scoring.MaxExpectedFrequency, cfg.Eligibility.CommonThreshold, logger)
	}

	a.Batch = batch.NewService(logger, a.Words, a.State, a.Scorer, batch.Config{
		BatchSize: cfg.Batch.Size,
		Delay:     cfg.Batch.Delay,
		StateName: cfg.Batch.StateName,
	})

	a.Distractors = distractor.NewService(logger, distractors, a.Words, assoc, distractor.Config{
		Count:               cfg.Assignment.DistractorCount,
		SimilarityThreshold: cfg.Assignment.SimilarityThreshold,
		Seed:                cfg.Assignment.Seed,
	})

	a.Assigner = assignment.NewService(logger, a.Words, a.Assignments, a.Eligibility, a.Scorer, a.Distractors,
		postgres.NewTxManager(pool), assignment.Config{
			WordsPerDay:    cfg.Assignment.WordsPerDay,
			Distribution:   cfg.Assignment.Distribution,
			LookbackMonths: cfg.Assignment.LookbackMonths,
			PoolLimit:      cfg.Assignment.PoolLimit,
			Seed:           cfg.Assignment.Seed,
		})

	a.Scheduler = scheduler.New(logger, a.Assigner, scheduler.Config{
		Cron:      cfg.Scheduler.Cron,
		DaysAhead: cfg.Scheduler.DaysAhead,
	})

	return a, nil
}

// associations builds the rate-limited datamuse client, wrapped by the redis
// cache when one is configured. Returns nil when the service is disabled.
func (a *App) associations(ctx context.Context) (associations, error) {
	cfg := a.Config.Association
	if !cfg.Enabled {
		a.Log.InfoContext(ctx, "association service disabled")
		return nil, nil
	}

	client := datamuse.NewClient(datamuse.Options{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, ratelimit.NewInterval(cfg.RateInterval), a.Log)

	if !a.Config.Cache.Enabled() {
		return client, nil
	}

	rdb, err := cache.Connect(ctx, a.Config.Cache.RedisURL)
	if err != nil {
		return nil, err
	}
	a.redis = rdb
	return cache.NewFrequencyCache(client, cache.NewRedisStore(rdb), a.Config.Cache.TTL, a.Config.Cache.KeyPrefix, a.Log), nil
}

// Close stops the scheduler and releases connections.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("close redis", slog.String("error", err.Error()))
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
