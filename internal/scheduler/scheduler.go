// Package scheduler runs the daily assignment job on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/internal/service/assignment"
)

type assigner interface {
	AssignForRange(ctx context.Context, req assignment.Request) (assignment.Result, error)
}

// Config holds the job schedule.
type Config struct {
	Cron      string
	DaysAhead int
}

// Scheduler keeps the next DaysAhead days assigned.
type Scheduler struct {
	cron     *gocron.Scheduler
	assigner assigner
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

// New creates a Scheduler. Nothing runs until Start.
func New(log *slog.Logger, assigner assigner, cfg Config) *Scheduler {
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = 1
	}
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	return &Scheduler{
		cron:     cron,
		assigner: assigner,
		cfg:      cfg,
		log:      log.With("component", "scheduler"),
		now:      time.Now,
	}
}

// Start registers the job and starts the scheduler in the background.
// Jobs use ctx, so cancelling it aborts an in-flight run.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.Cron(s.cfg.Cron).Do(s.tick, ctx); err != nil {
		return fmt.Errorf("schedule %q: %w", s.cfg.Cron, err)
	}
	s.cron.StartAsync()
	s.log.InfoContext(ctx, "scheduler started",
		slog.String("cron", s.cfg.Cron),
		slog.Int("days_ahead", s.cfg.DaysAhead),
	)
	return nil
}

// Stop terminates the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce assigns today through today+DaysAhead-1. Dates that already have
// assignments are kept.
func (s *Scheduler) RunOnce(ctx context.Context) (assignment.Result, error) {
	start := domain.Day(s.now().UTC())
	end := start.AddDate(0, 0, s.cfg.DaysAhead-1)
	return s.assigner.AssignForRange(ctx, assignment.Request{StartDate: start, EndDate: end})
}

func (s *Scheduler) tick(ctx context.Context) {
	res, err := s.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientPool) {
			s.log.WarnContext(ctx, "word pool exhausted", slog.String("error", err.Error()))
			return
		}
		s.log.ErrorContext(ctx, "scheduled assignment failed", slog.String("error", err.Error()))
		return
	}
	s.log.InfoContext(ctx, "scheduled assignment done",
		slog.String("start", res.StartDate.Format(domain.DateLayout)),
		slog.String("end", res.EndDate.Format(domain.DateLayout)),
		slog.Int("assigned", res.AssignedCount),
		slog.Int("existing_days", res.ExistingDays),
	)
}
