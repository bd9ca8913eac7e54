package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// AssignForRange assigns WordsPerDay words to every date in
// [StartDate, EndDate], split across tiers by Distribution.
//
// Dates that already have assignments are reported as Existing and left
// untouched, unless Force is set, in which case they are cleared and
// reassigned. Candidates are words not assigned within the lookback window,
// topped up with the least recently assigned words when a tier runs short.
// When a tier still cannot cover the run, nothing is written and an
// *domain.InsufficientPoolError is returned per short tier. No word is used
// twice within a run.
func (s *Service) AssignForRange(ctx context.Context, req Request) (Result, error) {
	if req.WordsPerDay == 0 {
		req.WordsPerDay = s.cfg.WordsPerDay
	}
	if req.Distribution == nil {
		req.Distribution = s.cfg.Distribution
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	start, end := domain.Day(req.StartDate), domain.Day(req.EndDate)
	result := Result{StartDate: start, EndDate: end}

	// 1. Find the dates that need work.
	type pendingDay struct {
		index    int
		date     time.Time
		existing int
	}
	var pending []pendingDay
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		existing, err := s.assignments.ListByDate(ctx, date)
		if err != nil {
			return result, fmt.Errorf("list assignments for %s: %w", date.Format(domain.DateLayout), err)
		}
		result.Days = append(result.Days, DayResult{Date: date})
		day := &result.Days[len(result.Days)-1]

		if len(existing) > 0 && !req.Force {
			day.Existing = true
			day.Assignments = existing
			result.ExistingDays++
			continue
		}
		pending = append(pending, pendingDay{index: len(result.Days) - 1, date: date, existing: len(existing)})
	}
	if len(pending) == 0 {
		s.log.InfoContext(ctx, "all dates already assigned",
			slog.String("start", start.Format(domain.DateLayout)),
			slog.String("end", end.Format(domain.DateLayout)),
		)
		return result, nil
	}

	// 2. Work out how many words each tier needs.
	perDay := req.Distribution.Counts(req.WordsPerDay)
	required := make(map[domain.Tier]int, len(perDay))
	for tier, n := range perDay {
		required[tier] = n * len(pending)
	}

	// 3. Build the candidate pool.
	p, err := s.buildPool(ctx, start, required)
	if err != nil {
		return result, err
	}
	if short := p.shortfalls(required); len(short) > 0 {
		errs := make([]error, len(short))
		for i, e := range short {
			errs[i] = e
			s.log.WarnContext(ctx, "insufficient word pool",
				slog.String("tier", e.Tier.String()),
				slog.Int("required", e.Required),
				slog.Int("available", e.Available),
			)
		}
		return result, errors.Join(errs...)
	}

	// 4. Draw, quiz and persist day by day.
	for _, pd := range pending {
		rows := make([]domain.DailyAssignment, 0, req.WordsPerDay)
		for _, tier := range domain.Tiers {
			for slot := range perDay[tier] {
				w := s.draw(p, tier)
				quiz, err := s.quizzes.QuizFor(ctx, w, tier)
				if err != nil {
					return result, fmt.Errorf("build quiz for %q: %w", w.Text, err)
				}
				rows = append(rows, domain.DailyAssignment{
					Date:   pd.date,
					Tier:   tier,
					Slot:   slot,
					WordID: w.ID,
					Word:   w.Text,
					Quiz:   quiz,
				})
			}
		}

		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if pd.existing > 0 {
				if _, err := s.assignments.DeleteByDate(ctx, pd.date); err != nil {
					return err
				}
			}
			_, err := s.assignments.InsertDay(ctx, rows)
			return err
		})
		if err != nil {
			return result, fmt.Errorf("save assignments for %s: %w", pd.date.Format(domain.DateLayout), err)
		}

		day := &result.Days[pd.index]
		day.Replaced = pd.existing
		day.Assignments = rows
		result.AssignedCount += len(rows)
	}

	s.log.InfoContext(ctx, "assignment run complete",
		slog.String("start", start.Format(domain.DateLayout)),
		slog.String("end", end.Format(domain.DateLayout)),
		slog.Int("assigned", result.AssignedCount),
		slog.Int("existing_days", result.ExistingDays),
	)
	return result, nil
}

// buildPool loads the candidates for a run starting at start. Fresh words
// are read in pages of PoolLimit rows, beginning at a random ID and wrapping
// around, until every tier is covered or the store is exhausted. Fallback
// words are only loaded when a tier is still short after that.
func (s *Service) buildPool(ctx context.Context, start time.Time, required map[domain.Tier]int) (*pool, error) {
	cutoff := start.AddDate(0, -s.cfg.LookbackMonths, 0)
	p := newPool()

	fresh, err := s.loadFresh(ctx, p, cutoff, required)
	if err != nil {
		return nil, err
	}
	if len(p.shortfalls(required)) == 0 {
		return p, nil
	}

	reused, err := s.words.ListLeastRecentlyAssigned(ctx, cutoff, s.cfg.PoolLimit)
	if err != nil {
		return nil, fmt.Errorf("list fallback words: %w", err)
	}
	short := map[domain.Tier]bool{}
	for _, e := range p.shortfalls(required) {
		short[e.Tier] = true
	}
	added := 0
	for i := range reused {
		w := &reused[i].Word
		if !s.prepare(ctx, w) || !short[w.Difficulty.Tier] {
			continue
		}
		p.add(w, true)
		added++
	}
	s.log.InfoContext(ctx, "topped up pool with recently used words",
		slog.Int("fresh", fresh),
		slog.Int("fallback", added),
	)
	return p, nil
}

// loadFresh pages through the words not assigned since cutoff and adds the
// usable ones to p. It returns how many rows were read.
func (s *Service) loadFresh(ctx context.Context, p *pool, cutoff time.Time, required map[domain.Tier]int) (int, error) {
	bounds, err := s.words.IDBounds(ctx)
	if err != nil {
		return 0, fmt.Errorf("word id bounds: %w", err)
	}
	if bounds.Len() == 0 {
		return 0, nil
	}

	pivot := bounds.Start + s.rng.Int64N(bounds.Len())
	spans := []domain.IDRange{{Start: pivot, End: bounds.End}, {Start: bounds.Start, End: pivot - 1}}

	read := 0
	for _, span := range spans {
		for lo := span.Start; lo <= span.End; {
			if len(p.shortfalls(required)) == 0 {
				return read, nil
			}
			if err := ctx.Err(); err != nil {
				return read, err
			}

			page, err := s.words.ListUnassignedSince(ctx, cutoff, domain.IDRange{Start: lo, End: span.End}, s.cfg.PoolLimit)
			if err != nil {
				return read, fmt.Errorf("list candidate words: %w", err)
			}
			read += len(page)
			for i := range page {
				if w := &page[i]; s.prepare(ctx, w) {
					p.add(w, false)
				}
			}
			if len(page) < s.cfg.PoolLimit {
				break
			}
			lo = page[len(page)-1].ID + 1
		}
	}
	return read, ctx.Err()
}
