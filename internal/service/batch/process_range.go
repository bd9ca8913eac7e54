package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// ProcessRange scores every word with an ID in [StartID, EndID] in ascending
// batches of BatchSize IDs, sleeping the configured delay between batches.
//
// Unless Force is set, IDs already covered by the saved state are skipped.
// In Update mode each scored word is overwritten in the store and the state
// advances after every batch that completed without errors. A dry run never
// writes. A failed batch fetch is counted and the run moves on. The error
// return is reserved for invalid requests, state load failures and
// cancellation.
func (s *Service) ProcessRange(ctx context.Context, req Request) (Summary, error) {
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}
	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = s.cfg.BatchSize
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	started := s.now()
	span := domain.IDRange{Start: req.StartID, End: req.EndID}
	summary := Summary{Requested: span.Len(), DryRun: !req.Update}

	st, err := s.state.Load(ctx, s.cfg.StateName)
	if err != nil {
		return summary, fmt.Errorf("load processing state: %w", err)
	}

	pending := []domain.IDRange{span}
	if !req.Force {
		pending = st.Pending(span)
	}
	var pendingLen int64
	for _, p := range pending {
		pendingLen += p.Len()
	}
	summary.CoveredSkipped = summary.Requested - pendingLen

	s.log.InfoContext(ctx, "scoring run started",
		slog.Int64("start_id", req.StartID),
		slog.Int64("end_id", req.EndID),
		slog.Int("batch_size", batchSize),
		slog.Bool("update", req.Update),
		slog.Bool("force", req.Force),
		slog.Int64("covered_skipped", summary.CoveredSkipped),
	)

	first := true
	for _, p := range pending {
		for lo := p.Start; lo <= p.End; lo += int64(batchSize) {
			hi := min(lo+int64(batchSize)-1, p.End)

			if !first {
				if err := s.sleep(ctx, s.cfg.Delay); err != nil {
					summary.Duration = s.now().Sub(started)
					return summary, err
				}
			}
			first = false

			st = s.processWindow(ctx, domain.IDRange{Start: lo, End: hi}, batchSize, req.Update, st, &summary)
			if err := ctx.Err(); err != nil {
				summary.Duration = s.now().Sub(started)
				return summary, err
			}
		}
	}

	summary.Duration = s.now().Sub(started)
	s.log.InfoContext(ctx, "scoring run complete",
		slog.Int("batches", summary.Batches),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Errors),
		slog.Int("batch_errors", summary.BatchErrors),
		slog.Int("with_frequency", summary.WithFrequency),
		slog.Int("without_frequency", summary.WithoutFrequency),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// processWindow scores one batch and returns the state after it.
func (s *Service) processWindow(ctx context.Context, window domain.IDRange, limit int, update bool, st domain.ProcessingState, summary *Summary) domain.ProcessingState {
	summary.Batches++

	words, err := s.words.ListRange(ctx, window.Start, window.End, limit)
	if err != nil {
		summary.BatchErrors++
		s.log.ErrorContext(ctx, "fetch batch failed",
			slog.Int64("lo", window.Start),
			slog.Int64("hi", window.End),
			slog.String("error", err.Error()),
		)
		return st
	}

	var (
		counts domain.BatchCounts
		lastID int64
		failed bool
	)
	for i := range words {
		w := &words[i]
		lastID = max(lastID, w.ID)

		if domain.IsPhrase(w.Text) {
			summary.Skipped++
			summary.Items = append(summary.Items, Item{ID: w.ID, Text: w.Text, Status: StatusSkipped})
			continue
		}

		res := s.scorer.ScoreWord(ctx, w)
		item := Item{
			ID:           w.ID,
			Text:         w.Text,
			Status:       StatusScored,
			Score:        res.Difficulty.Score,
			Tier:         res.Difficulty.Tier,
			Confidence:   res.Difficulty.Confidence,
			UsesFallback: res.UsesFallback,
		}
		summary.ExternalErrors += res.ExternalErrors

		if update {
			if err := s.words.UpdateDifficulty(ctx, w.ID, res.Difficulty, res.Frequency, res.Syllables); err != nil {
				failed = true
				summary.Errors++
				item.Status = StatusError
				item.Error = err.Error()
				summary.Items = append(summary.Items, item)
				s.log.ErrorContext(ctx, "update difficulty failed",
					slog.Int64("word_id", w.ID),
					slog.String("word", w.Text),
					slog.String("error", err.Error()),
				)
				continue
			}
		}

		summary.Processed++
		counts.Processed++
		if res.UsesFallback {
			summary.WithoutFrequency++
			counts.WithoutFrequency++
		} else {
			summary.WithFrequency++
			counts.WithFrequency++
		}
		summary.Items = append(summary.Items, item)
	}

	s.log.DebugContext(ctx, "batch done",
		slog.Int64("lo", window.Start),
		slog.Int64("hi", window.End),
		slog.Int("words", len(words)),
		slog.Int("processed", counts.Processed),
	)

	if !update || failed {
		return st
	}

	next := st.WithProcessed(window, lastID, counts, s.now())
	if err := s.state.Save(ctx, s.cfg.StateName, next); err != nil {
		summary.BatchErrors++
		s.log.ErrorContext(ctx, "save processing state failed",
			slog.Int64("lo", window.Start),
			slog.Int64("hi", window.End),
			slog.String("error", err.Error()),
		)
		return st
	}
	return next
}
