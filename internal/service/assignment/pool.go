package assignment

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// bucket holds the candidates of one tier. fresh words were not assigned
// within the lookback window and are drawn at random. reused words are the
// fallback, drawn least recently assigned first.
type bucket struct {
	fresh  []*domain.Word
	reused []*domain.Word
}

func (b *bucket) size() int { return len(b.fresh) + len(b.reused) }

// pool partitions candidates by tier and removes drawn words.
type pool struct {
	buckets map[domain.Tier]*bucket
	seen    map[int64]struct{}
}

func newPool() *pool {
	p := &pool{buckets: make(map[domain.Tier]*bucket, len(domain.Tiers)), seen: map[int64]struct{}{}}
	for _, t := range domain.Tiers {
		p.buckets[t] = &bucket{}
	}
	return p
}

func (p *pool) add(w *domain.Word, reused bool) {
	if _, dup := p.seen[w.ID]; dup {
		return
	}
	p.seen[w.ID] = struct{}{}
	b := p.buckets[w.Difficulty.Tier]
	if reused {
		b.reused = append(b.reused, w)
	} else {
		b.fresh = append(b.fresh, w)
	}
}

// shortfalls returns an error per tier that cannot cover required.
func (p *pool) shortfalls(required map[domain.Tier]int) []*domain.InsufficientPoolError {
	var out []*domain.InsufficientPoolError
	for _, t := range domain.Tiers {
		if need := required[t]; need > p.buckets[t].size() {
			out = append(out, &domain.InsufficientPoolError{Tier: t, Required: need, Available: p.buckets[t].size()})
		}
	}
	return out
}

// draw removes one word of tier t: a uniformly random fresh word, or the
// least recently used reused word once the fresh ones run out.
func (s *Service) draw(p *pool, t domain.Tier) *domain.Word {
	b := p.buckets[t]
	if n := len(b.fresh); n > 0 {
		i := s.rng.IntN(n)
		w := b.fresh[i]
		b.fresh[i] = b.fresh[n-1]
		b.fresh = b.fresh[:n-1]
		return w
	}
	if len(b.reused) > 0 {
		w := b.reused[0]
		b.reused = b.reused[1:]
		return w
	}
	return nil
}

// prepare makes w a usable candidate: it must pass the eligibility filter,
// have a definition to quiz on and carry a score. Unscored words are scored
// and the score is saved.
func (s *Service) prepare(ctx context.Context, w *domain.Word) bool {
	if res := s.eligibility.Eligible(ctx, w.Text); !res.Valid {
		s.log.DebugContext(ctx, "candidate rejected",
			slog.String("word", w.Text),
			slog.String("reason", res.Reason.String()),
		)
		return false
	}
	if w.PrimaryDefinition() == "" {
		return false
	}
	if w.IsScored() {
		// Tier is always re-derived from the stored score.
		w.Difficulty.Tier = domain.TierForScore(w.Difficulty.Score)
		return true
	}

	res := s.scorer.ScoreWord(ctx, w)
	d := res.Difficulty
	w.Difficulty = &d
	if err := s.words.UpdateDifficulty(ctx, w.ID, d, res.Frequency, res.Syllables); err != nil {
		s.log.WarnContext(ctx, "save candidate score failed",
			slog.Int64("word_id", w.ID),
			slog.String("word", w.Text),
			slog.String("error", err.Error()),
		)
	}
	return true
}
