// Package difficulty computes a word's difficulty score and tier from
// frequency, semantic, structural and domain signals.
package difficulty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/internal/provider"
)

// Per-source confidence weights.
const (
	lexicalConfidence  = 0.8
	externalConfidence = 0.9
	noSourceConfidence = 0.2
)

// WordSource is the lexical store.
type WordSource interface {
	GetByText(ctx context.Context, text string) (*domain.Word, error)
}

// FrequencySource is the external frequency service.
type FrequencySource interface {
	Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error)
}

// Config holds the scorer parameters.
type Config struct {
	Weights   Weights
	Frequency FrequencyParams
}

// Result is the outcome of scoring one word.
type Result struct {
	Difficulty domain.Difficulty
	// Frequency is the signal the frequency component used, nil when estimated.
	Frequency    *float64
	Syllables    int
	UsesFallback bool
	LexicalHit   bool
	ExternalHit  bool
	// ExternalErrors counts failed data-source calls during scoring.
	ExternalErrors int
}

// Scorer computes word difficulty. It never fails: missing data degrades to
// fallbacks and lowers confidence.
type Scorer struct {
	words   WordSource
	freq    FrequencySource
	weights Weights
	params  FrequencyParams
	profile *Profile
	log     *slog.Logger
	now     func() time.Time
}

// NewScorer validates the configuration and creates a Scorer. Weight
// overrides in profile take precedence over cfg.Weights. freq may be nil.
func NewScorer(words WordSource, freq FrequencySource, cfg Config, profile *Profile, logger *slog.Logger) (*Scorer, error) {
	if profile == nil {
		profile = DefaultProfile()
	}

	raw := cfg.Weights
	if profile.Weights != nil {
		raw = *profile.Weights
	}
	weights, err := raw.Normalize()
	if err != nil {
		return nil, err
	}

	params := cfg.Frequency
	if params == (FrequencyParams{}) {
		params = DefaultFrequencyParams
	}
	if params.MaxExpected <= 0 || params.Exponent <= 0 || params.Floor < 0 || params.Floor >= 1 {
		return nil, fmt.Errorf("difficulty: invalid frequency params %+v", params)
	}

	return &Scorer{
		words:   words,
		freq:    freq,
		weights: weights,
		params:  params,
		profile: profile,
		log:     logger.With("service", "difficulty"),
		now:     time.Now,
	}, nil
}

// Weights returns the normalised weights in use.
func (s *Scorer) Weights() Weights { return s.weights }

// Score loads text from the lexical store and scores it. A store miss or
// failure scores the bare text.
func (s *Scorer) Score(ctx context.Context, text string) Result {
	text = domain.NormalizeText(text)

	lookupErrors := 0
	word, err := s.words.GetByText(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		word = nil
	default:
		lookupErrors++
		s.log.WarnContext(ctx, "lexical store lookup failed",
			slog.String("word", text),
			slog.String("error", err.Error()),
		)
		word = nil
	}

	lexicalHit := word != nil
	if word == nil {
		word = &domain.Word{Text: text}
	}

	res := s.score(ctx, word, lexicalHit)
	res.ExternalErrors += lookupErrors
	res.Difficulty.Metadata["external_errors"] = res.ExternalErrors
	return res
}

// ScoreWord scores an already loaded word.
func (s *Scorer) ScoreWord(ctx context.Context, word *domain.Word) Result {
	return s.score(ctx, word, true)
}

func (s *Scorer) score(ctx context.Context, word *domain.Word, lexicalHit bool) Result {
	res := Result{LexicalHit: lexicalHit}

	var ext *provider.FrequencyResult
	if s.freq != nil {
		r, err := s.freq.Lookup(ctx, word.Text)
		if err != nil {
			res.ExternalErrors++
			s.log.WarnContext(ctx, "frequency lookup failed",
				slog.String("word", word.Text),
				slog.String("error", err.Error()),
			)
		} else if r != nil {
			ext = r
			res.ExternalHit = true
		}
	}

	frequencySource := "estimate"
	switch {
	case ext != nil && ext.Frequency != nil:
		res.Frequency = ext.Frequency
		frequencySource = "external"
	case word.Frequency != nil:
		res.Frequency = word.Frequency
		frequencySource = "lexical"
	}

	res.Syllables = word.Syllables
	switch {
	case res.Syllables > 0:
	case ext != nil && ext.Syllables > 0:
		res.Syllables = ext.Syllables
	default:
		res.Syllables = EstimateSyllables(word.Text)
	}

	length := utf8.RuneCountInString(word.Text)

	var c domain.Components
	if res.Frequency != nil {
		c.Frequency = frequencyScore(*res.Frequency, s.params)
	} else {
		c.Frequency = frequencyEstimate(length, res.Syllables, s.params)
		res.UsesFallback = true
	}
	c.Semantic = semanticScore(word.Senses)
	c.Structural = structuralScore(word.Text, res.Syllables)
	domainValue, domains := domainScore(word.Senses, s.profile)
	c.Domain = domainValue

	metadata := map[string]any{
		"frequency_source":   frequencySource,
		"frequency_fallback": res.UsesFallback,
		"sense_count":        len(word.Senses),
		"syllables":          res.Syllables,
		"length":             length,
		"domains":            domains,
		"lexical_hit":        res.LexicalHit,
		"external_hit":       res.ExternalHit,
		"external_errors":    res.ExternalErrors,
	}
	if res.Frequency != nil {
		metadata["frequency"] = *res.Frequency
	}

	res.Difficulty = domain.NewDifficulty(s.weights.combine(c), confidence(res.LexicalHit, res.ExternalHit), c, metadata, s.now())
	return res
}

func confidence(lexical, external bool) float64 {
	var sum float64
	n := 0
	if lexical {
		sum += lexicalConfidence
		n++
	}
	if external {
		sum += externalConfidence
		n++
	}
	if n == 0 {
		return noSourceConfidence
	}
	return sum / float64(n)
}
