package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Scoring.validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.Eligibility.CommonThreshold <= 0 || c.Eligibility.CommonThreshold > 1 {
		return fmt.Errorf("eligibility: common_threshold must be in (0,1] (got %v)", c.Eligibility.CommonThreshold)
	}
	if c.Batch.Size <= 0 {
		return fmt.Errorf("batch: size must be > 0 (got %d)", c.Batch.Size)
	}
	if c.Batch.Delay < 0 {
		return fmt.Errorf("batch: delay must be >= 0 (got %s)", c.Batch.Delay)
	}
	if c.Association.MaxRetries < 0 {
		return fmt.Errorf("association: max_retries must be >= 0 (got %d)", c.Association.MaxRetries)
	}
	if err := c.Assignment.validate(); err != nil {
		return fmt.Errorf("assignment: %w", err)
	}
	if c.Scheduler.DaysAhead <= 0 {
		return fmt.Errorf("scheduler: days_ahead must be > 0 (got %d)", c.Scheduler.DaysAhead)
	}
	return nil
}

func (s *ScoringConfig) validate() error {
	weights := []*float64{&s.WeightFrequency, &s.WeightSemantic, &s.WeightStructural, &s.WeightDomain}

	var sum float64
	for _, w := range weights {
		if *w < 0 {
			return fmt.Errorf("weights must be >= 0 (got %v)", *w)
		}
		sum += *w
	}
	if sum == 0 {
		return fmt.Errorf("at least one weight must be > 0")
	}
	for _, w := range weights {
		*w /= sum
	}

	if s.MaxExpectedFrequency <= 0 {
		return fmt.Errorf("max_expected_frequency must be > 0 (got %v)", s.MaxExpectedFrequency)
	}
	if s.FrequencyExponent <= 0 {
		return fmt.Errorf("frequency_exponent must be > 0 (got %v)", s.FrequencyExponent)
	}
	if s.FrequencyFloor < 0 || s.FrequencyFloor >= 1 {
		return fmt.Errorf("frequency_floor must be in [0,1) (got %v)", s.FrequencyFloor)
	}
	return nil
}

func (a *AssignmentConfig) validate() error {
	if a.WordsPerDay <= 0 {
		return fmt.Errorf("words_per_day must be > 0 (got %d)", a.WordsPerDay)
	}
	if a.LookbackMonths < 0 {
		return fmt.Errorf("lookback_months must be >= 0 (got %d)", a.LookbackMonths)
	}
	if a.PoolLimit <= 0 {
		return fmt.Errorf("pool_limit must be > 0 (got %d)", a.PoolLimit)
	}
	if a.DistractorCount <= 0 {
		return fmt.Errorf("distractor_count must be > 0 (got %d)", a.DistractorCount)
	}
	if a.SimilarityThreshold <= 0 || a.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in (0,1] (got %v)", a.SimilarityThreshold)
	}

	dist, err := ParseDistribution(a.DistributionRaw)
	if err != nil {
		return fmt.Errorf("distribution: %w", err)
	}
	a.Distribution = dist
	return nil
}

// ParseDistribution parses a comma-separated list of tier:share pairs
// (e.g. "easy:0.4,medium:0.4,hard:0.2") and checks that the shares sum to 1.
func ParseDistribution(raw string) (domain.Distribution, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty distribution")
	}

	dist := make(domain.Distribution)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: want tier:share", part)
		}
		tier, ok := domain.ParseTier(name)
		if !ok {
			return nil, fmt.Errorf("unknown tier %q", name)
		}
		if _, dup := dist[tier]; dup {
			return nil, fmt.Errorf("duplicate tier %q", tier)
		}
		share, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid share for %s: %w", tier, err)
		}
		if share < 0 {
			return nil, fmt.Errorf("share for %s must be >= 0 (got %v)", tier, share)
		}
		dist[tier] = share
	}

	if err := dist.Validate(); err != nil {
		return nil, err
	}
	return dist, nil
}
