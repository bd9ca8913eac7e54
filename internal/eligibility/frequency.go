package eligibility

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordpipe/internal/provider"
)

// FrequencySource supplies the external frequency signal.
type FrequencySource interface {
	Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error)
}

// FrequencyChecker extends Check by rejecting words whose normalised
// frequency is above a threshold. Source failures never block a word.
type FrequencyChecker struct {
	source      FrequencySource
	maxExpected float64
	threshold   float64
	log         *slog.Logger
}

// NewFrequencyChecker creates a FrequencyChecker. Frequencies are normalised
// as min(f/maxExpected, 1) before comparison with threshold.
func NewFrequencyChecker(source FrequencySource, maxExpected, threshold float64, logger *slog.Logger) *FrequencyChecker {
	return &FrequencyChecker{
		source:      source,
		maxExpected: maxExpected,
		threshold:   threshold,
		log:         logger.With("service", "eligibility"),
	}
}

func (c *FrequencyChecker) Eligible(ctx context.Context, candidate string) Result {
	if res := Check(candidate); !res.Valid {
		return res
	}

	freq, err := c.source.Lookup(ctx, candidate)
	if err != nil {
		c.log.WarnContext(ctx, "frequency lookup failed, treating as eligible",
			slog.String("word", candidate),
			slog.String("error", err.Error()),
		)
		return valid()
	}
	if freq == nil || freq.Frequency == nil {
		return valid()
	}

	if normalized := min(*freq.Frequency/c.maxExpected, 1); normalized > c.threshold {
		return reject(ReasonTooCommon)
	}
	return valid()
}
