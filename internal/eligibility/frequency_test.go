package eligibility

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/heartmarshall/wordpipe/internal/provider"
)

type mockFrequencySource struct {
	lookupFn func(ctx context.Context, word string) (*provider.FrequencyResult, error)
	calls    int
}

func (m *mockFrequencySource) Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error) {
	m.calls++
	return m.lookupFn(ctx, word)
}

func freq(f float64) *provider.FrequencyResult {
	return &provider.FrequencyResult{Frequency: &f}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestFrequencyChecker_Eligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *provider.FrequencyResult
		err    error
		want   Result
	}{
		{"rare word", freq(0.3), nil, Result{Valid: true}},
		{"at threshold", freq(7.2), nil, Result{Valid: true}},
		{"above threshold", freq(7.3), nil, Result{Reason: ReasonTooCommon}},
		{"saturated", freq(900), nil, Result{Reason: ReasonTooCommon}},
		{"unknown word", nil, nil, Result{Valid: true}},
		{"no frequency tag", &provider.FrequencyResult{Syllables: 2}, nil, Result{Valid: true}},
		{"service error fails open", nil, errors.New("timeout"), Result{Valid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := &mockFrequencySource{lookupFn: func(context.Context, string) (*provider.FrequencyResult, error) {
				return tt.result, tt.err
			}}
			c := NewFrequencyChecker(src, 8, 0.9, discard())

			if got := c.Eligible(context.Background(), "paradox"); got != tt.want {
				t.Errorf("Eligible() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrequencyChecker_SyncRulesFirst(t *testing.T) {
	t.Parallel()

	src := &mockFrequencySource{lookupFn: func(context.Context, string) (*provider.FrequencyResult, error) {
		return freq(0.1), nil
	}}
	c := NewFrequencyChecker(src, 8, 0.9, discard())

	if got := c.Eligible(context.Background(), "don't"); got.Reason != ReasonContraction {
		t.Errorf("Reason = %q, want contraction", got.Reason)
	}
	if src.calls != 0 {
		t.Errorf("source called %d times for a synchronously rejected word", src.calls)
	}
}
