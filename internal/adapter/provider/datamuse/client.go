// Package datamuse talks to a Datamuse-compatible word association API.
package datamuse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/wordpipe/internal/provider"
	"github.com/heartmarshall/wordpipe/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.datamuse.com"
	relatedLimit   = 20
)

// Options configures a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client fetches frequency and association data.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	limiter      ratelimit.Limiter
	maxRetries   int
	retryBackoff time.Duration
	log          *slog.Logger
}

// NewClient creates a Client. The limiter is shared by every caller of the
// same upstream; pass ratelimit.Noop{} to disable limiting.
func NewClient(opts Options, limiter ratelimit.Limiter, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: opts.Timeout},
		limiter:      limiter,
		maxRetries:   max(opts.MaxRetries, 0),
		retryBackoff: opts.RetryBackoff,
		log:          logger.With("adapter", "datamuse"),
	}
}

// Lookup returns the frequency signal and syllable count for word.
// Returns nil, nil when the service does not know the word.
func (c *Client) Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error) {
	params := url.Values{}
	params.Set("sp", word)
	params.Set("md", "fs")
	params.Set("max", "1")

	words, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("datamuse: lookup %q: %w", word, err)
	}
	if len(words) == 0 || !strings.EqualFold(words[0].Word, word) {
		return nil, nil
	}

	result := &provider.FrequencyResult{
		Word:      words[0].Word,
		Frequency: parseFrequencyTag(words[0].Tags),
		Syllables: words[0].NumSyllables,
	}

	c.log.DebugContext(ctx, "datamuse lookup",
		slog.String("word", word),
		slog.Bool("has_frequency", result.Frequency != nil),
		slog.Int("syllables", result.Syllables),
	)
	return result, nil
}

// Related returns synonyms and antonyms for word.
func (c *Client) Related(ctx context.Context, word string) (*provider.Associations, error) {
	synonyms, err := c.related(ctx, "rel_syn", word)
	if err != nil {
		return nil, fmt.Errorf("datamuse: synonyms %q: %w", word, err)
	}
	antonyms, err := c.related(ctx, "rel_ant", word)
	if err != nil {
		return nil, fmt.Errorf("datamuse: antonyms %q: %w", word, err)
	}
	return &provider.Associations{Synonyms: synonyms, Antonyms: antonyms}, nil
}

func (c *Client) related(ctx context.Context, rel, word string) ([]string, error) {
	params := url.Values{}
	params.Set(rel, word)
	params.Set("max", strconv.Itoa(relatedLimit))

	words, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w.Word != "" && !strings.EqualFold(w.Word, word) {
			out = append(out, w.Word)
		}
	}
	return out, nil
}

// errRetryable marks responses worth another attempt.
var errRetryable = errors.New("retryable status")

// get issues GET /words with params, retrying network errors, 429 and 5xx
// with exponential backoff up to maxRetries extra attempts.
func (c *Client) get(ctx context.Context, params url.Values) ([]apiWord, error) {
	reqURL := c.baseURL + "/words?" + params.Encode()

	attempt := func() ([]apiWord, error) {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w %d", errRetryable, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		var words []apiWord
		if err := json.Unmarshal(body, &words); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode json: %w", err))
		}
		return words, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBackoff
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "datamuse retry",
			slog.String("query", params.Encode()),
			slog.String("reason", err.Error()),
			slog.Duration("wait", wait),
		)
	}

	words, err := backoff.RetryNotifyWithData(attempt,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx), notify)
	if err != nil {
		c.log.ErrorContext(ctx, "datamuse request failed",
			slog.String("query", params.Encode()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return words, nil
}

// parseFrequencyTag extracts the "f:<per-million>" metadata tag.
func parseFrequencyTag(tags []string) *float64 {
	for _, tag := range tags {
		raw, ok := strings.CutPrefix(tag, "f:")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil
		}
		return &f
	}
	return nil
}
