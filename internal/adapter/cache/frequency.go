package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/wordpipe/internal/provider"
)

// Store is a byte-oriented key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Source is the association service being cached.
type Source interface {
	Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error)
	Related(ctx context.Context, word string) (*provider.Associations, error)
}

// FrequencyCache caches Source results. Unknown words are cached too, so a
// miss upstream is not asked again until the entry expires. Store failures
// are logged and the call falls through to the source.
type FrequencyCache struct {
	next   Source
	store  Store
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// NewFrequencyCache wraps next with a cache.
func NewFrequencyCache(next Source, store Store, ttl time.Duration, prefix string, logger *slog.Logger) *FrequencyCache {
	return &FrequencyCache{
		next:   next,
		store:  store,
		ttl:    ttl,
		prefix: prefix,
		log:    logger.With("adapter", "cache"),
	}
}

// lookupEntry distinguishes a cached "unknown word" from a cache miss.
type lookupEntry struct {
	Found  bool                      `json:"found"`
	Result *provider.FrequencyResult `json:"result,omitempty"`
}

func (c *FrequencyCache) Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error) {
	key := c.key("freq", word)

	var entry lookupEntry
	if c.load(ctx, key, &entry) {
		return entry.Result, nil
	}

	res, err := c.next.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, lookupEntry{Found: res != nil, Result: res})
	return res, nil
}

func (c *FrequencyCache) Related(ctx context.Context, word string) (*provider.Associations, error) {
	key := c.key("rel", word)

	var assoc provider.Associations
	if c.load(ctx, key, &assoc) {
		return &assoc, nil
	}

	res, err := c.next.Related(ctx, word)
	if err != nil {
		return nil, err
	}
	if res != nil {
		c.save(ctx, key, res)
	}
	return res, nil
}

func (c *FrequencyCache) key(kind, word string) string {
	return c.prefix + kind + ":" + strings.ToLower(word)
}

func (c *FrequencyCache) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.WarnContext(ctx, "cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *FrequencyCache) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
