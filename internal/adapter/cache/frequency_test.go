package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordpipe/internal/provider"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type mockSource struct {
	lookupFn  func(ctx context.Context, word string) (*provider.FrequencyResult, error)
	relatedFn func(ctx context.Context, word string) (*provider.Associations, error)
	lookups   int
	related   int
}

func (m *mockSource) Lookup(ctx context.Context, word string) (*provider.FrequencyResult, error) {
	m.lookups++
	return m.lookupFn(ctx, word)
}

func (m *mockSource) Related(ctx context.Context, word string) (*provider.Associations, error) {
	m.related++
	return m.relatedFn(ctx, word)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestFrequencyCache_Lookup_HitAfterMiss(t *testing.T) {
	t.Parallel()

	f := 2.5
	src := &mockSource{lookupFn: func(_ context.Context, w string) (*provider.FrequencyResult, error) {
		return &provider.FrequencyResult{Word: w, Frequency: &f, Syllables: 3}, nil
	}}
	c := NewFrequencyCache(src, newMemStore(), time.Hour, "t:", discard())

	for range 3 {
		res, err := c.Lookup(context.Background(), "Paradox")
		require.NoError(t, err)
		require.NotNil(t, res)
		require.NotNil(t, res.Frequency)
		assert.Equal(t, 2.5, *res.Frequency)
		assert.Equal(t, 3, res.Syllables)
	}
	assert.Equal(t, 1, src.lookups)
}

func TestFrequencyCache_Lookup_CachesUnknownWord(t *testing.T) {
	t.Parallel()

	src := &mockSource{lookupFn: func(context.Context, string) (*provider.FrequencyResult, error) { return nil, nil }}
	c := NewFrequencyCache(src, newMemStore(), time.Hour, "t:", discard())

	for range 2 {
		res, err := c.Lookup(context.Background(), "zzyzx")
		require.NoError(t, err)
		assert.Nil(t, res)
	}
	assert.Equal(t, 1, src.lookups)
}

func TestFrequencyCache_Lookup_ErrorNotCached(t *testing.T) {
	t.Parallel()

	calls := 0
	src := &mockSource{lookupFn: func(context.Context, string) (*provider.FrequencyResult, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream down")
		}
		return &provider.FrequencyResult{Word: "cat"}, nil
	}}
	c := NewFrequencyCache(src, newMemStore(), time.Hour, "t:", discard())

	_, err := c.Lookup(context.Background(), "cat")
	require.Error(t, err)

	res, err := c.Lookup(context.Background(), "cat")
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestFrequencyCache_StoreFailureFallsThrough(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.getErr = errors.New("connection refused")
	src := &mockSource{relatedFn: func(context.Context, string) (*provider.Associations, error) {
		return &provider.Associations{Synonyms: []string{"glad"}}, nil
	}}
	c := NewFrequencyCache(src, store, time.Hour, "t:", discard())

	for range 2 {
		res, err := c.Related(context.Background(), "happy")
		require.NoError(t, err)
		assert.Equal(t, []string{"glad"}, res.Synonyms)
	}
	assert.Equal(t, 2, src.related)
}

func TestFrequencyCache_Related_HitAfterMiss(t *testing.T) {
	t.Parallel()

	src := &mockSource{relatedFn: func(context.Context, string) (*provider.Associations, error) {
		return &provider.Associations{Synonyms: []string{"glad"}, Antonyms: []string{"sad"}}, nil
	}}
	c := NewFrequencyCache(src, newMemStore(), time.Hour, "t:", discard())

	_, err := c.Related(context.Background(), "happy")
	require.NoError(t, err)
	res, err := c.Related(context.Background(), "HAPPY")
	require.NoError(t, err)

	assert.Equal(t, []string{"sad"}, res.Antonyms)
	assert.Equal(t, 1, src.related)
}
