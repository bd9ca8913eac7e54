package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordpipe/internal/adapter/postgres/state"
	"github.com/heartmarshall/wordpipe/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wordpipe/internal/domain"
)

func TestRepo_Load_Missing(t *testing.T) {
	t.Parallel()
	repo := state.New(testhelper.SetupTestDB(t))

	s, err := repo.Load(context.Background(), testhelper.UniqueWord("state"))
	require.NoError(t, err)
	assert.Empty(t, s.Ranges)
	assert.Zero(t, s.TotalProcessed)
	assert.Zero(t, s.LastProcessedID)
}

func TestRepo_SaveLoadReset(t *testing.T) {
	t.Parallel()
	repo := state.New(testhelper.SetupTestDB(t))
	ctx := context.Background()
	name := testhelper.UniqueWord("state")

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s := domain.ProcessingState{}.
		WithProcessed(domain.IDRange{Start: 1, End: 100}, 100, domain.BatchCounts{Processed: 100, WithFrequency: 70, WithoutFrequency: 30}, at).
		WithProcessed(domain.IDRange{Start: 201, End: 300}, 300, domain.BatchCounts{Processed: 100, WithFrequency: 100}, at)

	require.NoError(t, repo.Save(ctx, name, s))

	got, err := repo.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []domain.IDRange{{Start: 1, End: 100}, {Start: 201, End: 300}}, got.Ranges)
	assert.Equal(t, int64(300), got.LastProcessedID)
	assert.Equal(t, 200, got.TotalProcessed)
	assert.Equal(t, 170, got.WithFrequency)
	assert.Equal(t, 30, got.WithoutFrequency)
	assert.True(t, got.UpdatedAt.Equal(at))

	// Saving again overwrites.
	next := got.WithProcessed(domain.IDRange{Start: 101, End: 200}, 200, domain.BatchCounts{Processed: 100}, at.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, name, next))

	got, err = repo.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []domain.IDRange{{Start: 1, End: 300}}, got.Ranges)
	assert.Equal(t, int64(300), got.LastProcessedID)
	assert.Equal(t, 300, got.TotalProcessed)

	require.NoError(t, repo.Reset(ctx, name))
	got, err = repo.Load(ctx, name)
	require.NoError(t, err)
	assert.Empty(t, got.Ranges)
	assert.Zero(t, got.TotalProcessed)

	// Reset of a missing state is not an error.
	require.NoError(t, repo.Reset(ctx, name))
}
