package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
	"github.com/cognicore/promptstat/pkg/promptstat/store"
)

func TestRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRun(ctx, store.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	runs, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestSaveRunRequiresID(t *testing.T) {
	err := New().SaveRun(context.Background(), store.Run{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestResultsNeedRun(t *testing.T) {
	err := New().SaveFrequencies(context.Background(), "missing", "cleaned_prompt", []store.WordCount{{Word: "pop", Count: 1}})
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestResultsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "r1", StartedAt: time.Now()}))

	rows := []store.WordCount{{Word: "pop", Count: 3}, {Word: "rock", Count: 1}}
	require.NoError(t, s.SaveFrequencies(ctx, "r1", "cleaned_prompt", rows))
	rows[0].Count = 99 // stored copy must not change

	got, err := s.Frequencies(ctx, "r1", "cleaned_prompt")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Count)

	_, err = s.Frequencies(ctx, "r1", "cleaned_tags")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	require.NoError(t, s.SavePairs(ctx, "r1", "cleaned_prompt", []store.Pair{{Word1: "pop", Word2: "rock", Count: 2}}))
	pairs, err := s.Pairs(ctx, "r1", "cleaned_prompt")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 2, pairs[0].Count)

	require.NoError(t, s.SaveConsistency(ctx, "r1", []store.Consistency{{Category: "genres", Count: 4}}))
	cons, err := s.Consistency(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, cons, 1)
	assert.Equal(t, "genres", cons[0].Category)
}
