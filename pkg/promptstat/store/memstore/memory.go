package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
	"github.com/cognicore/promptstat/pkg/promptstat/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps runs and their result rows in maps. It backs the pipeline tests
// and callers that pass their own store.Store.
type Store struct {
	mu          sync.RWMutex
	runs        map[string]store.Run
	frequencies map[string][]store.WordCount
	pairs       map[string][]store.Pair
	consistency map[string][]store.Consistency
}

// New returns an empty store.
func New() *Store {
	return &Store{
		runs:        make(map[string]store.Run),
		frequencies: make(map[string][]store.WordCount),
		pairs:       make(map[string][]store.Pair),
		consistency: make(map[string][]store.Consistency),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or updates a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r.Stages = append([]store.StageOutcome(nil), r.Stages...)
	s.runs[r.ID] = r
	return nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SaveFrequencies replaces the frequency rows of one column of a run.
func (s *Store) SaveFrequencies(ctx context.Context, runID, column string, rows []store.WordCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	s.frequencies[key(runID, column)] = append([]store.WordCount(nil), rows...)
	return nil
}

// Frequencies returns the stored frequency rows of a column.
func (s *Store) Frequencies(ctx context.Context, runID, column string) ([]store.WordCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.frequencies[key(runID, column)]
	if len(rows) == 0 {
		return nil, fmt.Errorf("frequencies %s/%s: %w", runID, column, internalerr.ErrNotFound)
	}
	return append([]store.WordCount(nil), rows...), nil
}

// SavePairs replaces the pair rows of one column of a run.
func (s *Store) SavePairs(ctx context.Context, runID, column string, rows []store.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	s.pairs[key(runID, column)] = append([]store.Pair(nil), rows...)
	return nil
}

// Pairs returns the stored pairs of a column.
func (s *Store) Pairs(ctx context.Context, runID, column string) ([]store.Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Pair(nil), s.pairs[key(runID, column)]...), nil
}

// SaveConsistency replaces the consistency summaries of a run.
func (s *Store) SaveConsistency(ctx context.Context, runID string, rows []store.Consistency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	s.consistency[runID] = append([]store.Consistency(nil), rows...)
	return nil
}

// Consistency returns the consistency summaries of a run.
func (s *Store) Consistency(ctx context.Context, runID string) ([]store.Consistency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Consistency(nil), s.consistency[runID]...), nil
}

func key(runID, column string) string {
	return runID + "\x00" + column
}
