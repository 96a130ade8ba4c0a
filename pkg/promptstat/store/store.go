// Package store persists the results of analysis runs so they can be
// listed and compared later.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the interface for persisting and reading back run results.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	Runs(ctx context.Context, limit int) ([]Run, error)

	// Results
	SaveFrequencies(ctx context.Context, runID, column string, rows []WordCount) error
	Frequencies(ctx context.Context, runID, column string) ([]WordCount, error)
	SavePairs(ctx context.Context, runID, column string, rows []Pair) error
	Pairs(ctx context.Context, runID, column string) ([]Pair, error)
	SaveConsistency(ctx context.Context, runID string, rows []Consistency) error
	Consistency(ctx context.Context, runID string) ([]Consistency, error)
}

// Run describes one analysis run.
type Run struct {
	ID        string
	Input     string
	OutputDir string
	StartedAt time.Time
	Records   int
	Stages    []StageOutcome
}

// StageOutcome is the recorded status of one pipeline stage.
type StageOutcome struct {
	Stage  string
	Status string
	Reason string
}

// WordCount is a stored frequency row.
type WordCount struct {
	Word  string
	Count int
}

// Pair is a stored co-occurrence row. Cross-column pairs keep the left
// word in Word1.
type Pair struct {
	Word1 string
	Word2 string
	Count int
	NPMI  float64
}

// Consistency is a stored per-category consistency summary.
type Consistency struct {
	Category      string
	Count         int
	JaccardMean   float64
	JaccardMedian float64
	JaccardStd    float64
	OverlapMean   float64
	OverlapMedian float64
	OverlapStd    float64
}

// IDSource hands out lexically sortable run identifiers.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an identifier source.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new identifier stamped with t.
func (s *IDSource) Next(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

var defaultIDs = NewIDSource()

// NewRunID returns a new run identifier stamped with the current time.
func NewRunID() string {
	return defaultIDs.Next(time.Now())
}
