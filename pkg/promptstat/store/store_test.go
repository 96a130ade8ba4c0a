package store

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSourceMonotonic(t *testing.T) {
	src := NewIDSource()
	now := time.Now()
	prev := ""
	for i := 0; i < 100; i++ {
		id := src.Next(now)
		require.Len(t, id, 26)
		require.Greater(t, id, prev, "ids must increase")
		prev = id
	}
}

func TestNewRunIDTimestamp(t *testing.T) {
	before := ulid.Timestamp(time.Now())
	id, err := ulid.Parse(NewRunID())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id.Time(), before)
}
