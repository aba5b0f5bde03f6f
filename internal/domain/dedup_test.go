package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupKey(t *testing.T) {
	start := time.Date(2025, 3, 3, 20, 0, 0, 0, berlin)

	key := DedupKey("g1", "Raid Night", start, DedupKindStart)
	assert.Equal(t, "g1:raid night:20250303T200000+0100:start", key)

	key = DedupKey("g1", "Raid Night", start, DedupKindPre(15))
	assert.Equal(t, "g1:raid night:20250303T200000+0100:pre15", key)
}

func TestDedupLog_AddContains(t *testing.T) {
	log := DedupLog{}
	key := DedupKey("g1", "raid", time.Date(2025, 3, 3, 20, 0, 0, 0, berlin), DedupKindStart)

	assert.False(t, log.Contains(key))
	log.Add(key)
	assert.True(t, log.Contains(key))

	// Adding twice is a no-op.
	log.Add(key)
	assert.Len(t, log.Keys(), 1)
}

func TestDedupLog_Keys_Sorted(t *testing.T) {
	log := DedupLog{}
	log.Add("b")
	log.Add("a")
	log.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, log.Keys())
}

func TestDedupLog_Prune(t *testing.T) {
	now := time.Date(2025, 3, 3, 20, 0, 0, 0, berlin)
	old := now.Add(-31 * 24 * time.Hour)
	recent := now.Add(-24 * time.Hour)

	log := DedupLog{}
	oldKey := DedupKey("g1", "raid", old, DedupKindStart)
	recentKey := DedupKey("g1", "raid", recent, DedupKindStart)
	// Event names may contain colons; the instant still parses from the right.
	colonKey := DedupKey("g1", "raid: part two", old, DedupKindPre(10))
	brokenKey := "g1:raid:not-a-time:start"
	log.Add(oldKey)
	log.Add(recentKey)
	log.Add(colonKey)
	log.Add(brokenKey)

	removed := log.Prune(now, 30*24*time.Hour)

	require.Equal(t, 2, removed)
	assert.False(t, log.Contains(oldKey))
	assert.False(t, log.Contains(colonKey))
	assert.True(t, log.Contains(recentKey))
	// Unparseable keys are kept rather than risking a re-fire.
	assert.True(t, log.Contains(brokenKey))
}
