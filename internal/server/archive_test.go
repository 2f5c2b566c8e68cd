package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultArchiveNewestFirst(t *testing.T) {
	archive, err := NewResultArchive(2)
	require.NoError(t, err)

	archive.OnMatchEnd(MatchResult{MatchID: "AAAAAA", Winner: "alice"})
	archive.OnMatchEnd(MatchResult{MatchID: "BBBBBB", Winner: "bob"})
	// a rematch in the same room is a separate entry, and evicts the oldest
	archive.OnMatchEnd(MatchResult{MatchID: "BBBBBB", Winner: "carol"})

	require.Equal(t, 2, archive.Len())
	results := archive.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "carol", results[0].Winner)
	assert.Equal(t, "bob", results[1].Winner)
}

func TestResultArchiveRejectsZeroSize(t *testing.T) {
	_, err := NewResultArchive(0)
	assert.Error(t, err)
}

func TestMatchResultDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := MatchResult{StartedAt: start, EndedAt: start.Add(90 * time.Second)}
	assert.Equal(t, 90*time.Second, r.Duration())
}
