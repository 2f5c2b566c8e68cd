package server

import (
	"testing"

	"github.com/lox/liarsbar/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsMonitorRecordsMatch(t *testing.T) {
	s := NewStatsMonitor()

	s.OnMatchStart("ABC123", []string{"alice", "bob", "carol"})
	s.OnRoundResolved("ABC123", 1, game.RoundSummary{
		Result: game.ResultLiar, Challenger: "bob", Liar: "alice", Loser: "alice", LoserAlive: true,
	})
	s.OnRoundResolved("ABC123", 2, game.RoundSummary{
		Result: game.ResultTruth, Challenger: "carol", Liar: "bob", Loser: "carol",
	})
	s.OnRoundResolved("ABC123", 3, game.RoundSummary{Result: game.ResultPlayerOut, Player: "bob"})
	s.OnRoundResolved("ABC123", 4, game.RoundSummary{
		Result: game.ResultLiar, Challenger: "bob", Liar: "alice", Loser: "alice",
	})
	s.OnMatchEnd(MatchResult{MatchID: "ABC123", Winner: "bob", Eliminated: []string{"carol", "alice"}})

	bob, ok := s.Player("bob")
	require.True(t, ok)
	assert.Equal(t, 1, bob.Matches)
	assert.Equal(t, 1, bob.Wins)
	assert.Equal(t, 100.0, bob.WinRate)
	assert.Equal(t, 2, bob.Challenges)
	assert.Equal(t, 2, bob.ChallengesWon)
	assert.Equal(t, 100.0, bob.ChallengeRate)
	assert.Equal(t, 1, bob.HonestCalled)
	assert.Equal(t, 1, bob.HandsEmptied)
	assert.Equal(t, 0, bob.TriggerPulls)

	alice, ok := s.Player("alice")
	require.True(t, ok)
	assert.Equal(t, 2, alice.LiesCaught)
	assert.Equal(t, 2, alice.TriggerPulls)
	assert.Equal(t, 1, alice.Eliminations)
	assert.Equal(t, 0.0, alice.WinRate)

	carol, ok := s.Player("carol")
	require.True(t, ok)
	assert.Equal(t, 1, carol.Challenges)
	assert.Equal(t, 0, carol.ChallengesWon)
	assert.Equal(t, 1, carol.TriggerPulls)

	_, ok = s.Player("dave")
	assert.False(t, ok)

	all := s.Stats()
	require.Len(t, all, 3)
	assert.Equal(t, "bob", all[0].Name)
	assert.Equal(t, "alice", all[1].Name)
	assert.Equal(t, "carol", all[2].Name)
}
