package server

import (
	"time"

	"github.com/lox/liarsbar/internal/game"
)

// MatchMonitor receives notifications about match progress and outcomes.
// Calls are made from the room goroutine, so implementations shared between
// rooms must be safe for concurrent use.
type MatchMonitor interface {
	// OnMatchStart is called when a host starts a game.
	OnMatchStart(matchID string, players []string)

	// OnRoundResolved is called after each round ends, by challenge or by a
	// seat emptying its hand.
	OnRoundResolved(matchID string, round int, summary game.RoundSummary)

	// OnMatchEnd is called once a winner is declared.
	OnMatchEnd(result MatchResult)
}

// MatchResult is the record of one finished game
type MatchResult struct {
	MatchID    string    `json:"matchId"`
	Winner     string    `json:"winner"`
	Players    []string  `json:"players"`
	Eliminated []string  `json:"eliminated"`
	Rounds     int       `json:"rounds"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
}

// Duration returns how long the game ran
func (r MatchResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// NullMatchMonitor is a no-op implementation.
type NullMatchMonitor struct{}

func (NullMatchMonitor) OnMatchStart(string, []string)                  {}
func (NullMatchMonitor) OnRoundResolved(string, int, game.RoundSummary) {}
func (NullMatchMonitor) OnMatchEnd(MatchResult)                         {}

// MultiMatchMonitor fan-outs events to multiple monitors.
type MultiMatchMonitor struct {
	monitors []MatchMonitor
}

// NewMultiMatchMonitor builds a composite monitor, automatically pruning nil entries and returning
// a NullMatchMonitor when no monitors are provided.
func NewMultiMatchMonitor(monitors ...MatchMonitor) MatchMonitor {
	filtered := make([]MatchMonitor, 0, len(monitors))
	for _, monitor := range monitors {
		if monitor != nil {
			filtered = append(filtered, monitor)
		}
	}

	switch len(filtered) {
	case 0:
		return NullMatchMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiMatchMonitor{monitors: filtered}
	}
}

func (m MultiMatchMonitor) OnMatchStart(matchID string, players []string) {
	for _, monitor := range m.monitors {
		monitor.OnMatchStart(matchID, players)
	}
}

func (m MultiMatchMonitor) OnRoundResolved(matchID string, round int, summary game.RoundSummary) {
	for _, monitor := range m.monitors {
		monitor.OnRoundResolved(matchID, round, summary)
	}
}

func (m MultiMatchMonitor) OnMatchEnd(result MatchResult) {
	for _, monitor := range m.monitors {
		monitor.OnMatchEnd(result)
	}
}
