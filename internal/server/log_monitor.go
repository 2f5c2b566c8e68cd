package server

import (
	"github.com/charmbracelet/log"
	"github.com/lox/liarsbar/internal/game"
)

// LogMonitor writes match progress to a logger
type LogMonitor struct {
	logger *log.Logger
}

// NewLogMonitor creates a monitor logging under the "match" prefix
func NewLogMonitor(logger *log.Logger) *LogMonitor {
	return &LogMonitor{logger: logger.WithPrefix("match")}
}

func (l *LogMonitor) OnMatchStart(matchID string, players []string) {
	l.logger.Info("Match started", "match", matchID, "players", players)
}

func (l *LogMonitor) OnRoundResolved(matchID string, round int, summary game.RoundSummary) {
	switch summary.Result {
	case game.ResultPlayerOut:
		l.logger.Info("Round ended safely", "match", matchID, "round", round, "player", summary.Player, "next", summary.NextChooser)
	default:
		l.logger.Info("Challenge resolved",
			"match", matchID,
			"round", round,
			"result", summary.Result,
			"challenger", summary.Challenger,
			"liar", summary.Liar,
			"loser", summary.Loser,
			"survived", summary.LoserAlive)
	}
}

func (l *LogMonitor) OnMatchEnd(result MatchResult) {
	l.logger.Info("Match ended",
		"match", result.MatchID,
		"winner", result.Winner,
		"rounds", result.Rounds,
		"duration", result.Duration())
}
