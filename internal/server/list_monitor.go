package server

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/liarsbar/internal/game"
)

var (
	listWinStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	listLossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	listDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ListMonitor prints one line per resolved round and one per finished match.
// It is the compact table feed for a headless server.
type ListMonitor struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewListMonitor creates a new list monitor.
func NewListMonitor(writer io.Writer) *ListMonitor {
	if writer == nil {
		writer = os.Stdout
	}
	return &ListMonitor{writer: writer}
}

// OnMatchStart implements MatchMonitor.
func (l *ListMonitor) OnMatchStart(matchID string, players []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "%-8s %s %s\n", matchID, listDimStyle.Render("start"), strings.Join(players, ", "))
}

// OnRoundResolved implements MatchMonitor.
func (l *ListMonitor) OnRoundResolved(matchID string, round int, summary game.RoundSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var line string
	switch summary.Result {
	case game.ResultPlayerOut:
		line = fmt.Sprintf("%s emptied their hand", summary.Player)
	case game.ResultLiar:
		line = fmt.Sprintf("%s caught %s bluffing on %s", summary.Challenger, summary.Liar, summary.PreviousRank)
	default:
		line = fmt.Sprintf("%s wrongly called %s on %s", summary.Challenger, summary.Liar, summary.PreviousRank)
	}
	if summary.Loser != "" {
		if summary.LoserAlive {
			line += ", " + summary.Loser + " " + listDimStyle.Render("survived")
		} else {
			line += ", " + listLossStyle.Render(summary.Loser+" is out")
		}
	}
	fmt.Fprintf(l.writer, "%-8s #%-3d %s\n", matchID, round, line)
}

// OnMatchEnd implements MatchMonitor.
func (l *ListMonitor) OnMatchEnd(result MatchResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "%-8s %s after %d rounds (%s)\n",
		result.MatchID,
		listWinStyle.Render(result.Winner+" wins"),
		result.Rounds,
		result.Duration().Round(time.Second))
}
