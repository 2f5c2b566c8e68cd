package tui

import (
	"fmt"
	"strings"

	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
)

// describeLog narrates a system log entry
func describeLog(e game.SystemLog) string {
	switch e.Kind {
	case game.LogPlayerConnected:
		return fmt.Sprintf("%s sat down", e.Name)
	case game.LogPlayerReconnected:
		return fmt.Sprintf("%s is back", e.Name)
	case game.LogPlayerDisconnected:
		return fmt.Sprintf("%s disconnected", e.Name)
	case game.LogHostChanged:
		return fmt.Sprintf("%s is now the host", e.Name)
	case game.LogHostNone:
		return "Nobody is left to host"
	case game.LogGameStarted:
		return HeaderStyle.Render(fmt.Sprintf(" %s started the game ", e.By))
	case game.LogRoundChooser:
		return fmt.Sprintf("%s picks the next table rank", e.Name)
	case game.LogRoundStarted:
		return WarningStyle.Render(fmt.Sprintf("*** %s calls %s ***", e.By, e.Rank))
	case game.LogDealShort:
		return InfoStyle.Render(fmt.Sprintf("The deck ran %d cards short", e.Count))
	case game.LogCardsPlayed:
		return fmt.Sprintf("%s: plays %d × %s", e.Name, e.Count, e.Rank)
	case game.LogPlayAccepted:
		return fmt.Sprintf("%s: accepts", e.Name)
	case game.LogChallengeSuccess:
		return SuccessStyle.Render(fmt.Sprintf("%s calls %s a liar... and is right", e.By, e.Liar))
	case game.LogChallengeFailed:
		return ErrorStyle.Render(fmt.Sprintf("%s calls %s a liar... but it was the truth", e.By, e.Liar))
	case game.LogGunSpun:
		return fmt.Sprintf("%s spins the cylinder", e.Name)
	case game.LogPlayerEliminated:
		return ErrorStyle.Render(fmt.Sprintf("%s is out", e.Name))
	case game.LogGameEnded:
		return HeaderStyle.Render(fmt.Sprintf(" %s wins the game ", e.Winner))
	case game.LogTurnTimeout:
		return InfoStyle.Render(fmt.Sprintf("%s took too long, acting for them", e.Name))
	default:
		return InfoStyle.Render(string(e.Kind))
	}
}

// describeSummary narrates how a round ended
func describeSummary(s game.RoundSummary) []string {
	var lines []string
	switch s.Result {
	case game.ResultPlayerOut:
		lines = append(lines, fmt.Sprintf("%s emptied their hand, the round ends", s.Player))
	default:
		verdict := "a lie"
		if s.Result == game.ResultTruth {
			verdict = "the truth"
		}
		lines = append(lines, fmt.Sprintf("Revealed %s: %s", formatCards(s.Revealed), verdict))
		if s.LoserAlive {
			lines = append(lines, fmt.Sprintf("%s survives the trigger", s.Loser))
		}
	}
	if s.NextChooser != "" {
		lines = append(lines, InfoStyle.Render(fmt.Sprintf("%s chooses next", s.NextChooser)))
	}
	return lines
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case card.IsJoker():
			formatted = append(formatted, JokerStyle.Render(card.String()))
		case card.Suit.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatHand numbers cards by the positions /play takes
func formatHand(cards []deck.Card) string {
	if len(cards) == 0 {
		return InfoStyle.Render("(empty)")
	}
	parts := make([]string, 0, len(cards))
	for i, card := range cards {
		parts = append(parts, fmt.Sprintf("%d:%s", i+1, formatCards([]deck.Card{card})))
	}
	return strings.Join(parts, " ")
}
