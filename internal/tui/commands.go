package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/liarsbar/internal/deck"
)

// Command is a parsed line from the input box
type Command struct {
	Name    string
	MatchID string
	Rank    deck.Rank
	CardIDs []string
}

const commandHelp = "/create, /join <code>, /start, /rank <A|K|Q|J>, /play <n...>, /accept, /challenge, /spin, /fire, /quit"

// ParseCommand parses input against the current hand. /play takes 1-based
// positions in the hand as shown in the sidebar and declares as many cards as
// were picked. The leading slash is optional.
func ParseCommand(input string, hand []deck.Card) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("type a command: %s", commandHelp)
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]
	cmd := Command{Name: name}

	switch name {
	case "create", "start", "accept", "challenge", "spin", "fire", "quit", "help":
		if len(args) > 0 {
			return Command{}, fmt.Errorf("/%s takes no arguments", name)
		}

	case "join":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: /join <code>")
		}
		cmd.MatchID = args[0]

	case "rank":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: /rank <A|K|Q|J>")
		}
		rank, err := deck.ParseRank(args[0])
		if err != nil || !rank.IsTableRank() {
			return Command{}, fmt.Errorf("rank must be one of A, K, Q, J")
		}
		cmd.Rank = rank

	case "play":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("usage: /play <n...> (positions in your hand)")
		}
		seen := make(map[int]bool, len(args))
		for _, arg := range args {
			pos, err := strconv.Atoi(arg)
			if err != nil || pos < 1 || pos > len(hand) {
				return Command{}, fmt.Errorf("no card at position %s", arg)
			}
			if seen[pos] {
				return Command{}, fmt.Errorf("card %d picked twice", pos)
			}
			seen[pos] = true
			cmd.CardIDs = append(cmd.CardIDs, hand[pos-1].ID)
		}

	default:
		return Command{}, fmt.Errorf("unknown command %q: %s", fields[0], commandHelp)
	}
	return cmd, nil
}
