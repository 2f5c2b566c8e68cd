package game

import (
	"fmt"
	"testing"

	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/randutil"
	"github.com/stretchr/testify/require"
)

func session(name string) string { return "sess-" + name }

// newTestMatch creates a lobby with one connected seat per name. The first
// name is the host.
func newTestMatch(t *testing.T, names ...string) *Match {
	t.Helper()
	m := NewMatch("TEST01", DefaultConfig(), randutil.New(42))
	for _, n := range names {
		_, _, err := m.Join(session(n), n)
		require.NoError(t, err)
	}
	return m
}

// newPlayingMatch starts a match and has the first chooser declare rank
func newPlayingMatch(t *testing.T, rank deck.Rank, names ...string) *Match {
	t.Helper()
	m := newTestMatch(t, names...)
	_, err := m.Start(session(names[0]))
	require.NoError(t, err)
	_, err = m.ChooseRank(session(m.seats[m.turn].Name), rank)
	require.NoError(t, err)
	return m
}

// setHand replaces a seat's hand with parsed cards whose ids are unique to
// the seat.
func setHand(m *Match, seat int, faces string) []deck.Card {
	cards := deck.MustParseCards(faces)
	for i := range cards {
		cards[i].ID = fmt.Sprintf("%d:%s", seat, cards[i].ID)
	}
	m.seats[seat].hand = cards
	return cards
}

func findEvent[T Event](out Outcome) (T, bool) {
	for _, e := range out.Events {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func logKinds(out Outcome) []LogKind {
	var kinds []LogKind
	for _, e := range out.Events {
		if l, ok := e.(SystemLog); ok {
			kinds = append(kinds, l.Kind)
		}
	}
	return kinds
}

// allCardIDs returns every card id held anywhere in the match
func allCardIDs(m *Match) []string {
	var ids []string
	for _, s := range m.seats {
		ids = append(ids, deck.IDs(s.hand)...)
	}
	ids = append(ids, deck.IDs(m.pile)...)
	ids = append(ids, deck.IDs(m.remaining)...)
	return ids
}
