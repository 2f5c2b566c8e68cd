package game

import (
	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/revolver"
)

// Seat is one participant slot. It outlives connections: a seat keeps its
// name, hand and revolver while disconnected and can be reclaimed by name.
type Seat struct {
	Name      string
	SessionID string
	Connected bool
	Alive     bool

	hand []deck.Card
	gun  *revolver.Revolver
}

func newSeat(name, sessionID string) *Seat {
	return &Seat{
		Name:      name,
		SessionID: sessionID,
		Connected: true,
		Alive:     true,
	}
}

// Active reports whether the seat can take part in turn order
func (s *Seat) Active() bool {
	return s.Connected && s.Alive
}

// CardsCount returns the number of cards in hand
func (s *Seat) CardsCount() int {
	return len(s.hand)
}

// Armed reports whether the seat has a loaded revolver
func (s *Seat) Armed() bool {
	return s.gun != nil
}

// reset prepares the seat for a new match
func (s *Seat) reset() {
	s.Alive = true
	s.hand = nil
	s.gun = nil
}

// take removes the cards with the given ids from the hand. Either every id is
// found and removed or the hand is left untouched.
func (s *Seat) take(ids []string) ([]deck.Card, error) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, ErrDuplicateCard
		}
		seen[id] = true
	}

	taken := make([]deck.Card, 0, len(ids))
	for _, id := range ids {
		found := false
		for _, c := range s.hand {
			if c.ID == id {
				taken = append(taken, c)
				found = true
				break
			}
		}
		if !found {
			return nil, ErrCardNotInHand
		}
	}

	kept := make([]deck.Card, 0, len(s.hand)-len(taken))
	for _, c := range s.hand {
		if !seen[c.ID] {
			kept = append(kept, c)
		}
	}
	s.hand = kept
	return taken, nil
}
