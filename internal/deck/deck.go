package deck

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	// SeatsPerCopy is how many seats one base deck serves
	SeatsPerCopy = 4
	// JokersPerCopy is the number of wild cards added with each base deck
	JokersPerCopy = 2
	// DefaultHandSize is the number of cards dealt to each seat per round
	DefaultHandSize = 5
)

var baseSuits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Rand is the randomness the deck needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Copies returns how many base decks are needed for seatCount seats
func Copies(seatCount int) int {
	if seatCount <= 0 {
		return 0
	}
	return (seatCount + SeatsPerCopy - 1) / SeatsPerCopy
}

// Size returns the number of cards Build(seatCount) yields
func Size(seatCount int) int {
	return Copies(seatCount) * (len(TableRanks)*len(baseSuits) + JokersPerCopy)
}

// Build creates an unshuffled deck sized for seatCount seats: one 16-card base
// deck (A, K, Q, J in four suits) plus two Jokers per four seats.
func Build(seatCount int) []Card {
	copies := Copies(seatCount)
	cards := make([]Card, 0, Size(seatCount))

	for d := 0; d < copies; d++ {
		for _, rank := range TableRanks {
			for _, suit := range baseSuits {
				cards = append(cards, NewCard(rank, suit, cardID(rank.String()+suit.String(), d)))
			}
		}
		for j := 0; j < JokersPerCopy; j++ {
			cards = append(cards, NewCard(Joker, JokerSuit, cardID(fmt.Sprintf("JOKER%d", j), d)))
		}
	}

	return cards
}

func cardID(face string, copyIdx int) string {
	return fmt.Sprintf("%s-%d-%s", face, copyIdx, uuid.NewString()[:8])
}

// Shuffle returns a uniformly permuted copy of cards (Fisher-Yates). The input
// slice is left untouched.
func Shuffle(cards []Card, rng Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal is the outcome of dealing hands from a deck
type Deal struct {
	// Hands holds one hand per seat, in the order the seats were given
	Hands [][]Card
	// Remaining is what is left of the deck after dealing
	Remaining []Card
	// Shortfall is how many cards could not be dealt because the deck ran out
	Shortfall int
}

// DealHands deals handSize cards round-robin to seats hands. When the deck
// runs short the remaining cards are still dealt in seat order, so the last
// seats end up with fewer cards; Shortfall records how many were missing.
func DealHands(cards []Card, seats, handSize int) Deal {
	hands := make([][]Card, seats)
	for i := range hands {
		hands[i] = make([]Card, 0, handSize)
	}

	idx := 0
	for c := 0; c < handSize; c++ {
		for s := 0; s < seats; s++ {
			if idx >= len(cards) {
				continue
			}
			hands[s] = append(hands[s], cards[idx])
			idx++
		}
	}

	remaining := make([]Card, len(cards)-idx)
	copy(remaining, cards[idx:])

	return Deal{
		Hands:     hands,
		Remaining: remaining,
		Shortfall: seats*handSize - idx,
	}
}
