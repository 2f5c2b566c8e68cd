package deck

import (
	"testing"

	"github.com/lox/liarsbar/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComposition(t *testing.T) {
	tests := []struct {
		seats  int
		copies int
		size   int
	}{
		{seats: 2, copies: 1, size: 18},
		{seats: 4, copies: 1, size: 18},
		{seats: 5, copies: 2, size: 36},
		{seats: 8, copies: 2, size: 36},
		{seats: 0, copies: 0, size: 0},
	}

	for _, tt := range tests {
		cards := Build(tt.seats)
		assert.Len(t, cards, tt.size, "seats=%d", tt.seats)
		assert.Equal(t, tt.size, Size(tt.seats))
		assert.Equal(t, tt.copies, Copies(tt.seats))

		counts := map[Rank]int{}
		for _, c := range cards {
			counts[c.Rank]++
		}
		for _, r := range TableRanks {
			assert.Equal(t, 4*tt.copies, counts[r], "rank %s", r)
		}
		assert.Equal(t, JokersPerCopy*tt.copies, counts[Joker])
	}
}

func TestBuildUniqueIDs(t *testing.T) {
	cards := Build(8)
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		require.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	original := Build(4)
	before := IDs(original)

	shuffled := Shuffle(original, randutil.New(7))

	assert.Equal(t, before, IDs(original), "input order must be preserved")
	assert.ElementsMatch(t, before, IDs(shuffled))
	assert.NotEqual(t, before, IDs(shuffled))
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	cards := Build(4)
	a := Shuffle(cards, randutil.New(99))
	b := Shuffle(cards, randutil.New(99))
	assert.Equal(t, IDs(a), IDs(b))
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	// Position of the first card after many shuffles should spread across
	// the whole deck.
	cards := MustParseCards("AS AH AD AC")
	rng := randutil.New(1)
	counts := make([]int, len(cards))
	const trials = 8000
	for i := 0; i < trials; i++ {
		out := Shuffle(cards, rng)
		for pos, c := range out {
			if c.ID == cards[0].ID {
				counts[pos]++
			}
		}
	}
	for pos, n := range counts {
		assert.InDelta(t, trials/len(cards), n, trials/20, "position %d", pos)
	}
}

func TestDealHandsRoundRobin(t *testing.T) {
	cards := MustParseCards("AS AH AD AC KS KH KD")
	deal := DealHands(cards, 3, 2)

	require.Len(t, deal.Hands, 3)
	assert.Equal(t, []string{"AS#0", "AC#3"}, IDs(deal.Hands[0]))
	assert.Equal(t, []string{"AH#1", "KS#4"}, IDs(deal.Hands[1]))
	assert.Equal(t, []string{"AD#2", "KH#5"}, IDs(deal.Hands[2]))
	assert.Equal(t, []string{"KD#6"}, IDs(deal.Remaining))
	assert.Zero(t, deal.Shortfall)
}

func TestDealHandsUnderflow(t *testing.T) {
	// Eight seats need 40 cards but the deck for eight seats holds 36.
	cards := Shuffle(Build(8), randutil.New(3))
	deal := DealHands(cards, 8, DefaultHandSize)

	assert.Equal(t, 4, deal.Shortfall)
	assert.Empty(t, deal.Remaining)
	for s := 0; s < 4; s++ {
		assert.Len(t, deal.Hands[s], 5, "seat %d", s)
	}
	for s := 4; s < 8; s++ {
		assert.Len(t, deal.Hands[s], 4, "seat %d", s)
	}
}

func TestDealHandsConservesCards(t *testing.T) {
	cards := Shuffle(Build(6), randutil.New(11))
	deal := DealHands(cards, 6, DefaultHandSize)

	var all []string
	for _, h := range deal.Hands {
		all = append(all, IDs(h)...)
	}
	all = append(all, IDs(deal.Remaining)...)
	assert.ElementsMatch(t, IDs(cards), all)
}
