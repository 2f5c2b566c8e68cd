package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "court cards",
			input: "AS KH QD JC",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
				{Rank: Queen, Suit: Diamonds},
				{Rank: Jack, Suit: Clubs},
			},
		},
		{
			name:  "jokers",
			input: "joker KS Joker",
			expected: []Card{
				{Rank: Joker, Suit: JokerSuit},
				{Rank: King, Suit: Spades},
				{Rank: Joker, Suit: JokerSuit},
			},
		},
		{
			name:  "case insensitive",
			input: "ks ah",
			expected: []Card{
				{Rank: King, Suit: Spades},
				{Rank: Ace, Suit: Hearts},
			},
		},
		{
			name:    "pip cards are not in this deck",
			input:   "9S",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "KX",
			wantErr: true,
		},
		{
			name:    "joker is not a suit for court cards",
			input:   "KJOKER",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.Equal(t, tt.expected[i].Rank, got[i].Rank)
				assert.Equal(t, tt.expected[i].Suit, got[i].Suit)
			}
		})
	}
}

func TestParseCardsAssignsDistinctIDs(t *testing.T) {
	cards := MustParseCards("KS KS JOKER JOKER")
	seen := map[string]bool{}
	for _, c := range cards {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestIsTruthful(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		rank  Rank
		want  bool
	}{
		{"all match", "KS KH", King, true},
		{"matching card and joker", "KS JOKER", King, true},
		{"only jokers", "JOKER JOKER", Queen, true},
		{"one liar among three", "KS JOKER QH", King, false},
		{"none match", "AS QH JD", King, false},
		{"empty play", "", Ace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := MustParseCards(tt.cards)
			assert.Equal(t, tt.want, IsTruthful(cards, tt.rank))
			// Same inputs, same answer.
			assert.Equal(t, tt.want, IsTruthful(cards, tt.rank))
		})
	}
}

func TestCardJSON(t *testing.T) {
	c := NewCard(King, Spades, "KS-0-abc")
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rank":"K","suit":"S","id":"KS-0-abc"}`, string(data))

	var back Card
	require.NoError(t, json.Unmarshal([]byte(`{"rank":"JOKER","suit":"JOKER","id":"x"}`), &back))
	assert.True(t, back.IsJoker())
	assert.Equal(t, "JOKER", back.String())

	assert.Error(t, json.Unmarshal([]byte(`{"rank":"10","suit":"S","id":"x"}`), &back))
}

func TestRankIsTableRank(t *testing.T) {
	for _, r := range TableRanks {
		assert.True(t, r.IsTableRank(), r.String())
	}
	assert.False(t, Joker.IsTableRank())
	assert.False(t, Rank(42).IsTableRank())
}
