package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. Jokers carry their own suit.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
	JokerSuit
)

var suitCodes = [...]string{"S", "H", "D", "C", "JOKER"}

// String returns the wire code of a suit ("S", "H", "D", "C", "JOKER")
func (s Suit) String() string {
	if s < Spades || s > JokerSuit {
		return "?"
	}
	return suitCodes[s]
}

// Symbol returns the display glyph of a suit
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case JokerSuit:
		return "★"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

func (s Suit) MarshalText() ([]byte, error) {
	if s.String() == "?" {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit parses a suit code, case-insensitively
func ParseSuit(code string) (Suit, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range suitCodes {
		if c == code {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("invalid suit %q", code)
}

// Rank represents a card rank. Only the four court ranks and the Joker exist
// in this deck.
type Rank int

const (
	Ace Rank = iota
	King
	Queen
	Jack
	Joker
)

var rankCodes = [...]string{"A", "K", "Q", "J", "JOKER"}

// TableRanks are the ranks a chooser may declare for a round.
var TableRanks = []Rank{Ace, King, Queen, Jack}

// String returns the wire code of a rank
func (r Rank) String() string {
	if r < Ace || r > Joker {
		return "?"
	}
	return rankCodes[r]
}

// IsTableRank reports whether r may be chosen as the round's table rank
func (r Rank) IsTableRank() bool {
	return r >= Ace && r <= Jack
}

func (r Rank) MarshalText() ([]byte, error) {
	if r.String() == "?" {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	parsed, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank parses a rank code, case-insensitively
func ParseRank(code string) (Rank, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range rankCodes {
		if c == code {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("invalid rank %q", code)
}

// Card represents a single physical card. ID is unique within the deck it was
// built in.
type Card struct {
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
	ID   string `json:"id"`
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit, id string) Card {
	return Card{Rank: rank, Suit: suit, ID: id}
}

// IsJoker returns true if the card is wild
func (c Card) IsJoker() bool {
	return c.Rank == Joker
}

// Matches reports whether the card counts as truthful for the given table rank
func (c Card) Matches(tableRank Rank) bool {
	return c.IsJoker() || c.Rank == tableRank
}

// String returns the display form of a card (e.g., "K♠", "JOKER")
func (c Card) String() string {
	if c.IsJoker() {
		return "JOKER"
	}
	return c.Rank.String() + c.Suit.Symbol()
}

// IsTruthful reports whether every played card matches the table rank or is a
// Joker. An empty play is vacuously truthful.
func IsTruthful(cards []Card, tableRank Rank) bool {
	for _, c := range cards {
		if !c.Matches(tableRank) {
			return false
		}
	}
	return true
}

// IDs returns the ids of cards in order
func IDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// ParseCards parses whitespace-separated card faces such as "KS AH JOKER".
// Each card gets a positional id ("KS#0", "AH#1", ...), unique within the
// returned slice.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for i, f := range fields {
		f = strings.ToUpper(f)
		var c Card
		if f == "JOKER" {
			c = NewCard(Joker, JokerSuit, "")
		} else {
			if len(f) != 2 {
				return nil, fmt.Errorf("invalid card %q", f)
			}
			rank, err := ParseRank(f[:1])
			if err != nil || !rank.IsTableRank() {
				return nil, fmt.Errorf("invalid card %q", f)
			}
			suit, err := ParseSuit(f[1:])
			if err != nil || suit == JokerSuit {
				return nil, fmt.Errorf("invalid card %q", f)
			}
			c = NewCard(rank, suit, "")
		}
		c.ID = fmt.Sprintf("%s#%d", f, i)
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
