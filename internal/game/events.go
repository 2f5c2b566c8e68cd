package game

import "github.com/lox/liarsbar/internal/deck"

// EventType names an outbound notification. The values double as wire
// message types.
type EventType string

const (
	EventRoundSummary EventType = "round.summary"
	EventGunPending   EventType = "gun.pending"
	EventGunResult    EventType = "gun.result"
	EventSystemLog    EventType = "system.log"
)

// Event is a transient, presentation-only notification produced by an action
type Event interface {
	EventType() EventType
}

// SummaryResult is how a round was resolved
type SummaryResult string

const (
	// ResultLiar: the challenged play was a bluff, the player who made it lost
	ResultLiar SummaryResult = "liar"
	// ResultTruth: the challenged play was honest, the challenger lost
	ResultTruth SummaryResult = "truth"
	// ResultPlayerOut: a seat emptied its hand and the round ended safely
	ResultPlayerOut SummaryResult = "playerOut"
)

// RoundSummary describes how a round ended
type RoundSummary struct {
	Result       SummaryResult `json:"result"`
	Player       string        `json:"player,omitempty"`
	Challenger   string        `json:"challenger,omitempty"`
	Liar         string        `json:"liar,omitempty"`
	Loser        string        `json:"loser,omitempty"`
	LoserAlive   bool          `json:"loserAlive"`
	PreviousRank string        `json:"previousRank,omitempty"`
	Revealed     []deck.Card   `json:"revealed,omitempty"`
	NextChooser  string        `json:"nextChooser,omitempty"`
}

func (RoundSummary) EventType() EventType { return EventRoundSummary }

// GunPending announces which seat must act on the revolver
type GunPending struct {
	Seat    int    `json:"seat"`
	Name    string `json:"name"`
	CanSpin bool   `json:"canSpin"`
}

func (GunPending) EventType() EventType { return EventGunPending }

// GunResult is the outcome of one trigger pull
type GunResult struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Fired bool   `json:"fired"`
}

func (GunResult) EventType() EventType { return EventGunResult }

// LogKind names a system log entry
type LogKind string

const (
	LogPlayerConnected    LogKind = "player.connected"
	LogPlayerReconnected  LogKind = "player.reconnected"
	LogPlayerDisconnected LogKind = "player.disconnected"
	LogHostChanged        LogKind = "host.changed"
	LogHostNone           LogKind = "host.none"
	LogGameStarted        LogKind = "game.started"
	LogRoundChooser       LogKind = "round.chooser"
	LogRoundStarted       LogKind = "round.started"
	LogDealShort          LogKind = "deal.short"
	LogCardsPlayed        LogKind = "cards.played"
	LogPlayAccepted       LogKind = "play.accepted"
	LogChallengeSuccess   LogKind = "challenge.success"
	LogChallengeFailed    LogKind = "challenge.failed"
	LogGunSpun            LogKind = "gun.spun"
	LogPlayerEliminated   LogKind = "player.eliminated"
	LogGameEnded          LogKind = "game.ended"
	LogTurnTimeout        LogKind = "turn.timeout"
)

// SystemLog is an informational narration entry
type SystemLog struct {
	Kind   LogKind `json:"type"`
	Name   string  `json:"name,omitempty"`
	By     string  `json:"by,omitempty"`
	Liar   string  `json:"liar,omitempty"`
	Rank   string  `json:"rank,omitempty"`
	Winner string  `json:"winner,omitempty"`
	Count  int     `json:"count,omitempty"`
}

func (SystemLog) EventType() EventType { return EventSystemLog }

// Outcome is everything an accepted action changed besides the public
// snapshot: events to broadcast and which seats need a private hand push.
type Outcome struct {
	Events []Event
	// Hands lists seat indices whose hand changed
	Hands []int
	// Roster is set when seats, connection state or the host changed
	Roster bool
}

func (o *Outcome) emit(e Event) {
	o.Events = append(o.Events, e)
}

func (o *Outcome) handChanged(seats ...int) {
	for _, s := range seats {
		dup := false
		for _, h := range o.Hands {
			if h == s {
				dup = true
				break
			}
		}
		if !dup {
			o.Hands = append(o.Hands, s)
		}
	}
}

// Summary returns the round summary carried by the outcome, if any
func (o Outcome) Summary() (RoundSummary, bool) {
	for _, e := range o.Events {
		if s, ok := e.(RoundSummary); ok {
			return s, true
		}
	}
	return RoundSummary{}, false
}

func (o *Outcome) merge(other Outcome) {
	o.Events = append(o.Events, other.Events...)
	o.handChanged(other.Hands...)
	o.Roster = o.Roster || other.Roster
}
