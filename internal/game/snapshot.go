package game

import "github.com/lox/liarsbar/internal/deck"

// SeatView is the public view of one seat
type SeatView struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Connected  bool   `json:"connected"`
	Alive      bool   `json:"alive"`
	CardsCount int    `json:"cardsCount"`
	Armed      bool   `json:"armed"`
	IsHost     bool   `json:"isHost"`
}

// PlayView is the public part of the last play: who and how many, never which
type PlayView struct {
	Seat       int    `json:"seat"`
	PlayerName string `json:"playerName"`
	Count      int    `json:"count"`
}

// GunView is the public part of a pending penalty
type GunView struct {
	Seat    int    `json:"seat"`
	Name    string `json:"name"`
	CanSpin bool   `json:"canSpin"`
}

// Snapshot is the redacted match view broadcast to every connection in a room
type Snapshot struct {
	MatchID        string     `json:"matchId"`
	State          State      `json:"state"`
	Phase          *Phase     `json:"phase,omitempty"`
	TableRank      *deck.Rank `json:"tableRank,omitempty"`
	TurnIndex      *int       `json:"turnIndex,omitempty"`
	ResponderIndex *int       `json:"responderIndex,omitempty"`
	PileSize       int        `json:"pileSize"`
	DeckCount      int        `json:"deckCount"`
	Round          int        `json:"round"`
	Winner         string     `json:"winner,omitempty"`
	Host           string     `json:"host,omitempty"`
	LastPlay       *PlayView  `json:"lastPlay,omitempty"`
	Gun            *GunView   `json:"gun,omitempty"`
	Seats          []SeatView `json:"seats"`
}

// LobbyView is the roster broadcast on lobby.update
type LobbyView struct {
	MatchID string     `json:"matchId"`
	State   State      `json:"state"`
	Host    string     `json:"host,omitempty"`
	Seats   []SeatView `json:"seats"`
}

func intPtr(v int) *int { return &v }

func (m *Match) seatViews() []SeatView {
	views := make([]SeatView, len(m.seats))
	for i, s := range m.seats {
		views[i] = SeatView{
			Index:      i,
			Name:       s.Name,
			Connected:  s.Connected,
			Alive:      s.Alive,
			CardsCount: len(s.hand),
			Armed:      s.Armed(),
			IsHost:     i == m.host,
		}
	}
	return views
}

func (m *Match) hostName() string {
	if m.host < 0 || m.host >= len(m.seats) {
		return ""
	}
	return m.seats[m.host].Name
}

// Project derives the public snapshot. It reads but never mutates the match,
// so two calls without an intervening action return equal values.
func Project(m *Match) Snapshot {
	snap := Snapshot{
		MatchID:   m.id,
		State:     m.state,
		PileSize:  len(m.pile),
		DeckCount: len(m.remaining),
		Round:     m.round,
		Winner:    m.winner,
		Host:      m.hostName(),
		Seats:     m.seatViews(),
	}
	if m.state != StatePlaying {
		return snap
	}

	phase := m.phase
	snap.Phase = &phase
	if m.hasRank {
		rank := m.tableRank
		snap.TableRank = &rank
	}
	if m.phase != PhaseGun {
		snap.TurnIndex = intPtr(m.turn)
	}
	if m.responding && m.responder >= 0 {
		snap.ResponderIndex = intPtr(m.responder)
	}
	if m.lastPlay != nil {
		snap.LastPlay = &PlayView{
			Seat:       m.lastPlay.Seat,
			PlayerName: m.lastPlay.Name,
			Count:      m.lastPlay.Declared,
		}
	}
	if m.pendingGun != nil {
		loser := m.pendingGun.Loser
		snap.Gun = &GunView{
			Seat:    loser,
			Name:    m.seats[loser].Name,
			CanSpin: !m.seats[loser].Armed(),
		}
	}
	return snap
}

// Lobby returns the roster view
func (m *Match) Lobby() LobbyView {
	return LobbyView{
		MatchID: m.id,
		State:   m.state,
		Host:    m.hostName(),
		Seats:   m.seatViews(),
	}
}
