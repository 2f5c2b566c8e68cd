package game

import (
	"strings"

	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/revolver"
)

const (
	DefaultMinSeats = 2
	DefaultMaxSeats = 8
	// MaxPlayCards is the most cards a seat may put down in one play
	MaxPlayCards = 3
	defaultName  = "Player"
)

// Rand is the randomness a match consumes for shuffling, loading revolvers
// and acting on behalf of idle seats. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Config holds the table rules of a match
type Config struct {
	MinSeats int
	MaxSeats int
	HandSize int
}

// DefaultConfig returns the standard rules: 2-8 seats, five-card hands
func DefaultConfig() Config {
	return Config{
		MinSeats: DefaultMinSeats,
		MaxSeats: DefaultMaxSeats,
		HandSize: deck.DefaultHandSize,
	}
}

// Play is the most recent declared play. Cards stay server-side.
type Play struct {
	Seat     int
	Name     string
	Declared int
	Cards    []deck.Card
}

// PendingGun is the penalty owed after a challenge
type PendingGun struct {
	Loser int
	Meta  ChallengeMeta
}

// ChallengeMeta carries the context of a challenge until the trigger is pulled
type ChallengeMeta struct {
	Result         SummaryResult
	ChallengerSeat int
	Challenger     string
	Liar           string
	Loser          string
	PreviousRank   deck.Rank
	Revealed       []deck.Card
}

// Match is the authoritative state of one room: the roster, which persists
// across consecutive games, and the state of the current game.
//
// A Match is not safe for concurrent use; callers serialise access.
type Match struct {
	id  string
	cfg Config
	rng Rand

	seats []*Seat
	host  int

	state      State
	phase      Phase
	tableRank  deck.Rank
	hasRank    bool
	turn       int
	responder  int
	responding bool
	pile       []deck.Card
	remaining  []deck.Card
	lastPlay   *Play
	pendingGun *PendingGun
	winner     string
	round      int
}

// NewMatch creates an empty match in the lobby state
func NewMatch(id string, cfg Config, rng Rand) *Match {
	if cfg.MinSeats <= 0 {
		cfg.MinSeats = DefaultMinSeats
	}
	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = DefaultMaxSeats
	}
	if cfg.HandSize <= 0 {
		cfg.HandSize = deck.DefaultHandSize
	}
	return &Match{
		id:        id,
		cfg:       cfg,
		rng:       rng,
		host:      -1,
		responder: -1,
	}
}

func (m *Match) ID() string      { return m.id }
func (m *Match) State() State    { return m.state }
func (m *Match) Phase() Phase    { return m.phase }
func (m *Match) Winner() string  { return m.winner }
func (m *Match) Round() int      { return m.round }
func (m *Match) Config() Config  { return m.cfg }
func (m *Match) SeatCount() int  { return len(m.seats) }
func (m *Match) HostSeat() int   { return m.host }
func (m *Match) TurnIndex() int  { return m.turn }
func (m *Match) PileSize() int   { return len(m.pile) }
func (m *Match) Responder() int  { return m.responder }
func (m *Match) LastPlay() *Play { return m.lastPlay }

// TableRank returns the declared rank of the current round, if any
func (m *Match) TableRank() (deck.Rank, bool) { return m.tableRank, m.hasRank }

// PendingGun returns the owed penalty while in the gun phase
func (m *Match) PendingGun() *PendingGun { return m.pendingGun }

// Seat returns the seat at index i
func (m *Match) Seat(i int) *Seat {
	if i < 0 || i >= len(m.seats) {
		return nil
	}
	return m.seats[i]
}

// SeatBySession returns the index of the connected seat bound to sessionID
func (m *Match) SeatBySession(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i, s := range m.seats {
		if s.Connected && s.SessionID == sessionID {
			return i
		}
	}
	return -1
}

// Hand returns a copy of the hand of seat i
func (m *Match) Hand(i int) []deck.Card {
	s := m.Seat(i)
	if s == nil {
		return nil
	}
	out := make([]deck.Card, len(s.hand))
	copy(out, s.hand)
	return out
}

// DeckCount returns the number of undealt cards this round
func (m *Match) DeckCount() int { return len(m.remaining) }

// AliveCount returns how many seats are still in the match
func (m *Match) AliveCount() int {
	n := 0
	for _, s := range m.seats {
		if s.Alive {
			n++
		}
	}
	return n
}

// Join binds a connection to the match. See Bind for the resolution rules.
// Spectators get a binding but no seat and cause no mutation.
func (m *Match) Join(sessionID, name string) (Binding, Outcome, error) {
	var out Outcome
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}

	b := Bind(m.seats, m.state, sessionID, name, m.cfg.MaxSeats)
	switch b.Kind {
	case BindingRejected:
		return b, out, b.Err

	case BindingReclaimed:
		seat := m.seats[b.Seat]
		seat.SessionID = sessionID
		seat.Connected = true
		out.Roster = true
		out.handChanged(b.Seat)
		out.emit(SystemLog{Kind: LogPlayerReconnected, Name: seat.Name})
		if m.host < 0 {
			m.host = b.Seat
			out.emit(SystemLog{Kind: LogHostChanged, Name: seat.Name})
		}
		m.reassignResponder()

	case BindingNewSeat:
		m.seats = append(m.seats, newSeat(name, sessionID))
		out.Roster = true
		out.emit(SystemLog{Kind: LogPlayerConnected, Name: name})
		if m.host < 0 {
			m.host = b.Seat
		}
	}

	return b, out, nil
}

// Disconnect marks the seat bound to sessionID as disconnected. The seat keeps
// its place, hand and revolver; turn order is not advanced. It returns false
// when no seat is bound to the session.
func (m *Match) Disconnect(sessionID string) (Outcome, bool) {
	var out Outcome
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return out, false
	}

	seat := m.seats[idx]
	seat.Connected = false
	seat.SessionID = ""
	out.Roster = true
	out.emit(SystemLog{Kind: LogPlayerDisconnected, Name: seat.Name})

	if idx == m.host {
		m.host = -1
		for i, s := range m.seats {
			if s.Connected {
				m.host = i
				break
			}
		}
		if m.host >= 0 {
			out.emit(SystemLog{Kind: LogHostChanged, Name: m.seats[m.host].Name})
		} else {
			out.emit(SystemLog{Kind: LogHostNone})
		}
	}

	return out, true
}

// Start begins a new game from the lobby, or a rematch once a game has ended.
func (m *Match) Start(sessionID string) (Outcome, error) {
	var out Outcome
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return out, ErrNotSeated
	}
	if m.state == StatePlaying {
		return out, ErrGameInProgress
	}
	if idx != m.host {
		return out, ErrNotHost
	}

	connected := 0
	for _, s := range m.seats {
		if s.Connected {
			connected++
		}
	}
	if connected < m.cfg.MinSeats || connected > m.cfg.MaxSeats {
		return out, playerCountError(m.cfg)
	}

	// seats that are away at the start sit the game out
	for i, s := range m.seats {
		s.reset()
		s.Alive = s.Connected
		out.handChanged(i)
	}
	m.state = StatePlaying
	m.winner = ""
	m.round = 0
	m.pile = nil
	m.remaining = nil
	m.lastPlay = nil
	m.pendingGun = nil

	first := 0
	for i, s := range m.seats {
		if s.Active() {
			first = i
			break
		}
	}

	out.Roster = true
	out.emit(SystemLog{Kind: LogGameStarted, By: m.seats[idx].Name})
	m.beginChooseRank(first, &out)
	return out, nil
}

// ChooseRank sets the table rank and deals a fresh round
func (m *Match) ChooseRank(sessionID string, rank deck.Rank) (Outcome, error) {
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return Outcome{}, ErrNotSeated
	}
	return m.chooseRank(idx, rank)
}

// Play puts cards face-down on the pile under a declared count
func (m *Match) Play(sessionID string, cardIDs []string, declared int) (Outcome, error) {
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return Outcome{}, ErrNotSeated
	}
	return m.play(idx, cardIDs, declared)
}

// Accept lets the responder take the turn without disputing the last play
func (m *Match) Accept(sessionID string) (Outcome, error) {
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return Outcome{}, ErrNotSeated
	}
	return m.accept(idx)
}

// Challenge disputes the last play and moves the loser to the gun
func (m *Match) Challenge(sessionID string) (Outcome, error) {
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return Outcome{}, ErrNotSeated
	}
	return m.challenge(idx)
}

// Spin loads the loser's revolver on their first penalty
func (m *Match) Spin(sessionID string) (Outcome, error) {
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return Outcome{}, ErrNotSeated
	}
	return m.spin(idx)
}

// Fire pulls the trigger on the loser's revolver and resolves the round
func (m *Match) Fire(sessionID string) (Outcome, error) {
	idx := m.SeatBySession(sessionID)
	if idx < 0 {
		return Outcome{}, ErrNotSeated
	}
	return m.fire(idx)
}

// guard runs the checks shared by every in-match action
func (m *Match) guard(idx int, a Action) error {
	if m.state != StatePlaying {
		return ErrNoActiveGame
	}
	if !m.phase.Allows(a) {
		return m.phase.reject(a)
	}
	if !m.seats[idx].Alive {
		return ErrEliminated
	}
	return nil
}

func (m *Match) chooseRank(idx int, rank deck.Rank) (Outcome, error) {
	var out Outcome
	if err := m.guard(idx, ActionChooseRank); err != nil {
		return out, err
	}
	if idx != m.turn {
		return out, ErrNotYourTurn
	}
	if !rank.IsTableRank() {
		return out, ErrInvalidRank
	}

	var active []int
	for i, s := range m.seats {
		if s.Active() {
			active = append(active, i)
		}
	}

	cards := deck.Shuffle(deck.Build(len(active)), m.rng)
	deal := deck.DealHands(cards, len(active), m.cfg.HandSize)

	for i, s := range m.seats {
		s.hand = nil
		out.handChanged(i)
	}
	for n, i := range active {
		m.seats[i].hand = deal.Hands[n]
	}

	m.remaining = deal.Remaining
	m.pile = nil
	m.lastPlay = nil
	m.responding = false
	m.responder = -1
	m.tableRank = rank
	m.hasRank = true
	m.phase = PhaseRound
	m.round++

	out.emit(SystemLog{Kind: LogRoundStarted, Rank: rank.String(), By: m.seats[idx].Name})
	if deal.Shortfall > 0 {
		out.emit(SystemLog{Kind: LogDealShort, Count: deal.Shortfall})
	}

	// A chooser acting on behalf of a disconnected seat may have left the
	// turn with a seat that received no cards.
	if len(m.seats[m.turn].hand) == 0 {
		m.turn = m.nextActive(m.turn)
	}
	return out, nil
}

func (m *Match) play(idx int, cardIDs []string, declared int) (Outcome, error) {
	var out Outcome
	if err := m.guard(idx, ActionPlay); err != nil {
		return out, err
	}
	if idx != m.turn {
		return out, ErrNotYourTurn
	}
	if m.responding {
		return out, ErrAwaitingResponse
	}
	if len(cardIDs) < 1 || len(cardIDs) > MaxPlayCards {
		return out, ErrCardCount
	}
	if declared != len(cardIDs) {
		return out, ErrDeclaredMismatch
	}

	seat := m.seats[idx]
	cards, err := seat.take(cardIDs)
	if err != nil {
		return out, err
	}

	m.pile = append(m.pile, cards...)
	m.lastPlay = &Play{Seat: idx, Name: seat.Name, Declared: declared, Cards: cards}
	out.handChanged(idx)
	out.emit(SystemLog{Kind: LogCardsPlayed, Name: seat.Name, Count: declared, Rank: m.tableRank.String()})

	if len(seat.hand) == 0 {
		m.safeRound(idx, &out)
		return out, nil
	}

	m.responding = true
	m.responder = -1
	m.reassignResponder()
	return out, nil
}

func (m *Match) accept(idx int) (Outcome, error) {
	var out Outcome
	if err := m.guard(idx, ActionAccept); err != nil {
		return out, err
	}
	if !m.responding {
		return out, ErrNothingToRespond
	}
	if idx != m.responder {
		return out, ErrNotResponder
	}

	m.turn = idx
	m.responder = -1
	m.responding = false
	out.emit(SystemLog{Kind: LogPlayAccepted, Name: m.seats[idx].Name})

	// A seat that joined back after the deal has nothing to play.
	if len(m.seats[idx].hand) == 0 {
		m.safeRound(idx, &out)
	}
	return out, nil
}

func (m *Match) challenge(idx int) (Outcome, error) {
	var out Outcome
	if err := m.guard(idx, ActionChallenge); err != nil {
		return out, err
	}
	if !m.responding {
		return out, ErrNothingToRespond
	}
	if idx != m.responder {
		return out, ErrNotResponder
	}
	if m.lastPlay == nil {
		return out, ErrNothingToChallenge
	}

	last := m.lastPlay
	challenger := m.seats[idx]
	truthful := deck.IsTruthful(last.Cards, m.tableRank)

	meta := ChallengeMeta{
		ChallengerSeat: idx,
		Challenger:     challenger.Name,
		Liar:           last.Name,
		PreviousRank:   m.tableRank,
		Revealed:       last.Cards,
	}
	loser := last.Seat
	if truthful {
		loser = idx
		meta.Result = ResultTruth
		out.emit(SystemLog{Kind: LogChallengeFailed, By: challenger.Name, Liar: last.Name})
	} else {
		meta.Result = ResultLiar
		out.emit(SystemLog{Kind: LogChallengeSuccess, By: challenger.Name, Liar: last.Name})
	}
	meta.Loser = m.seats[loser].Name

	m.pendingGun = &PendingGun{Loser: loser, Meta: meta}
	m.pile = nil
	m.lastPlay = nil
	m.responding = false
	m.responder = -1
	m.phase = PhaseGun

	out.emit(GunPending{Seat: loser, Name: meta.Loser, CanSpin: !m.seats[loser].Armed()})
	return out, nil
}

func (m *Match) spin(idx int) (Outcome, error) {
	var out Outcome
	if err := m.guard(idx, ActionSpin); err != nil {
		return out, err
	}
	if idx != m.pendingGun.Loser {
		return out, ErrNotLoser
	}
	seat := m.seats[idx]
	if seat.Armed() {
		return out, ErrAlreadyLoaded
	}

	seat.gun = revolver.Spun(m.rng)
	out.emit(SystemLog{Kind: LogGunSpun, Name: seat.Name})
	out.emit(GunPending{Seat: idx, Name: seat.Name, CanSpin: false})
	return out, nil
}

func (m *Match) fire(idx int) (Outcome, error) {
	var out Outcome
	if err := m.guard(idx, ActionFire); err != nil {
		return out, err
	}
	if idx != m.pendingGun.Loser {
		return out, ErrNotLoser
	}
	seat := m.seats[idx]
	if !seat.Armed() {
		return out, ErrNotLoaded
	}

	res := seat.gun.Pull()
	out.emit(GunResult{Seat: idx, Name: seat.Name, Fired: res.Fired})
	if res.Fired {
		seat.Alive = false
		seat.hand = nil
		out.handChanged(idx)
		out.Roster = true
		out.emit(SystemLog{Kind: LogPlayerEliminated, Name: seat.Name})
	}

	meta := m.pendingGun.Meta
	m.pendingGun = nil
	m.pile = nil
	m.lastPlay = nil

	summary := RoundSummary{
		Result:       meta.Result,
		Challenger:   meta.Challenger,
		Liar:         meta.Liar,
		Loser:        meta.Loser,
		LoserAlive:   seat.Alive,
		PreviousRank: meta.PreviousRank.String(),
		Revealed:     meta.Revealed,
	}

	if m.checkWinner(&out) {
		out.emit(summary)
		return out, nil
	}

	next := m.nextChooser(meta.ChallengerSeat)
	summary.NextChooser = m.seats[next].Name
	out.emit(summary)
	m.beginChooseRank(next, &out)
	return out, nil
}

// safeRound ends the round early because seat idx has no cards left
func (m *Match) safeRound(idx int, out *Outcome) {
	prev := m.tableRank
	m.pile = nil
	m.lastPlay = nil
	m.responding = false
	m.responder = -1

	summary := RoundSummary{
		Result:       ResultPlayerOut,
		Player:       m.seats[idx].Name,
		LoserAlive:   true,
		PreviousRank: prev.String(),
	}
	if m.checkWinner(out) {
		out.emit(summary)
		return
	}

	next := m.nextChooser(idx)
	summary.NextChooser = m.seats[next].Name
	out.emit(summary)
	m.beginChooseRank(next, out)
}

func (m *Match) beginChooseRank(chooser int, out *Outcome) {
	m.phase = PhaseChooseRank
	m.hasRank = false
	m.turn = chooser
	m.responder = -1
	m.responding = false
	out.emit(SystemLog{Kind: LogRoundChooser, Name: m.seats[chooser].Name})
}

// checkWinner ends the match once at most one seat is alive
func (m *Match) checkWinner(out *Outcome) bool {
	if m.state != StatePlaying {
		return false
	}
	alive := -1
	count := 0
	for i, s := range m.seats {
		if s.Alive {
			alive = i
			count++
		}
	}
	if count > 1 {
		return false
	}

	m.state = StateEnded
	m.hasRank = false
	m.responder = -1
	m.responding = false
	if alive >= 0 {
		m.winner = m.seats[alive].Name
	}
	out.Roster = true
	out.emit(SystemLog{Kind: LogGameEnded, Winner: m.winner})
	return true
}

// nextActive returns the first connected, alive seat after start, wrapping
// around. It returns start itself when no other seat qualifies; callers treat
// that as "no valid seat".
func (m *Match) nextActive(start int) int {
	n := len(m.seats)
	for step := 1; step <= n; step++ {
		i := (start + step) % n
		if i == start {
			break
		}
		if m.seats[i].Active() {
			return i
		}
	}
	return start
}

// nextChooser picks who sets the next rank: the next active seat after, or
// failing that any alive seat so the turn never rests on a dead one.
func (m *Match) nextChooser(after int) int {
	next := m.nextActive(after)
	if m.seats[next].Alive {
		return next
	}
	for i, s := range m.seats {
		if s.Alive {
			return i
		}
	}
	return next
}

// reassignResponder fills an empty responder slot once someone can respond
func (m *Match) reassignResponder() {
	if m.state != StatePlaying || m.phase != PhaseRound || !m.responding || m.responder >= 0 {
		return
	}
	if next := m.nextActive(m.turn); next != m.turn {
		m.responder = next
	}
}
