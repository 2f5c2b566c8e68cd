package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
)

// ErrRoomClosed is returned for requests against a room that has shut down
var ErrRoomClosed = game.NewError(game.KindPrecondition, "room closed")

// Peer is a member of a room: a player connection or a spectator
type Peer interface {
	SessionID() string
	SendMessage(msg *Message) error
}

// ActionFunc applies one request to the match on behalf of a session
type ActionFunc func(m *game.Match, sessionID string) (game.Outcome, error)

// RoomConfig configures a room
type RoomConfig struct {
	Rules   game.Config
	Rand    game.Rand
	Clock   quartz.Clock
	Monitor MatchMonitor
	// TurnTimeout acts on behalf of the seat the match waits on once it
	// elapses. Zero disables it.
	TurnTimeout time.Duration
}

// Room owns one match. Every request runs on the room's goroutine, one at a
// time, so the match never sees interleaved mutations and each accepted
// action is fully broadcast before the next begins.
type Room struct {
	id          string
	match       *game.Match
	logger      *log.Logger
	clock       quartz.Clock
	monitor     MatchMonitor
	turnTimeout time.Duration

	inbox    chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// owned by the run goroutine
	members    map[Peer]struct{}
	timer      *quartz.Timer
	timerGen   uint64
	startedAt  time.Time
	players    []string
	eliminated []string

	mu         sync.Mutex
	emptySince time.Time
}

// NewRoom creates a room and starts its goroutine
func NewRoom(id string, cfg RoomConfig, logger *log.Logger) *Room {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Monitor == nil {
		cfg.Monitor = NullMatchMonitor{}
	}

	r := &Room{
		id:          id,
		match:       game.NewMatch(id, cfg.Rules, cfg.Rand),
		logger:      logger.WithPrefix("room").With("room", id),
		clock:       cfg.Clock,
		monitor:     cfg.Monitor,
		turnTimeout: cfg.TurnTimeout,
		inbox:       make(chan func()),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		members:     make(map[Peer]struct{}),
		emptySince:  cfg.Clock.Now(),
	}
	go r.run()
	return r
}

// ID returns the room code
func (r *Room) ID() string { return r.id }

// Done is closed once the room goroutine has exited
func (r *Room) Done() <-chan struct{} { return r.done }

// Stop shuts the room down. Pending requests fail with ErrRoomClosed.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// IdleSince reports when the room last lost its final member
func (r *Room) IdleSince() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emptySince, !r.emptySince.IsZero()
}

func (r *Room) run() {
	defer close(r.done)
	for {
		select {
		case task := <-r.inbox:
			task()
		case <-r.quit:
			r.stopTimer()
			return
		}
	}
}

// exec runs fn on the room goroutine and waits for it to finish
func (r *Room) exec(fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case r.inbox <- task:
	case <-r.quit:
		return ErrRoomClosed
	}
	<-finished
	return nil
}

// Join binds a peer to the match as a player or spectator. The peer always
// receives the current lobby view and public snapshot, plus its hand when
// it holds a seat.
func (r *Room) Join(p Peer, name string) (game.Binding, error) {
	var (
		binding game.Binding
		err     error
	)
	execErr := r.exec(func() {
		var out game.Outcome
		binding, out, err = r.match.Join(p.SessionID(), name)
		if err != nil {
			r.logger.Debug("Join rejected", "name", name, "error", err)
			return
		}

		r.addMember(p)
		r.logger.Info("Joined", "name", name, "binding", binding.Kind, "seat", binding.Seat)
		r.publish(out)

		if !out.Roster {
			r.send(p, MessageTypeLobbyUpdate, r.match.Lobby())
		}
		if binding.Seat >= 0 && !containsSeat(out.Hands, binding.Seat) {
			r.pushHand(binding.Seat)
		}
	})
	if execErr != nil {
		return game.Binding{Kind: game.BindingRejected, Seat: -1, Err: execErr}, execErr
	}
	return binding, err
}

// Leave removes a peer. A seated peer's seat is kept for reconnection.
func (r *Room) Leave(p Peer) {
	_ = r.exec(func() {
		r.removeMember(p)
		out, ok := r.match.Disconnect(p.SessionID())
		if !ok {
			return
		}
		r.logger.Info("Left", "session", p.SessionID())
		r.publish(out)
	})
}

// Act runs an in-match request. A rejected request changes nothing and
// broadcasts nothing.
func (r *Room) Act(p Peer, fn ActionFunc) error {
	var err error
	execErr := r.exec(func() {
		var out game.Outcome
		out, err = fn(r.match, p.SessionID())
		if err != nil {
			return
		}
		r.publish(out)
	})
	if execErr != nil {
		return execErr
	}
	return err
}

// Snapshot returns the current public view
func (r *Room) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := r.exec(func() { snap = game.Project(r.match) })
	return snap, err
}

func (r *Room) addMember(p Peer) {
	r.members[p] = struct{}{}
	r.mu.Lock()
	r.emptySince = time.Time{}
	r.mu.Unlock()
}

func (r *Room) removeMember(p Peer) {
	delete(r.members, p)
	if len(r.members) == 0 {
		r.mu.Lock()
		r.emptySince = r.clock.Now()
		r.mu.Unlock()
	}
}

// publish broadcasts the effects of an accepted action: the roster when it
// changed, the public snapshot, private hands to their owners, then events.
func (r *Room) publish(out game.Outcome) {
	r.observe(out)

	if out.Roster {
		r.broadcast(MessageTypeLobbyUpdate, r.match.Lobby())
	}
	r.broadcast(MessageTypeGameUpdate, game.Project(r.match))
	for _, seat := range out.Hands {
		r.pushHand(seat)
	}
	for _, event := range out.Events {
		r.broadcast(MessageType(event.EventType()), event)
	}

	r.armTimer()
}

func (r *Room) broadcast(msgType MessageType, data any) {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		r.logger.Error("Failed to create message", "type", msgType, "error", err)
		return
	}
	for p := range r.members {
		if err := p.SendMessage(msg); err != nil {
			r.logger.Debug("Failed to send message", "type", msgType, "session", p.SessionID(), "error", err)
		}
	}
}

func (r *Room) send(p Peer, msgType MessageType, data any) {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		r.logger.Error("Failed to create message", "type", msgType, "error", err)
		return
	}
	_ = p.SendMessage(msg)
}

// pushHand sends a seat its hand. Nobody else ever receives it.
func (r *Room) pushHand(seat int) {
	s := r.match.Seat(seat)
	if s == nil || !s.Connected {
		return
	}
	cards := r.match.Hand(seat)
	if cards == nil {
		cards = []deck.Card{}
	}
	for p := range r.members {
		if p.SessionID() == s.SessionID {
			r.send(p, MessageTypeHandUpdate, HandData{MatchID: r.id, Seat: seat, Cards: cards})
			return
		}
	}
}

// observe feeds the monitor from the events of an outcome
func (r *Room) observe(out game.Outcome) {
	ended := false
	for _, event := range out.Events {
		switch e := event.(type) {
		case game.SystemLog:
			switch e.Kind {
			case game.LogGameStarted:
				r.startedAt = r.clock.Now()
				r.eliminated = nil
				r.players = r.players[:0]
				for i := 0; i < r.match.SeatCount(); i++ {
					if s := r.match.Seat(i); s.Alive {
						r.players = append(r.players, s.Name)
					}
				}
				r.monitor.OnMatchStart(r.id, append([]string(nil), r.players...))
			case game.LogPlayerEliminated:
				r.eliminated = append(r.eliminated, e.Name)
			case game.LogGameEnded:
				ended = true
			}
		case game.RoundSummary:
			r.monitor.OnRoundResolved(r.id, r.match.Round(), e)
		}
	}

	if ended {
		r.monitor.OnMatchEnd(MatchResult{
			MatchID:    r.id,
			Winner:     r.match.Winner(),
			Players:    append([]string(nil), r.players...),
			Eliminated: append([]string(nil), r.eliminated...),
			Rounds:     r.match.Round(),
			StartedAt:  r.startedAt,
			EndedAt:    r.clock.Now(),
		})
	}
}

// armTimer restarts the turn timer for whoever the match now waits on
func (r *Room) armTimer() {
	r.stopTimer()
	if r.turnTimeout <= 0 {
		return
	}
	if _, _, ok := r.match.Pending(); !ok {
		return
	}

	gen := r.timerGen
	r.timer = r.clock.AfterFunc(r.turnTimeout, func() {
		_ = r.exec(func() { r.onTimeout(gen) })
	}, "room", "turn")
}

func (r *Room) stopTimer() {
	r.timerGen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) onTimeout(gen uint64) {
	// a newer action re-armed the timer while this one was in flight
	if gen != r.timerGen {
		return
	}
	seat, action, ok := r.match.Pending()
	if !ok {
		return
	}

	r.logger.Info("Turn timed out", "seat", seat, "action", action)
	out, err := r.match.ActOnBehalf()
	if err != nil {
		r.logger.Warn("Failed to act on behalf of idle seat", "seat", seat, "error", err)
		return
	}
	r.publish(out)
}

func containsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}
