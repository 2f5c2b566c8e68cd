package game

import "github.com/lox/liarsbar/internal/deck"

// Pending returns the seat the match is waiting on and the action it owes.
// ok is false when no game is running or nobody can act, for example when the
// responder slot is empty because every other seat is disconnected.
func (m *Match) Pending() (seat int, action Action, ok bool) {
	if m.state != StatePlaying {
		return -1, 0, false
	}
	switch m.phase {
	case PhaseChooseRank:
		return m.turn, ActionChooseRank, true
	case PhaseRound:
		if m.responding {
			if m.responder < 0 {
				return -1, 0, false
			}
			return m.responder, ActionAccept, true
		}
		return m.turn, ActionPlay, true
	case PhaseGun:
		loser := m.pendingGun.Loser
		if !m.seats[loser].Armed() {
			return loser, ActionSpin, true
		}
		return loser, ActionFire, true
	}
	return -1, 0, false
}

// ActOnBehalf performs the pending action for the seat the match is waiting
// on, connected or not. The chooser picks a random rank, the player puts down
// one random card declared as one, the responder accepts, and the gun loser
// spins if they must and then fires.
func (m *Match) ActOnBehalf() (Outcome, error) {
	seat, action, ok := m.Pending()
	if !ok {
		return Outcome{}, ErrNoActiveGame
	}

	out := Outcome{}
	out.emit(SystemLog{Kind: LogTurnTimeout, Name: m.seats[seat].Name})

	var (
		next Outcome
		err  error
	)
	switch action {
	case ActionChooseRank:
		rank := deck.TableRanks[m.rng.IntN(len(deck.TableRanks))]
		next, err = m.chooseRank(seat, rank)

	case ActionPlay:
		hand := m.seats[seat].hand
		if len(hand) == 0 {
			return out, ErrCardNotInHand
		}
		card := hand[m.rng.IntN(len(hand))]
		next, err = m.play(seat, []string{card.ID}, 1)

	case ActionAccept:
		next, err = m.accept(seat)

	case ActionSpin:
		next, err = m.spin(seat)
		if err == nil {
			out.merge(next)
			next, err = m.fire(seat)
		}

	case ActionFire:
		next, err = m.fire(seat)
	}
	if err != nil {
		return Outcome{}, err
	}

	out.merge(next)
	return out, nil
}
