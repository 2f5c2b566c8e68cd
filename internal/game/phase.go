package game

import "fmt"

// State is the lifecycle of a match
type State int

const (
	StateLobby State = iota
	StatePlaying
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{StateLobby, StatePlaying, StateEnded} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Phase is the step of a running match. Exactly one phase is active while the
// match is playing.
type Phase int

const (
	PhaseChooseRank Phase = iota
	PhaseRound
	PhaseGun
)

func (p Phase) String() string {
	switch p {
	case PhaseChooseRank:
		return "chooseRank"
	case PhaseRound:
		return "round"
	case PhaseGun:
		return "gun"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for _, v := range []Phase{PhaseChooseRank, PhaseRound, PhaseGun} {
		if v.String() == string(b) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Action is an in-match request a seat can make
type Action int

const (
	ActionChooseRank Action = iota
	ActionPlay
	ActionAccept
	ActionChallenge
	ActionSpin
	ActionFire
)

func (a Action) String() string {
	switch a {
	case ActionChooseRank:
		return "chooseRank"
	case ActionPlay:
		return "play"
	case ActionAccept:
		return "accept"
	case ActionChallenge:
		return "challenge"
	case ActionSpin:
		return "spin"
	case ActionFire:
		return "fire"
	default:
		return "unknown"
	}
}

type actionSet uint8

func setOf(actions ...Action) actionSet {
	var s actionSet
	for _, a := range actions {
		s |= 1 << a
	}
	return s
}

// transitions is the allowed-action table. Anything not listed for a phase
// is rejected with that phase's precondition error before any other check.
var transitions = map[Phase]actionSet{
	PhaseChooseRank: setOf(ActionChooseRank),
	PhaseRound:      setOf(ActionPlay, ActionAccept, ActionChallenge),
	PhaseGun:        setOf(ActionSpin, ActionFire),
}

// Allows reports whether the action is legal in this phase
func (p Phase) Allows(a Action) bool {
	return transitions[p]&(1<<a) != 0
}

// reject returns the error for attempting a in phase p
func (p Phase) reject(a Action) error {
	switch p {
	case PhaseChooseRank:
		if a == ActionSpin || a == ActionFire {
			return ErrNoGunPending
		}
		return ErrRoundNotStarted
	case PhaseRound:
		if a == ActionChooseRank {
			return ErrRankAlreadyChosen
		}
		return ErrNoGunPending
	case PhaseGun:
		return ErrGunPending
	}
	return ErrNoActiveGame
}
