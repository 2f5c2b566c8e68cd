package game

// BindingKind is how a connection was attached to a match
type BindingKind int

const (
	// BindingBound means the connection already owns a seat
	BindingBound BindingKind = iota
	// BindingReclaimed means a disconnected seat with the same name was rebound
	BindingReclaimed
	// BindingNewSeat means a fresh seat will be created
	BindingNewSeat
	// BindingSpectator means the match is running and the connection may only watch
	BindingSpectator
	// BindingRejected means the connection cannot join; see Binding.Err
	BindingRejected
)

func (k BindingKind) String() string {
	switch k {
	case BindingBound:
		return "bound"
	case BindingReclaimed:
		return "reclaimed"
	case BindingNewSeat:
		return "new_seat"
	case BindingSpectator:
		return "spectator"
	case BindingRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Binding is the resolution of a connection against a roster
type Binding struct {
	Kind BindingKind
	Seat int // -1 for spectators and rejections
	Err  error
}

// Bind resolves which seat, if any, a connection maps to. It does not modify
// seats. Resolution order:
//
//  1. a connected seat already bound to sessionID
//  2. a disconnected seat named name (reconnect by name)
//  3. a new seat while the match is in the lobby or has ended, subject to
//     capacity and name uniqueness among connected seats
//  4. spectator while the match is playing
func Bind(seats []*Seat, state State, sessionID, name string, capacity int) Binding {
	for i, s := range seats {
		if s.Connected && s.SessionID == sessionID {
			return Binding{Kind: BindingBound, Seat: i}
		}
	}

	for i, s := range seats {
		if !s.Connected && s.Name == name {
			return Binding{Kind: BindingReclaimed, Seat: i}
		}
	}

	if state == StatePlaying {
		return Binding{Kind: BindingSpectator, Seat: -1}
	}

	for _, s := range seats {
		if s.Connected && s.Name == name {
			return Binding{Kind: BindingRejected, Seat: -1, Err: ErrNameTaken}
		}
	}
	if len(seats) >= capacity {
		return Binding{Kind: BindingRejected, Seat: -1, Err: ErrLobbyFull}
	}

	return Binding{Kind: BindingNewSeat, Seat: len(seats)}
}
