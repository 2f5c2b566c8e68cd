// Package game implements the authoritative state machine for a liar's bar
// match.
//
// A Match owns the roster, every hand, the pile and each seat's revolver. All
// actions are methods on Match keyed by the caller's session id; each either
// returns an error and leaves the match untouched, or applies its effect and
// returns an Outcome listing the events to broadcast and the seats whose
// private hand changed.
//
// # Basic Usage
//
//	m := game.NewMatch("ABC123", game.DefaultConfig(), randutil.New(42))
//	m.Join("s1", "alice")
//	m.Join("s2", "bob")
//	m.Start("s1")
//	m.ChooseRank("s1", deck.King)
//	snap := game.Project(m) // public view, safe to send to anyone
//	hand := m.Hand(0)       // private, send to seat 0 only
//
// # Phases
//
// A running match is always in exactly one of chooseRank, round or gun. The
// actions each phase accepts live in a single table (see Phase.Allows) and
// are checked before anything else.
//
// # Concurrency
//
// Match is not safe for concurrent use. The server runs each match inside a
// room goroutine that serialises every action.
package game
