package game

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an action was rejected
type ErrorKind string

const (
	KindAuthorization ErrorKind = "authorization"
	KindValidation    ErrorKind = "validation"
	KindPrecondition  ErrorKind = "precondition"
	KindCapacity      ErrorKind = "capacity"
)

// Error is a rejected action. A rejected action never mutates the match.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError returns a rejection of the given kind
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf returns the kind of a game error, or "" for anything else
func KindOf(err error) ErrorKind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}

var (
	ErrNotSeated    = NewError(KindAuthorization, "not seated in this match")
	ErrNotHost      = NewError(KindAuthorization, "only host can start")
	ErrNotYourTurn  = NewError(KindAuthorization, "not your turn")
	ErrNotResponder = NewError(KindAuthorization, "only responder can accept or challenge")
	ErrNotLoser     = NewError(KindAuthorization, "only the losing seat can use the revolver")
	ErrEliminated   = NewError(KindAuthorization, "you are eliminated")

	ErrCardCount        = NewError(KindValidation, "play 1-3 cards")
	ErrDeclaredMismatch = NewError(KindValidation, "declared count mismatch")
	ErrCardNotInHand    = NewError(KindValidation, "card not in hand")
	ErrDuplicateCard    = NewError(KindValidation, "card listed more than once")
	ErrInvalidRank      = NewError(KindValidation, "invalid rank")
	ErrNameTaken        = NewError(KindValidation, "name already taken")

	ErrNoActiveGame       = NewError(KindPrecondition, "no active game")
	ErrGameInProgress     = NewError(KindPrecondition, "game already started")
	ErrRoundNotStarted    = NewError(KindPrecondition, "round not started yet")
	ErrRankAlreadyChosen  = NewError(KindPrecondition, "rank already chosen")
	ErrAwaitingResponse   = NewError(KindPrecondition, "waiting for responder")
	ErrNothingToRespond   = NewError(KindPrecondition, "no play awaiting response")
	ErrNothingToChallenge = NewError(KindPrecondition, "nothing to challenge")
	ErrGunPending         = NewError(KindPrecondition, "waiting on the revolver")
	ErrNoGunPending       = NewError(KindPrecondition, "no gun pending")
	ErrAlreadyLoaded      = NewError(KindPrecondition, "already loaded")
	ErrNotLoaded          = NewError(KindPrecondition, "spin the cylinder first")

	ErrLobbyFull   = NewError(KindCapacity, "lobby is full")
	ErrPlayerCount = NewError(KindCapacity, "need 2-8 connected players")
)

// playerCountError reports the configured seat bounds when they differ from
// the defaults.
func playerCountError(cfg Config) error {
	if cfg.MinSeats == DefaultMinSeats && cfg.MaxSeats == DefaultMaxSeats {
		return ErrPlayerCount
	}
	return fmt.Errorf("%w (configured %d-%d)", ErrPlayerCount, cfg.MinSeats, cfg.MaxSeats)
}
