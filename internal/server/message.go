package server

import (
	"encoding/json"
	"time"

	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateLobbyData struct {
	Name string `json:"name"`
}

type JoinLobbyData struct {
	MatchID string `json:"matchId"`
	Name    string `json:"name"`
}

// MatchRef is the payload of requests that only name the match
type MatchRef struct {
	MatchID string `json:"matchId"`
}

type ChooseRankData struct {
	MatchID string    `json:"matchId"`
	Rank    deck.Rank `json:"rank"`
}

type PlayData struct {
	MatchID       string   `json:"matchId"`
	CardIDs       []string `json:"cardIds"`
	DeclaredCount int      `json:"declaredCount"`
}

// Server → Client Messages

// AckData answers a request. Exactly one of OK and Error is set.
type AckData struct {
	OK        bool   `json:"ok,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind,omitempty"`
	MatchID   string `json:"matchId,omitempty"`
	Seat      *int   `json:"seat,omitempty"`
	Spectator bool   `json:"spectator,omitempty"`
}

// HandData is a seat's private hand, sent only to that seat's connection
type HandData struct {
	MatchID string      `json:"matchId"`
	Seat    int         `json:"seat"`
	Cards   []deck.Card `json:"cards"`
}

// errorAck builds the ack for a rejected request
func errorAck(err error) AckData {
	kind := game.KindOf(err)
	if kind == "" {
		kind = game.KindValidation
	}
	return AckData{Error: err.Error(), Kind: string(kind)}
}
