package server

import "github.com/lox/liarsbar/internal/game"

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server requests, each answered with an ack
	MessageTypeLobbyCreate   MessageType = "lobby.create"
	MessageTypeLobbyJoin     MessageType = "lobby.join"
	MessageTypeGameStart     MessageType = "game.start"
	MessageTypeChooseRank    MessageType = "round.chooseRank"
	MessageTypeTurnPlay      MessageType = "turn.play"
	MessageTypeTurnAccept    MessageType = "turn.accept"
	MessageTypeTurnChallenge MessageType = "turn.challenge"
	MessageTypeGunSpin       MessageType = "gun.spin"
	MessageTypeGunFire       MessageType = "gun.fire"

	// Server to client messages
	MessageTypeAck          MessageType = "ack"
	MessageTypeLobbyUpdate  MessageType = "lobby.update"
	MessageTypeGameUpdate   MessageType = "game.update"
	MessageTypeHandUpdate   MessageType = "hand.update"
	MessageTypeRoundSummary             = MessageType(game.EventRoundSummary)
	MessageTypeGunPending               = MessageType(game.EventGunPending)
	MessageTypeGunResult                = MessageType(game.EventGunResult)
	MessageTypeSystemLog                = MessageType(game.EventSystemLog)
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
