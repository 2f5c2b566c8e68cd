package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsbar/internal/game"
	"github.com/lox/liarsbar/internal/gameid"
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent

	errNotInRoom = game.NewError(game.KindPrecondition, "not in this match")
)

// lobby is what a connection needs from the server
type lobby interface {
	CreateRoom() (*Room, error)
	Room(id string) (*Room, bool)
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	room      *Room
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	lobby     lobby
}

// NewConnection creates a new connection wrapper with a fresh session id
func NewConnection(conn *websocket.Conn, logger *log.Logger, lobby lobby) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	sessionID := uuid.NewString()

	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		sessionID: sessionID,
		logger:    logger.WithPrefix("conn").With("session", sessionID[:8]),
		ctx:       ctx,
		cancel:    cancel,
		lobby:     lobby,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SessionID identifies this connection to the match it joins
func (c *Connection) SessionID() string {
	return c.sessionID
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Room returns the room this connection is in, if any
func (c *Connection) Room() *Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

func (c *Connection) setRoom(room *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage decodes a request, runs it and answers with an ack carrying
// the request id.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	var (
		ack AckData
		err error
	)
	switch msg.Type {
	case MessageTypeLobbyCreate:
		var data CreateLobbyData
		if err = decode(msg, &data); err == nil {
			ack, err = c.handleCreate(data)
		}

	case MessageTypeLobbyJoin:
		var data JoinLobbyData
		if err = decode(msg, &data); err == nil {
			ack, err = c.handleJoin(data)
		}

	case MessageTypeGameStart:
		err = c.handleAction(msg, func(m *game.Match, session string) (game.Outcome, error) {
			return m.Start(session)
		})

	case MessageTypeChooseRank:
		var data ChooseRankData
		if err = decode(msg, &data); err == nil {
			err = c.handleAction(msg, func(m *game.Match, session string) (game.Outcome, error) {
				return m.ChooseRank(session, data.Rank)
			})
		}

	case MessageTypeTurnPlay:
		var data PlayData
		if err = decode(msg, &data); err == nil {
			err = c.handleAction(msg, func(m *game.Match, session string) (game.Outcome, error) {
				return m.Play(session, data.CardIDs, data.DeclaredCount)
			})
		}

	case MessageTypeTurnAccept:
		err = c.handleAction(msg, (*game.Match).Accept)

	case MessageTypeTurnChallenge:
		err = c.handleAction(msg, (*game.Match).Challenge)

	case MessageTypeGunSpin:
		err = c.handleAction(msg, (*game.Match).Spin)

	case MessageTypeGunFire:
		err = c.handleAction(msg, (*game.Match).Fire)

	default:
		err = game.NewError(game.KindValidation, "unknown message type: "+msg.Type.String())
	}

	if err != nil {
		c.logger.Debug("Request rejected", "type", msg.Type, "error", err)
		ack = errorAck(err)
	} else {
		ack.OK = true
	}
	c.sendAck(msg.RequestID, ack)
}

func decode(msg *Message, v any) error {
	if len(msg.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return game.NewError(game.KindValidation, fmt.Sprintf("invalid %s payload: %v", msg.Type, err))
	}
	return nil
}

func (c *Connection) sendAck(requestID string, ack AckData) {
	msg, err := NewMessage(MessageTypeAck, ack)
	if err != nil {
		c.logger.Error("Failed to create ack", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

func (c *Connection) handleCreate(data CreateLobbyData) (AckData, error) {
	room, err := c.lobby.CreateRoom()
	if err != nil {
		return AckData{}, err
	}
	c.logger.Info("Created room", "room", room.ID(), "name", data.Name)
	return c.enter(room, data.Name)
}

func (c *Connection) handleJoin(data JoinLobbyData) (AckData, error) {
	id := gameid.Normalize(data.MatchID)
	if err := gameid.Validate(id); err != nil {
		return AckData{}, game.NewError(game.KindValidation, err.Error())
	}
	room, ok := c.lobby.Room(id)
	if !ok {
		return AckData{}, game.NewError(game.KindPrecondition, "match not found")
	}
	return c.enter(room, data.Name)
}

// enter moves the connection into room, leaving any previous one
func (c *Connection) enter(room *Room, name string) (AckData, error) {
	if prev := c.Room(); prev != nil && prev != room {
		prev.Leave(c)
		c.setRoom(nil)
	}

	binding, err := room.Join(c, name)
	if err != nil {
		return AckData{}, err
	}
	c.setRoom(room)

	ack := AckData{MatchID: room.ID()}
	if binding.Kind == game.BindingSpectator {
		ack.Spectator = true
	} else {
		seat := binding.Seat
		ack.Seat = &seat
	}
	return ack, nil
}

// handleAction routes an in-match request to the connection's room
func (c *Connection) handleAction(msg *Message, fn ActionFunc) error {
	var ref MatchRef
	if err := decode(msg, &ref); err != nil {
		return err
	}
	room := c.Room()
	if room == nil || (ref.MatchID != "" && gameid.Normalize(ref.MatchID) != room.ID()) {
		return errNotInRoom
	}
	return room.Act(c, fn)
}

// leave detaches the connection from its room on disconnect
func (c *Connection) leave() {
	if room := c.Room(); room != nil {
		room.Leave(c)
		c.setRoom(nil)
	}
}
