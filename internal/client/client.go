package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsbar/internal/deck"
	"github.com/lox/liarsbar/internal/game"
	"github.com/lox/liarsbar/internal/server" // Reuse message types
)

// ErrNotConnected is returned for requests made before Connect or after the
// connection dropped
var ErrNotConnected = errors.New("not connected")

const defaultRequestTimeout = 10 * time.Second

// Client is a websocket client for one player. Requests block until the
// server's ack arrives; everything else the server pushes is delivered on
// Events.
type Client struct {
	serverURL      string
	conn           *websocket.Conn
	send           chan *server.Message
	events         chan *server.Message
	logger         *log.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	requestTimeout time.Duration
	closeOnce      sync.Once
	seq            atomic.Uint64

	mu         sync.RWMutex
	connected  bool
	playerName string
	matchID    string
	seat       int
	pending    map[string]chan server.AckData
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL:      serverURL,
		send:           make(chan *server.Message, 256),
		events:         make(chan *server.Message, 256),
		logger:         logger.WithPrefix("client"),
		ctx:            ctx,
		cancel:         cancel,
		requestTimeout: defaultRequestTimeout,
		seat:           -1,
		pending:        make(map[string]chan server.AckData),
	}
}

// SetRequestTimeout bounds how long a request waits for its ack
func (c *Client) SetRequestTimeout(d time.Duration) {
	c.requestTimeout = d
}

// WebSocketURL turns a server address into its websocket endpoint. http and
// https are mapped to ws and wss and /ws is added when no path is given.
func WebSocketURL(serverURL string) (string, error) {
	if !strings.Contains(serverURL, "://") {
		serverURL = "ws://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	wsURL, err := WebSocketURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
		}
		c.connected = false

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// Done is closed once the connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Events delivers every pushed message: lobby and game updates, the private
// hand, and transient events. It is closed when the connection drops.
func (c *Client) Events() <-chan *server.Message {
	return c.events
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.cancel()
		close(c.events)
	}()

	for {
		var msg server.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

		if msg.Type == server.MessageTypeAck {
			c.deliverAck(&msg)
			continue
		}

		select {
		case c.events <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) deliverAck(msg *server.Message) {
	var ack server.AckData
	if err := json.Unmarshal(msg.Data, &ack); err != nil {
		c.logger.Warn("Malformed ack", "error", err)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[msg.RequestID]
	delete(c.pending, msg.RequestID)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("Ack for unknown request", "requestId", msg.RequestID)
		return
	}
	ch <- ack
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Request sends a message and waits for its ack. A rejected request returns
// the ack along with a *game.Error carrying the server's error kind.
func (c *Client) Request(ctx context.Context, msgType server.MessageType, data any) (server.AckData, error) {
	if !c.IsConnected() {
		return server.AckData{}, ErrNotConnected
	}

	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return server.AckData{}, err
	}
	msg.RequestID = strconv.FormatUint(c.seq.Add(1), 10)

	reply := make(chan server.AckData, 1)
	c.mu.Lock()
	c.pending[msg.RequestID] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
		return server.AckData{}, ErrNotConnected
	default:
		return server.AckData{}, fmt.Errorf("send buffer full")
	}

	timeout := time.NewTimer(c.requestTimeout)
	defer timeout.Stop()

	select {
	case ack := <-reply:
		if !ack.OK {
			return ack, game.NewError(game.ErrorKind(ack.Kind), ack.Error)
		}
		return ack, nil
	case <-timeout.C:
		return server.AckData{}, fmt.Errorf("timeout waiting for %s ack", msgType)
	case <-ctx.Done():
		return server.AckData{}, ctx.Err()
	case <-c.ctx.Done():
		return server.AckData{}, ErrNotConnected
	}
}

// Create opens a new room and takes seat 0 as host
func (c *Client) Create(ctx context.Context, name string) (server.AckData, error) {
	ack, err := c.Request(ctx, server.MessageTypeLobbyCreate, server.CreateLobbyData{Name: name})
	if err != nil {
		return ack, fmt.Errorf("create lobby: %w", err)
	}
	c.bound(name, ack)
	return ack, nil
}

// Join enters an existing room by code, as a player or spectator
func (c *Client) Join(ctx context.Context, matchID, name string) (server.AckData, error) {
	ack, err := c.Request(ctx, server.MessageTypeLobbyJoin, server.JoinLobbyData{MatchID: matchID, Name: name})
	if err != nil {
		return ack, fmt.Errorf("join %s: %w", matchID, err)
	}
	c.bound(name, ack)
	return ack, nil
}

func (c *Client) bound(name string, ack server.AckData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = name
	c.matchID = ack.MatchID
	c.seat = -1
	if ack.Seat != nil {
		c.seat = *ack.Seat
	}
}

func (c *Client) act(ctx context.Context, msgType server.MessageType, data any) error {
	_, err := c.Request(ctx, msgType, data)
	return err
}

func (c *Client) ref() server.MatchRef {
	return server.MatchRef{MatchID: c.MatchID()}
}

// Start begins the game (host only)
func (c *Client) Start(ctx context.Context) error {
	return c.act(ctx, server.MessageTypeGameStart, c.ref())
}

// ChooseRank names the table rank for the round
func (c *Client) ChooseRank(ctx context.Context, rank deck.Rank) error {
	return c.act(ctx, server.MessageTypeChooseRank, server.ChooseRankData{MatchID: c.MatchID(), Rank: rank})
}

// Play puts cards face down and declares how many there are
func (c *Client) Play(ctx context.Context, cardIDs []string, declared int) error {
	return c.act(ctx, server.MessageTypeTurnPlay, server.PlayData{
		MatchID:       c.MatchID(),
		CardIDs:       cardIDs,
		DeclaredCount: declared,
	})
}

// Accept lets the last play stand
func (c *Client) Accept(ctx context.Context) error {
	return c.act(ctx, server.MessageTypeTurnAccept, c.ref())
}

// Challenge calls the last play a lie
func (c *Client) Challenge(ctx context.Context) error {
	return c.act(ctx, server.MessageTypeTurnChallenge, c.ref())
}

// Spin loads the revolver
func (c *Client) Spin(ctx context.Context) error {
	return c.act(ctx, server.MessageTypeGunSpin, c.ref())
}

// Fire pulls the trigger
func (c *Client) Fire(ctx context.Context) error {
	return c.act(ctx, server.MessageTypeGunFire, c.ref())
}

// MatchID returns the room this client is in
func (c *Client) MatchID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchID
}

// Seat returns the seat index, or -1 when spectating or not in a room
func (c *Client) Seat() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seat
}

// GetPlayerName returns the player name
func (c *Client) GetPlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// WaitForMessage reads events until one of the given type arrives, dropping
// the rest. Meant for scripted clients; the TUI consumes Events directly.
func (c *Client) WaitForMessage(ctx context.Context, messageType server.MessageType) (*server.Message, error) {
	for {
		select {
		case msg, ok := <-c.events:
			if !ok {
				return nil, ErrNotConnected
			}
			if msg.Type == messageType {
				return msg, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", messageType, ctx.Err())
		}
	}
}
