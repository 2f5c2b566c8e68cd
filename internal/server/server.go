package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsbar/internal/fileutil"
	"github.com/lox/liarsbar/internal/game"
	"github.com/lox/liarsbar/internal/gameid"
	"github.com/lox/liarsbar/internal/randutil"
	"golang.org/x/sync/errgroup"
)

const (
	// how many codes to try before giving up on a collision-free one
	maxCodeAttempts = 16

	defaultReapInterval = time.Minute
	shutdownTimeout     = 5 * time.Second
)

// Server represents the WebSocket server
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex

	store        MatchStore
	archive      *ResultArchive
	stats        *StatsMonitor
	monitor      MatchMonitor
	clock        quartz.Clock
	rng          *randutil.Forker
	ids          *gameid.Generator
	rules        game.Config
	turnTimeout  time.Duration
	idleRoomTTL  time.Duration
	reapInterval time.Duration
	cacheSize    int
	resultsFile  string
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for turn timers and the idle room reaper
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithRules sets the table rules for new rooms
func WithRules(rules game.Config) Option {
	return func(s *Server) { s.rules = rules }
}

// WithTurnTimeout enables acting on behalf of idle seats
func WithTurnTimeout(d time.Duration) Option {
	return func(s *Server) { s.turnTimeout = d }
}

// WithIdleRoomTTL removes rooms nobody has been connected to for d
func WithIdleRoomTTL(d time.Duration) Option {
	return func(s *Server) { s.idleRoomTTL = d }
}

// WithReapInterval sets how often idle rooms are looked for
func WithReapInterval(d time.Duration) Option {
	return func(s *Server) { s.reapInterval = d }
}

// WithStore replaces the in-memory room store
func WithStore(store MatchStore) Option {
	return func(s *Server) { s.store = store }
}

// WithMonitor adds a match monitor alongside the results archive
func WithMonitor(monitor MatchMonitor) Option {
	return func(s *Server) { s.monitor = monitor }
}

// WithResultsCacheSize bounds the results archive
func WithResultsCacheSize(n int) Option {
	return func(s *Server) { s.cacheSize = n }
}

// WithResultsFile writes the archived results to path on shutdown
func WithResultsFile(path string) Option {
	return func(s *Server) { s.resultsFile = path }
}

// WithCodeSource makes room codes deterministic
func WithCodeSource(src gameid.RandSource) Option {
	return func(s *Server) { s.ids = gameid.NewGenerator(src) }
}

// NewServer creates a new WebSocket server. seed drives every shuffle and
// revolver; each room gets its own generator forked from it.
func NewServer(logger *log.Logger, seed int64, opts ...Option) (*Server, error) {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections:  make(map[*Connection]bool),
		logger:       logger.WithPrefix("server"),
		store:        NewMemoryStore(),
		clock:        quartz.NewReal(),
		rng:          randutil.NewForker(seed),
		ids:          gameid.NewGenerator(nil),
		rules:        game.DefaultConfig(),
		reapInterval: defaultReapInterval,
		cacheSize:    defaultResultsCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	archive, err := NewResultArchive(s.cacheSize)
	if err != nil {
		return nil, err
	}
	s.archive = archive
	s.stats = NewStatsMonitor()
	s.monitor = NewMultiMatchMonitor(s.archive, s.stats, NewLogMonitor(logger), s.monitor)
	return s, nil
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/results", s.handleResults)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. The idle room reaper runs alongside.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{Handler: s.Handler()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Stop()
		if err := s.SaveResults(); err != nil {
			s.logger.Error("Failed to save results", "path", s.resultsFile, "error", err)
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	if s.idleRoomTTL > 0 {
		g.Go(func() error {
			err := s.clock.TickerFunc(ctx, s.reapInterval, func() error {
				s.ReapIdleRooms()
				return nil
			}, "reaper").Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

// ListenAndServe listens on addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Stop closes every connection and room
func (s *Server) Stop() {
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	for _, room := range s.store.List() {
		s.store.Remove(room.ID())
		room.Stop()
	}
}

// SaveResults writes the archived results, newest first, to the results
// file. It does nothing when no file is configured.
func (s *Server) SaveResults() error {
	if s.resultsFile == "" {
		return nil
	}
	return fileutil.WriteJSONAtomic(s.resultsFile, s.Results(), 0o644)
}

// CreateRoom opens a room under a fresh code
func (s *Server) CreateRoom() (*Room, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		id := s.ids.Generate()
		if _, ok := s.store.Get(id); ok {
			continue
		}

		room := NewRoom(id, RoomConfig{
			Rules:       s.rules,
			Rand:        s.rng.Fork(),
			Clock:       s.clock,
			Monitor:     s.monitor,
			TurnTimeout: s.turnTimeout,
		}, s.logger)

		if err := s.store.Create(room); err != nil {
			room.Stop()
			if errors.Is(err, ErrRoomExists) {
				continue
			}
			return nil, err
		}
		s.logger.Debug("Room created", "room", id)
		return room, nil
	}
	return nil, game.NewError(game.KindCapacity, "could not allocate a room code")
}

// Room looks up a live room by code
func (s *Server) Room(id string) (*Room, bool) {
	return s.store.Get(id)
}

// Results returns finished matches, newest first
func (s *Server) Results() []MatchResult {
	return s.archive.Results()
}

// ReapIdleRooms removes rooms that have had no members for the idle TTL
func (s *Server) ReapIdleRooms() int {
	if s.idleRoomTTL <= 0 {
		return 0
	}
	now := s.clock.Now()
	reaped := 0
	for _, room := range s.store.List() {
		since, idle := room.IdleSince()
		if !idle || now.Sub(since) < s.idleRoomTTL {
			continue
		}
		if _, ok := s.store.Remove(room.ID()); ok {
			room.Stop()
			reaped++
			s.logger.Info("Reaped idle room", "room", room.ID(), "idle", now.Sub(since))
		}
	}
	return reaped
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register(client)
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister(client)
	}()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn]
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	if !ok {
		return
	}

	conn.leave()
	_ = conn.Close()
	s.logger.Info("Client disconnected", "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleResults serves the archive of finished matches as JSON
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Results()); err != nil {
		s.logger.Error("Failed to encode results", "error", err)
	}
}

// Stats returns per-player records across finished and running matches
func (s *Server) Stats() []PlayerStats {
	return s.stats.Stats()
}

// handleStats serves per-player records as JSON
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Stats()); err != nil {
		s.logger.Error("Failed to encode stats", "error", err)
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}
