package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/wolfgoatpig/internal/auth"
	"github.com/lox/wolfgoatpig/internal/protocol"
)

// Server is the WebSocket front door: it upgrades connections, tracks which
// game each connection watches, and fans session broadcasts out to them.
type Server struct {
	addr      string
	upgrader  websocket.Upgrader
	logger    *log.Logger
	manager   *SessionManager
	validator auth.Validator
	failOpen  bool

	ctx    context.Context
	cancel context.CancelFunc
	http   *http.Server

	mu          sync.RWMutex
	connections map[*Connection]struct{}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAuthValidator sets the token validator applied to auth messages.
func WithAuthValidator(validator auth.Validator) ServerOption {
	return func(s *Server) { s.validator = validator }
}

// WithAuthFailOpen allows connections through when the auth service is
// unreachable. Invalid tokens are still rejected.
func WithAuthFailOpen(failOpen bool) ServerOption {
	return func(s *Server) { s.failOpen = failOpen }
}

// NewServer wires the listener to a session manager. The server accepts any
// origin: clients are terminal programs, not browsers.
func NewServer(addr string, logger *log.Logger, manager *SessionManager, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		manager:     manager,
		validator:   auth.NewNoopValidator(),
		ctx:         ctx,
		cancel:      cancel,
		connections: make(map[*Connection]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens for WebSocket connections until Stop is called. It blocks.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.http = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.http.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes every client connection and shuts the listener down.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.connections = make(map[*Connection]struct{})
	s.mu.Unlock()

	s.manager.StopAll()

	if s.http != nil {
		return s.http.Shutdown(context.Background())
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s.manager, s.validator, s.failOpen)
	s.track(conn)
	conn.Start()

	go func() {
		<-conn.ctx.Done()
		s.untrack(conn)
	}()
}

func (s *Server) track(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) untrack(conn *Connection) {
	s.mu.Lock()
	if _, ok := s.connections[conn]; ok {
		delete(s.connections, conn)
		_ = conn.Close()
	}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// BroadcastToGame sends a message to all connections watching a game.
func (s *Server) BroadcastToGame(gameID string, msg *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetGame() != gameID {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err, "player", conn.GetPlayer())
			continue
		}
		count++
	}

	s.logger.Debug("Broadcasted message to game", "game", gameID, "type", msg.Type, "recipients", count)
}

// SendToPlayer sends a message to a specific player's connection.
func (s *Server) SendToPlayer(playerID string, msg *protocol.Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() == playerID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("player not found: %s", playerID)
}

// GetGameWatchers returns the player IDs connected to a specific game.
func (s *Server) GetGameWatchers(gameID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []string
	for conn := range s.connections {
		if conn.GetGame() == gameID && conn.GetPlayer() != "" {
			players = append(players, conn.GetPlayer())
		}
	}

	return players
}
