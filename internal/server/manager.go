package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/protocol"
	"github.com/lox/wolfgoatpig/internal/repositories/round"
)

// SessionManager tracks live game sessions keyed by game ID.
type SessionManager struct {
	logger *log.Logger
	config GameSettings
	repo   round.Repository // nil when persistence is disabled
	clock  quartz.Clock
	caster broadcaster

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager constructs an empty session manager.
func NewSessionManager(logger *log.Logger, config GameSettings, repo round.Repository, clock quartz.Clock) *SessionManager {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &SessionManager{
		logger:   logger.WithPrefix("manager"),
		config:   config,
		repo:     repo,
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

// SetBroadcaster wires the manager to the server after both exist.
func (m *SessionManager) SetBroadcaster(caster broadcaster) {
	m.caster = caster
}

// CreateSession starts a new game with a generated ID.
func (m *SessionManager) CreateSession(players []game.PlayerConfig) (*Session, error) {
	if len(players) < m.config.MinPlayers || len(players) > m.config.MaxPlayers {
		return nil, fmt.Errorf("player count %d out of range (%d-%d)",
			len(players), m.config.MinPlayers, m.config.MaxPlayers)
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("player ID cannot be empty")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate player ID %s", p.ID)
		}
		seen[p.ID] = true
	}

	id := uuid.New().String()
	session, err := NewSession(id, players, game.DefaultCourse(), m.logger, m.caster,
		WithRepository(m.repo),
		WithSessionClock(m.clock),
		WithPartnerTimeout(time.Duration(m.config.PartnerTimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	m.logger.Info("game created", "game", id, "players", len(players))
	return session, nil
}

// GetSession retrieves a session by game ID.
func (m *SessionManager) GetSession(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// ListSessions returns a snapshot of live games.
func (m *SessionManager) ListSessions() []protocol.GameSummary {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	summaries := make([]protocol.GameSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summary())
	}
	return summaries
}

// DeleteSession stops and removes a session by ID.
func (m *SessionManager) DeleteSession(id string) bool {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		session.Stop()
	}
	return ok
}

// StopAll stops every live session.
func (m *SessionManager) StopAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
