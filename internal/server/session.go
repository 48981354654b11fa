package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/protocol"
	"github.com/lox/wolfgoatpig/internal/repositories/round"
)

// broadcaster lets a session publish frames to everyone watching its game.
type broadcaster interface {
	BroadcastToGame(gameID string, msg *protocol.Message)
}

// Session owns one live game. All engine access is funneled through a
// command channel so actions from concurrent connections are serialized, and
// a quartz timer bounds how long a partnership may stay unresolved.
type Session struct {
	id     string
	engine *game.Engine
	logger *log.Logger
	clock  quartz.Clock
	caster broadcaster
	repo   round.Repository // nil when persistence is disabled

	commands chan func()
	done     chan struct{}

	partnerTimeout time.Duration
	partnerTimer   *quartz.Timer

	// gross scores for the current hole, accumulated until complete
	pendingScores map[string]int
	pendingHole   int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRepository enables hole-result persistence.
func WithRepository(repo round.Repository) SessionOption {
	return func(s *Session) { s.repo = repo }
}

// WithSessionClock sets the clock used for the partnership timer.
func WithSessionClock(clock quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithPartnerTimeout bounds partnership resolution; 0 disables the timer.
func WithPartnerTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.partnerTimeout = d }
}

// NewSession creates a session, opens hole 1 and starts the actor loop.
func NewSession(id string, players []game.PlayerConfig, course *game.Course, logger *log.Logger, caster broadcaster, opts ...SessionOption) (*Session, error) {
	s := &Session{
		id:            id,
		logger:        logger.WithPrefix("session").With("game", id),
		clock:         quartz.NewReal(),
		caster:        caster,
		commands:      make(chan func(), 32),
		done:          make(chan struct{}),
		pendingScores: make(map[string]int),
		pendingHole:   1,
	}
	for _, opt := range opts {
		opt(s)
	}

	bus := game.NewEventBus()
	bus.Subscribe(s)

	engine, err := game.NewEngine(id, players, course, logger, game.WithEventBus(bus), game.WithClock(s.clock))
	if err != nil {
		return nil, err
	}
	s.engine = engine

	if s.repo != nil {
		record := &round.GameRecord{ID: id, Players: players}
		if err := s.repo.CreateGameRecord(context.Background(), &round.CreateGameRecordInput{Record: record}); err != nil {
			s.logger.Error("failed to persist game record", "error", err)
		}
	}

	s.armPartnerTimer()
	go s.run()
	return s, nil
}

// ID returns the session's game ID.
func (s *Session) ID() string { return s.id }

// run is the actor loop: every engine access executes here.
func (s *Session) run() {
	for {
		select {
		case cmd := <-s.commands:
			cmd()
		case <-s.done:
			return
		}
	}
}

// Stop shuts the actor loop down.
func (s *Session) Stop() {
	if s.partnerTimer != nil {
		s.partnerTimer.Stop()
	}
	close(s.done)
}

// call runs fn on the actor goroutine and waits for it.
func (s *Session) call(fn func()) {
	ran := make(chan struct{})
	select {
	case s.commands <- func() { fn(); close(ran) }:
	case <-s.done:
		return
	}
	select {
	case <-ran:
	case <-s.done:
	}
}

// Apply validates and applies one action, broadcasting the resulting state.
func (s *Session) Apply(playerID string, data protocol.ActionData) error {
	var err error
	s.call(func() {
		action := game.PlayerAction{
			PlayerID:  playerID,
			Type:      game.ActionType(data.Action),
			PartnerID: data.PartnerID,
			Team:      data.Team,
			Position:  data.Position,
		}
		err = s.engine.Apply(action)
		if err == nil {
			s.broadcastState()
		}
	})
	return err
}

// SubmitScores merges a gross-score report for the current hole. The hole
// settles once every player has a score.
func (s *Session) SubmitScores(hole int, scores map[string]int) error {
	var err error
	s.call(func() {
		g := s.engine.State()
		if hole != g.CurrentHole {
			err = game.NewRuleViolation(game.ViolationOutOfWindow,
				"scores are for hole %d but hole %d is open", hole, g.CurrentHole)
			return
		}
		if s.pendingHole != g.CurrentHole {
			s.pendingScores = make(map[string]int)
			s.pendingHole = g.CurrentHole
		}
		for id, score := range scores {
			if g.Player(id) == nil {
				err = game.NewRuleViolation(game.ViolationUnknownPlayer, "player %s is not in this game", id)
				return
			}
			s.pendingScores[id] = score
		}
		if len(s.pendingScores) < g.PlayerCount() {
			return
		}

		completed := s.pendingScores
		s.pendingScores = make(map[string]int)
		if _, cerr := s.engine.CompleteHole(completed); cerr != nil {
			err = cerr
			return
		}
		s.pendingHole = s.engine.State().CurrentHole
		s.armPartnerTimer()
		s.broadcastState()
	})
	return err
}

// State snapshots the game for one viewer.
func (s *Session) State(viewerID string) protocol.GameStateData {
	var data protocol.GameStateData
	s.call(func() {
		data = gameStateFromGame(s.engine.State(), viewerID)
	})
	return data
}

// Summary returns lightweight metadata for game listings.
func (s *Session) Summary() protocol.GameSummary {
	var summary protocol.GameSummary
	s.call(func() {
		g := s.engine.State()
		summary = protocol.GameSummary{
			ID:          s.id,
			PlayerCount: g.PlayerCount(),
			CurrentHole: g.CurrentHole,
			Phase:       g.Phase.String(),
			Complete:    g.IsComplete(),
		}
	})
	return summary
}

// HasPlayer reports whether the given player is part of this game.
func (s *Session) HasPlayer(playerID string) bool {
	var ok bool
	s.call(func() {
		ok = s.engine.State().Player(playerID) != nil
	})
	return ok
}

// armPartnerTimer (re)starts the partnership countdown for the open hole.
// Runs on the actor goroutine.
func (s *Session) armPartnerTimer() {
	if s.partnerTimeout <= 0 {
		return
	}
	if s.partnerTimer != nil {
		s.partnerTimer.Stop()
	}
	if s.engine != nil && s.engine.State().IsComplete() {
		return
	}
	s.partnerTimer = s.clock.AfterFunc(s.partnerTimeout, func() {
		select {
		case s.commands <- s.forcePartnership:
		case <-s.done:
		}
	})
}

// forcePartnership resolves a stalled hole: a pending request is declined on
// the partner's behalf, an undecided captain is sent solo. Runs on the actor
// goroutine.
func (s *Session) forcePartnership() {
	g := s.engine.State()
	if g.IsComplete() {
		return
	}

	var err error
	switch {
	case g.Teams.State == game.PendingPartner:
		s.logger.Warn("partnership timed out", "hole", g.CurrentHole, "captain", g.Rotation.CaptainID)
		err = s.engine.Apply(game.PlayerAction{
			PlayerID: g.Teams.RequestedPartner,
			Type:     game.ActionDeclinePartner,
		})
	case g.Teams.State != game.Formed:
		s.logger.Warn("partnership timed out", "hole", g.CurrentHole, "captain", g.Rotation.CaptainID)
		err = s.engine.Apply(game.PlayerAction{
			PlayerID: g.Rotation.CaptainID,
			Type:     game.ActionGoSolo,
		})
	case g.AardvarkUnresolved():
		s.logger.Warn("aardvark timed out", "hole", g.CurrentHole, "aardvark", g.Teams.Aardvark.PlayerID)
		err = s.forceAardvark(g)
	default:
		return
	}
	if err != nil {
		s.logger.Error("failed to force partnership resolution", "error", err)
		return
	}
	s.broadcastState()
}

// forceAardvark settles aardvark limbo through the normal actions: request
// the preferred team on the aardvark's behalf when no request is pending,
// then accept on that team's behalf. Runs on the actor goroutine.
func (s *Session) forceAardvark(g *game.GameState) error {
	if g.Teams.Aardvark.Phase == game.AardvarkIdle {
		if err := s.engine.Apply(game.PlayerAction{
			PlayerID: g.Teams.Aardvark.PlayerID,
			Type:     game.ActionRequestAardvarkTeam,
			Team:     g.PreferredAardvarkTeam(),
		}); err != nil {
			return err
		}
	}
	team := g.Teams.Team1
	if g.Teams.Aardvark.RequestedTeam == 2 {
		team = g.Teams.Team2
	}
	return s.engine.Apply(game.PlayerAction{PlayerID: team[0], Type: game.ActionAcceptAardvark})
}

// broadcastState pushes a full snapshot to every watcher. Runs on the actor
// goroutine.
func (s *Session) broadcastState() {
	msg, err := protocol.NewMessage(protocol.MessageTypeGameState, gameStateFromGame(s.engine.State(), ""))
	if err != nil {
		s.logger.Error("failed to build state message", "error", err)
		return
	}
	s.caster.BroadcastToGame(s.id, msg)
}

// OnEvent translates engine events into wire frames and persists settled
// holes. Events are published synchronously from the actor goroutine.
func (s *Session) OnEvent(event game.GameEvent) {
	// Hole 1 opens inside the engine constructor, before s.engine is set.
	if s.engine == nil {
		return
	}
	switch ev := event.(type) {
	case game.HoleStartEvent:
		g := s.engine.State()
		s.broadcast(protocol.MessageTypeHoleStart, protocol.HoleStartData{
			GameID:   s.id,
			Hole:     ev.Rotation.HoleNumber,
			Par:      s.holePar(ev.Rotation.HoleNumber),
			Phase:    g.Phase.String(),
			Rotation: rotationViewFromGame(ev.Rotation),
			Wager:    wagerViewFromGame(g),
		})

	case game.TeamsFormedEvent:
		s.broadcast(protocol.MessageTypeTeamsFormed, protocol.TeamsFormedData{
			GameID: s.id,
			Hole:   s.engine.State().CurrentHole,
			Teams:  teamsViewFromGame(ev.Teams),
		})

	case game.WagerChangedEvent:
		s.broadcast(protocol.MessageTypeWagerChanged, protocol.WagerChangedData{
			GameID: s.id,
			Hole:   s.engine.State().CurrentHole,
			Wager:  wagerViewFromGame(s.engine.State()),
		})

	case game.HoleCompleteEvent:
		if s.repo != nil {
			err := s.repo.SaveHoleResult(context.Background(), &round.SaveHoleResultInput{
				GameID: s.id,
				Result: ev.Result,
			})
			if err != nil {
				s.logger.Error("failed to persist hole result", "hole", ev.Result.HoleNumber, "error", err)
			}
		}
		s.broadcast(protocol.MessageTypeHoleComplete, holeCompleteFromResult(s.engine.State(), ev.Result))

	case game.GameCompleteEvent:
		if s.repo != nil {
			err := s.repo.MarkGameComplete(context.Background(), &round.MarkGameCompleteInput{GameID: s.id})
			if err != nil {
				s.logger.Error("failed to mark game complete", "error", err)
			}
		}
		if s.partnerTimer != nil {
			s.partnerTimer.Stop()
		}
		g := s.engine.State()
		s.broadcast(protocol.MessageTypeGameComplete, protocol.GameCompleteData{
			GameID:    s.id,
			Standings: ev.Standings,
			GoatID:    g.GoatID(),
		})
	}
}

func (s *Session) broadcast(messageType protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("failed to build message", "type", messageType, "error", err)
		return
	}
	s.caster.BroadcastToGame(s.id, msg)
}

func (s *Session) holePar(hole int) int {
	h, err := s.engine.State().Course.Hole(hole)
	if err != nil {
		return 0
	}
	return h.Par
}
