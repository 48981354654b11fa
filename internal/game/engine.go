package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Engine owns one round's GameState and is its only mutator. Every action
// passes through the stateless rule checks before any component changes
// state; on success a typed event is published. The engine itself is not
// goroutine-safe: callers serialize access per game (the server runs one
// actor goroutine per session).
type Engine struct {
	state    *GameState
	logger   *log.Logger
	eventBus EventBus
	clock    quartz.Clock
}

// PlayerConfig seeds one participant.
type PlayerConfig struct {
	ID       string
	Name     string
	Handicap float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithEventBus sets the bus game events are published to.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) { e.eventBus = bus }
}

// WithClock sets the clock used for result timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// NewEngine creates an engine for a fresh round and opens hole 1.
func NewEngine(gameID string, players []PlayerConfig, course *Course, logger *log.Logger, opts ...Option) (*Engine, error) {
	if len(players) < 2 || len(players) > 6 {
		return nil, fmt.Errorf("player count %d out of range (2-6)", len(players))
	}
	if course == nil {
		course = DefaultCourse()
	}
	if err := course.Validate(); err != nil {
		return nil, fmt.Errorf("invalid course: %w", err)
	}

	state := &GameState{
		GameID:      gameID,
		Course:      course,
		CurrentHole: 1,
	}
	for _, pc := range players {
		state.Players = append(state.Players, &Player{ID: pc.ID, Name: pc.Name, Handicap: pc.Handicap})
	}

	e := &Engine{
		state:    state,
		logger:   logger.WithPrefix("engine"),
		eventBus: NewEventBus(),
		clock:    quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.openHole()
	return e, nil
}

// State returns the engine's game state. Callers must treat it as
// read-only.
func (e *Engine) State() *GameState { return e.state }

// EventBus returns the bus for subscribing to game events.
func (e *Engine) EventBus() EventBus { return e.eventBus }

// RotationInfo returns the current hole's rotation.
func (e *Engine) RotationInfo() RotationInfo { return e.state.Rotation }

// ValidActions enumerates the actions currently legal for a player.
func (e *Engine) ValidActions(playerID string) []ActionType {
	return ValidActions(e.state, playerID)
}

// Apply validates and applies a single player action. On a RuleViolation
// the state is unchanged.
func (e *Engine) Apply(action PlayerAction) error {
	g := e.state
	if g.IsComplete() {
		return ErrGameComplete
	}

	switch action.Type {
	case ActionRequestPartner:
		if v := CanRequestPartner(g, action.PlayerID, action.PartnerID); v != nil {
			return v
		}
		g.applyRequestPartner(action.PartnerID)

	case ActionAcceptPartner:
		if v := CanRespondToPartnerRequest(g, action.PlayerID); v != nil {
			return v
		}
		g.applyAcceptPartner()
		e.publishTeamsFormed()

	case ActionDeclinePartner:
		if v := CanRespondToPartnerRequest(g, action.PlayerID); v != nil {
			return v
		}
		g.applyDeclinePartner()
		e.publishTeamsFormed()

	case ActionGoSolo:
		if v := CanGoSolo(g, action.PlayerID); v != nil {
			return v
		}
		g.applyGoSolo()
		e.publishTeamsFormed()

	case ActionInvokeDuncan:
		if v := CanInvokeDuncan(g, action.PlayerID); v != nil {
			return v
		}
		g.applyDuncan()
		e.publishTeamsFormed()

	case ActionInvokeTunkarri:
		if v := CanInvokeTunkarri(g, action.PlayerID); v != nil {
			return v
		}
		g.applyTunkarri()
		e.publishTeamsFormed()

	case ActionInvokeFloat:
		if v := CanInvokeFloat(g, action.PlayerID); v != nil {
			return v
		}
		g.applyInvokeFloat(action.PlayerID)
		e.publishWagerChanged()

	case ActionOfferDouble:
		if v := CanDouble(g, action.PlayerID); v != nil {
			return v
		}
		g.applyDouble()
		e.publishWagerChanged()

	case ActionOfferRedouble:
		if v := CanRedouble(g, action.PlayerID); v != nil {
			return v
		}
		g.applyRedouble()
		e.publishWagerChanged()

	case ActionRequestAardvarkTeam:
		if v := CanRequestAardvarkTeam(g, action.PlayerID, action.Team); v != nil {
			return v
		}
		g.applyAardvarkRequest(action.Team)

	case ActionAcceptAardvark:
		if v := CanRespondToAardvark(g, action.PlayerID); v != nil {
			return v
		}
		g.applyAardvarkAccept()
		e.publishTeamsFormed()

	case ActionTossAardvark:
		if v := CanRespondToAardvark(g, action.PlayerID); v != nil {
			return v
		}
		g.applyAardvarkToss()
		e.publishWagerChanged()
		if g.Teams.Aardvark.Phase == AardvarkJoined {
			e.publishTeamsFormed()
		}

	case ActionDeclareBigDick:
		if v := CanDeclareBigDick(g, action.PlayerID); v != nil {
			return v
		}
		g.applyBigDick(action.PlayerID)
		e.publishTeamsFormed()

	case ActionSelectRotation:
		if v := CanSelectRotation(g, action.PlayerID, action.Position); v != nil {
			return v
		}
		g.Rotation = SelectGoatPosition(g.Rotation, action.PlayerID, action.Position)
		g.RotationSelected = true
		// The aardvark label follows the hitting order.
		if g.PlayerCount() == 5 {
			g.Teams.Aardvark.PlayerID = g.AardvarkID()
		}
		// The selection can hand the captaincy to the goat, or take it
		// away, so the Option is re-checked against the new captain.
		if g.refreshOption() {
			e.publishWagerChanged()
		}
		e.logger.Debug("goat selected rotation",
			"game", g.GameID, "hole", g.CurrentHole, "position", action.Position)

	case ActionRecordTeeShot:
		if v := ValidatePlayerTurn(g, action.PlayerID, nil); v != nil {
			return v
		}
		if g.TeeShotsComplete >= g.PlayerCount() {
			return violation(ViolationWrongState, "all tee shots have been recorded")
		}
		g.TeeShotsComplete++
		e.enforcePartnershipDeadline()

	case ActionHoleOut:
		if g.Player(action.PlayerID) == nil {
			return violation(ViolationUnknownPlayer, "player %s is not in this game", action.PlayerID)
		}
		if g.WageringClosed {
			return violation(ViolationDuplicate, "wagering is already closed")
		}
		g.WageringClosed = true

	default:
		return violation(ViolationUnknownAction, "unknown action %q", action.Type)
	}

	e.eventBus.Publish(ActionAppliedEvent{GameID: g.GameID, Action: action, timestamp: e.clock.Now()})
	return nil
}

// CompleteHole converts a full score feed into an immutable HoleResult,
// applies the deltas, and opens the next hole. Duplicate completion of the
// same hole is rejected before any delta is reapplied, so retried
// persistence writes are safe.
func (e *Engine) CompleteHole(rawScores map[string]int) (*HoleResult, error) {
	g := e.state
	if g.IsComplete() {
		return nil, ErrGameComplete
	}
	if g.HoleCompleted(g.CurrentHole) {
		return nil, ErrHoleAlreadyComplete
	}

	// A captain who never settled on a partnership plays the hole as the
	// pig: solo against the field at the standard multiplier.
	if g.Teams.State != Formed {
		e.logger.Warn("partnership unresolved at completion, captain plays solo",
			"game", g.GameID, "hole", g.CurrentHole, "captain", g.Rotation.CaptainID)
		g.Teams.RequestedPartner = ""
		g.formSolo(g.Rotation.CaptainID)
		e.publishTeamsFormed()
	}

	// A 5-player hole can stall the same way with the aardvark unassigned;
	// they are swept onto a team so nobody settles as a spectator.
	if g.AardvarkUnresolved() {
		e.logger.Warn("aardvark unresolved at completion, forced onto a team",
			"game", g.GameID, "hole", g.CurrentHole,
			"aardvark", g.Teams.Aardvark.PlayerID, "team", g.PreferredAardvarkTeam())
		g.resolveAardvark()
		e.publishTeamsFormed()
	}
	g.WageringClosed = true

	result, err := ComputeHoleResult(g, rawScores, e.clock.Now())
	if err != nil {
		if zs, ok := err.(*ZeroSumViolationError); ok {
			// Internal defect: no player action can cause or repair it.
			e.logger.Error("zero-sum violation", "game", g.GameID, "hole", zs.HoleNumber, "sum", zs.Sum)
		}
		return nil, err
	}

	if result.Winner == "" {
		g.CarryOver = result.FinalWager
	}
	for id, delta := range result.PointsDelta {
		g.Player(id).Points += delta
	}
	g.History = append(g.History, result)

	e.logger.Info("hole complete",
		"game", g.GameID, "hole", result.HoleNumber,
		"winner", describeWinner(result), "wager", result.FinalWager)
	e.eventBus.Publish(HoleCompleteEvent{GameID: g.GameID, Result: result, timestamp: e.clock.Now()})

	if g.IsComplete() {
		e.eventBus.Publish(GameCompleteEvent{GameID: g.GameID, Standings: g.Standings(), timestamp: e.clock.Now()})
		return result, nil
	}

	g.CurrentHole++
	e.openHole()
	return result, nil
}

// openHole resets per-hole state, computes the rotation, and opens the
// wager ledger.
func (e *Engine) openHole() {
	g := e.state

	g.Teams = TeamState{}
	g.TeeShotsComplete = 0
	g.WageringClosed = false
	g.RotationSelected = false

	g.Rotation = ComputeRotation(g.CurrentHole, g.PlayerIDs())
	if g.Rotation.IsHoepfinger {
		g.Phase = PhaseHoepfinger
	} else {
		g.Phase = PhaseNormal
	}
	if g.PlayerCount() == 5 {
		g.Teams.Aardvark = AardvarkState{PlayerID: g.AardvarkID()}
	}

	g.openWager()

	e.logger.Debug("hole open",
		"game", g.GameID, "hole", g.CurrentHole, "phase", g.Phase,
		"captain", g.Rotation.CaptainID, "base", g.Wager.BaseWager)
	e.eventBus.Publish(HoleStartEvent{
		GameID:    g.GameID,
		Rotation:  g.Rotation,
		BaseWager: g.Wager.BaseWager,
		timestamp: e.clock.Now(),
	})
}

// enforcePartnershipDeadline forces the captain solo if the final tee shot
// lands with no partnership settled.
func (e *Engine) enforcePartnershipDeadline() {
	g := e.state
	if g.TeeShotsComplete < g.PlayerCount() || g.Teams.State == Formed {
		return
	}
	e.logger.Warn("partnership deadline passed, captain plays solo",
		"game", g.GameID, "hole", g.CurrentHole, "captain", g.Rotation.CaptainID)
	g.Teams.RequestedPartner = ""
	g.formSolo(g.Rotation.CaptainID)
	e.publishTeamsFormed()
}

func (e *Engine) publishTeamsFormed() {
	e.eventBus.Publish(TeamsFormedEvent{
		GameID:    e.state.GameID,
		Teams:     e.state.Teams.Clone(),
		timestamp: e.clock.Now(),
	})
}

func (e *Engine) publishWagerChanged() {
	e.eventBus.Publish(WagerChangedEvent{
		GameID:    e.state.GameID,
		Wager:     e.state.Wager,
		Current:   e.state.Wager.CurrentWager(),
		timestamp: e.clock.Now(),
	})
}
