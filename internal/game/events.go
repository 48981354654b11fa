package game

import "time"

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHoleStart     EventType = "hole_start"
	EventTypeActionApplied EventType = "action_applied"
	EventTypeTeamsFormed   EventType = "teams_formed"
	EventTypeWagerChanged  EventType = "wager_changed"
	EventTypeHoleComplete  EventType = "hole_complete"
	EventTypeGameComplete  EventType = "game_complete"
)

func (et EventType) String() string { return string(et) }

// GameEvent represents any event that occurs during a round.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HoleStartEvent is published when a new hole opens.
type HoleStartEvent struct {
	GameID    string
	Rotation  RotationInfo
	BaseWager int
	timestamp time.Time
}

func (e HoleStartEvent) EventType() EventType { return EventTypeHoleStart }
func (e HoleStartEvent) Timestamp() time.Time { return e.timestamp }

// ActionAppliedEvent is published after a validated action mutates state.
type ActionAppliedEvent struct {
	GameID    string
	Action    PlayerAction
	timestamp time.Time
}

func (e ActionAppliedEvent) EventType() EventType { return EventTypeActionApplied }
func (e ActionAppliedEvent) Timestamp() time.Time { return e.timestamp }

// TeamsFormedEvent is published when the formation state machine reaches
// Formed.
type TeamsFormedEvent struct {
	GameID    string
	Teams     TeamState
	timestamp time.Time
}

func (e TeamsFormedEvent) EventType() EventType { return EventTypeTeamsFormed }
func (e TeamsFormedEvent) Timestamp() time.Time { return e.timestamp }

// WagerChangedEvent is published whenever the composed wager grows.
type WagerChangedEvent struct {
	GameID    string
	Wager     WagerState
	Current   int
	timestamp time.Time
}

func (e WagerChangedEvent) EventType() EventType { return EventTypeWagerChanged }
func (e WagerChangedEvent) Timestamp() time.Time { return e.timestamp }

// HoleCompleteEvent carries the immutable result appended to history.
type HoleCompleteEvent struct {
	GameID    string
	Result    *HoleResult
	timestamp time.Time
}

func (e HoleCompleteEvent) EventType() EventType { return EventTypeHoleComplete }
func (e HoleCompleteEvent) Timestamp() time.Time { return e.timestamp }

// GameCompleteEvent is published after the 18th hole result.
type GameCompleteEvent struct {
	GameID    string
	Standings Standings
	timestamp time.Time
}

func (e GameCompleteEvent) EventType() EventType { return EventTypeGameComplete }
func (e GameCompleteEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives published game events.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus decouples the engine from the server and UI layers.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-process event bus.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
