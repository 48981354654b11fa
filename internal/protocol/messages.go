// Package protocol defines the WebSocket wire format shared by the server,
// the terminal client and the simulator. Every frame is a Message envelope
// with a typed JSON payload.
package protocol

import (
	"encoding/json"
	"time"
)

// MessageType identifies a WebSocket message with type safety.
type MessageType string

const (
	// Client to server messages
	MessageTypeAuth       MessageType = "auth"
	MessageTypeCreateGame MessageType = "create_game"
	MessageTypeJoinGame   MessageType = "join_game"
	MessageTypeLeaveGame  MessageType = "leave_game"
	MessageTypeListGames  MessageType = "list_games"
	MessageTypeAction     MessageType = "action"
	MessageTypeScores     MessageType = "scores"

	// Server to client messages
	MessageTypeAuthResponse   MessageType = "auth_response"
	MessageTypeGameCreated    MessageType = "game_created"
	MessageTypeGameJoined     MessageType = "game_joined"
	MessageTypeGameLeft       MessageType = "game_left"
	MessageTypeGameList       MessageType = "game_list"
	MessageTypeGameState      MessageType = "game_state"
	MessageTypeActionRejected MessageType = "action_rejected"
	MessageTypeHoleStart      MessageType = "hole_start"
	MessageTypeTeamsFormed    MessageType = "teams_formed"
	MessageTypeWagerChanged   MessageType = "wager_changed"
	MessageTypeHoleComplete   MessageType = "hole_complete"
	MessageTypeGameComplete   MessageType = "game_complete"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the base WebSocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
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

// Client → Server payloads

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

// PlayerSpec describes one participant when creating a game.
type PlayerSpec struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap,omitempty"`
}

type CreateGameData struct {
	Players []PlayerSpec `json:"players"`
}

type JoinGameData struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type LeaveGameData struct {
	GameID string `json:"gameId"`
}

// ActionData carries a single rules action. Action strings match the engine's
// action vocabulary (request_partner, go_solo, offer_double, ...).
type ActionData struct {
	GameID    string `json:"gameId"`
	Action    string `json:"action"`
	PartnerID string `json:"partnerId,omitempty"`
	Team      int    `json:"team,omitempty"`
	Position  int    `json:"position,omitempty"`
}

// ScoresData reports gross strokes for the current hole. The hole is settled
// once every player has a score.
type ScoresData struct {
	GameID string         `json:"gameId"`
	Hole   int            `json:"hole"`
	Scores map[string]int `json:"scores"`
}

// Server → Client payloads

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ActionRejectedData explains a rules violation and tells the client what it
// could legally do instead.
type ActionRejectedData struct {
	GameID       string            `json:"gameId"`
	Action       string            `json:"action"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	Field        string            `json:"field,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ValidActions []string          `json:"validActions"`
}

type GameCreatedData struct {
	GameID  string       `json:"gameId"`
	Players []PlayerSpec `json:"players"`
}

type GameSummary struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	CurrentHole int    `json:"currentHole"`
	Phase       string `json:"phase"`
	Complete    bool   `json:"complete"`
}

type GameListData struct {
	Games []GameSummary `json:"games"`
}

type GameJoinedData struct {
	GameID string        `json:"gameId"`
	State  GameStateData `json:"state"`
}

// PlayerView is a player as seen over the wire. Points are in quarters.
type PlayerView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap,omitempty"`
	Points   float64 `json:"points"`
	Role     string  `json:"role,omitempty"`
}

type RotationView struct {
	CaptainID     string   `json:"captainId"`
	RotationOrder []string `json:"rotationOrder"`
	IsHoepfinger  bool     `json:"isHoepfinger"`
}

type TeamsView struct {
	State            string   `json:"state"`
	Mode             string   `json:"mode,omitempty"`
	Team1            []string `json:"team1,omitempty"`
	Team2            []string `json:"team2,omitempty"`
	SoloPlayer       string   `json:"soloPlayer,omitempty"`
	Opponents        []string `json:"opponents,omitempty"`
	RequestedPartner string   `json:"requestedPartner,omitempty"`
}

type WagerView struct {
	BaseWager    int  `json:"baseWager"`
	CurrentWager int  `json:"currentWager"`
	Doubled      bool `json:"doubled"`
	Redoubled    bool `json:"redoubled"`
	OptionActive bool `json:"optionActive"`
	DoublePoints bool `json:"doublePoints"`
	CarryOver    int  `json:"carryOver"`
}

// GameStateData is a full snapshot: sent on join and after every transition
// so clients never need to reconstruct state from deltas.
type GameStateData struct {
	GameID       string       `json:"gameId"`
	CurrentHole  int          `json:"currentHole"`
	Par          int          `json:"par"`
	StrokeIndex  int          `json:"strokeIndex"`
	Phase        string       `json:"phase"`
	Players      []PlayerView `json:"players"`
	Rotation     RotationView `json:"rotation"`
	Teams        TeamsView    `json:"teams"`
	Wager        WagerView    `json:"wager"`
	Complete     bool         `json:"complete"`
	ValidActions []string     `json:"validActions,omitempty"`
}

type HoleStartData struct {
	GameID   string       `json:"gameId"`
	Hole     int          `json:"hole"`
	Par      int          `json:"par"`
	Phase    string       `json:"phase"`
	Rotation RotationView `json:"rotation"`
	Wager    WagerView    `json:"wager"`
}

type TeamsFormedData struct {
	GameID string    `json:"gameId"`
	Hole   int       `json:"hole"`
	Teams  TeamsView `json:"teams"`
}

type WagerChangedData struct {
	GameID string    `json:"gameId"`
	Hole   int       `json:"hole"`
	Wager  WagerView `json:"wager"`
}

type HoleCompleteData struct {
	GameID      string             `json:"gameId"`
	Hole        int                `json:"hole"`
	Winner      string             `json:"winner,omitempty"`
	Push        bool               `json:"push"`
	FinalWager  int                `json:"finalWager"`
	CarriedOver int                `json:"carriedOver"`
	NetScores   map[string]float64 `json:"netScores"`
	PointsDelta map[string]float64 `json:"pointsDelta"`
	Standings   map[string]float64 `json:"standings"`
}

type GameCompleteData struct {
	GameID    string             `json:"gameId"`
	Standings map[string]float64 `json:"standings"`
	GoatID    string             `json:"goatId"`
}
