package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/wolfgoatpig/internal/auth"
	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/protocol"
)

// Connection wraps one client socket. Reads and writes each run on their
// own goroutine; the send channel serializes outbound frames.
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	playerID  string
	gameID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	manager   *SessionManager
	validator auth.Validator
	failOpen  bool
}

// NewConnection wraps an upgraded socket. A nil validator means open play.
func NewConnection(conn *websocket.Conn, logger *log.Logger, manager *SessionManager, validator auth.Validator, failOpen bool) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	if validator == nil {
		validator = auth.NewNoopValidator()
	}
	return &Connection{
		conn:      conn,
		send:      make(chan *protocol.Message, 256),
		logger:    logger.WithPrefix("conn"),
		ctx:       ctx,
		cancel:    cancel,
		manager:   manager,
		validator: validator,
		failOpen:  failOpen,
	}
}

// Start launches the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down once, no matter how many paths reach it.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a frame for the write pump. A client that stops
// draining its buffer gets disconnected rather than blocking a broadcast.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
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

func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// writeWait bounds a single outbound write.
	writeWait = 10 * time.Second

	// pongWait is how long the peer may go silent before we give up on it.
	pongWait = 60 * time.Second

	// pingPeriod must stay under pongWait so pings arrive in time.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames. Game messages are tiny.
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump consumes inbound frames until the socket dies or Close runs.
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

		var msg protocol.Message
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

// writePump drains the send channel and keeps the connection alive with
// periodic pings.
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

// handleMessage dispatches one inbound frame to its handler.
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case protocol.MessageTypeAuth:
		var data protocol.AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case protocol.MessageTypeCreateGame:
		var data protocol.CreateGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create game data")
			return
		}
		c.handleCreateGame(data)

	case protocol.MessageTypeJoinGame:
		var data protocol.JoinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join game data")
			return
		}
		c.handleJoinGame(data)

	case protocol.MessageTypeLeaveGame:
		c.handleLeaveGame()

	case protocol.MessageTypeListGames:
		c.handleListGames()

	case protocol.MessageTypeAction:
		var data protocol.ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(data)

	case protocol.MessageTypeScores:
		var data protocol.ScoresData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse scores data")
			return
		}
		c.handleScores(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleAuth(data protocol.AuthData) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	playerID := data.PlayerName

	identity, err := c.validator.Validate(c.ctx, data.Token)
	switch {
	case err == nil:
		// An external identity overrides the self-declared name.
		if identity != nil && identity.PlayerID != "" {
			playerID = identity.PlayerID
		}
	case errors.Is(err, auth.ErrUnavailable) && c.failOpen:
		c.logger.Warn("Auth service unavailable, allowing connection", "error", err)
	default:
		c.logger.Warn("Auth rejected", "playerName", data.PlayerName, "error", err)
		response, _ := protocol.NewMessage(protocol.MessageTypeAuthResponse, protocol.AuthResponseData{
			Success: false,
			Error:   "authentication failed",
		})
		_ = c.SendMessage(response)
		return
	}

	if playerID == "" {
		c.sendError("invalid_auth", "Player name required")
		return
	}

	c.SetPlayer(playerID)

	response, _ := protocol.NewMessage(protocol.MessageTypeAuthResponse, protocol.AuthResponseData{
		Success:  true,
		PlayerID: playerID,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleCreateGame(data protocol.CreateGameData) {
	if c.GetPlayer() == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	players := make([]game.PlayerConfig, 0, len(data.Players))
	for _, spec := range data.Players {
		players = append(players, game.PlayerConfig{
			ID:       spec.ID,
			Name:     spec.Name,
			Handicap: spec.Handicap,
		})
	}

	session, err := c.manager.CreateSession(players)
	if err != nil {
		c.sendError("create_failed", err.Error())
		return
	}

	response, _ := protocol.NewMessage(protocol.MessageTypeGameCreated, protocol.GameCreatedData{
		GameID:  session.ID(),
		Players: data.Players,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinGame(data protocol.JoinGameData) {
	playerName := c.GetPlayer()
	if playerName == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	session, ok := c.manager.GetSession(data.GameID)
	if !ok {
		c.sendError("game_not_found", "Game not found: "+data.GameID)
		return
	}

	playerID := data.PlayerID
	if playerID == "" {
		playerID = playerName
	}
	if !session.HasPlayer(playerID) {
		c.sendError("join_failed", "Player "+playerID+" is not part of this game")
		return
	}

	c.SetPlayer(playerID)
	c.SetGame(data.GameID)

	response, _ := protocol.NewMessage(protocol.MessageTypeGameJoined, protocol.GameJoinedData{
		GameID: data.GameID,
		State:  session.State(playerID),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleLeaveGame() {
	gameID := c.GetGame()
	c.SetGame("")

	response, _ := protocol.NewMessage(protocol.MessageTypeGameLeft, map[string]string{"gameId": gameID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleListGames() {
	response, _ := protocol.NewMessage(protocol.MessageTypeGameList, protocol.GameListData{
		Games: c.manager.ListSessions(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleAction(data protocol.ActionData) {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.GetGame()
	}
	session, ok := c.manager.GetSession(gameID)
	if !ok {
		c.sendError("game_not_found", "Game not found: "+gameID)
		return
	}

	if err := session.Apply(playerID, data); err != nil {
		c.sendActionRejected(session, playerID, data.Action, err)
		return
	}
}

func (c *Connection) handleScores(data protocol.ScoresData) {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.GetGame()
	}
	session, ok := c.manager.GetSession(gameID)
	if !ok {
		c.sendError("game_not_found", "Game not found: "+gameID)
		return
	}

	if err := session.SubmitScores(data.Hole, data.Scores); err != nil {
		c.sendActionRejected(session, playerID, "scores", err)
		return
	}
}

// sendActionRejected reports a rules violation together with the player's
// currently legal actions so the client can recover without a resync.
func (c *Connection) sendActionRejected(session *Session, playerID, action string, err error) {
	data := protocol.ActionRejectedData{
		GameID:  session.ID(),
		Action:  action,
		Code:    "invalid_action",
		Message: err.Error(),
	}
	if rv, ok := game.AsRuleViolation(err); ok {
		data.Code = string(rv.Kind)
		data.Message = rv.Message
		data.Field = rv.Field
		data.Details = rv.Details
	}
	data.ValidActions = session.State(playerID).ValidActions

	msg, merr := protocol.NewMessage(protocol.MessageTypeActionRejected, data)
	if merr != nil {
		c.logger.Error("Failed to create rejection message", "error", merr)
		return
	}
	_ = c.SendMessage(msg)
}
