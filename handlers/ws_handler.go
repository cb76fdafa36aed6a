package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gorilla/websocket"

	"gridbot/server/messages"
	"gridbot/server/models"
	"gridbot/server/network"
	"gridbot/server/services"
	"gridbot/server/sim"
)

// SessionHandler manages a single websocket client. The client opens
// with a hello message binding it to a session; every message after
// that dispatches exactly one command against that session.
type SessionHandler struct {
	conn     *network.Connection
	sessions *services.SessionService
	watchers *SessionWatchers
	session  *services.Session
}

// HandleClientConnection handles a new websocket connection until it
// closes, then detaches the handler from its session.
func HandleClientConnection(wsConn *websocket.Conn, sessions *services.SessionService, watchers *SessionWatchers) {
	conn := network.NewConnection(wsConn)
	handler := &SessionHandler{
		conn:     conn,
		sessions: sessions,
		watchers: watchers,
	}

	go conn.WritePump()
	conn.ReadPump(handler)

	if handler.session != nil {
		watchers.RemoveWatcher(handler.session.ID, handler)
		log.Printf("Client detached from session %s", handler.session.ID)
	}
}

// HandleMessage handles one inbound message from the client.
func (h *SessionHandler) HandleMessage(conn *network.Connection, message []byte) {
	var baseMsg messages.BaseMessage
	if err := json.Unmarshal(message, &baseMsg); err != nil {
		h.sendError("BAD_MESSAGE", "malformed message")
		return
	}

	if baseMsg.Type == messages.MessageTypeHello {
		h.handleHello(baseMsg.Payload)
		return
	}

	if h.session == nil {
		h.sendError("NO_SESSION", "send a hello message first")
		return
	}

	switch baseMsg.Type {
	case messages.MessageTypeCommand:
		h.handleCommand(baseMsg.Payload)
	case messages.MessageTypeDiagonal:
		h.handleDiagonal(baseMsg.Payload)
	case messages.MessageTypeTurn:
		h.handleTurn(baseMsg.Payload)
	case messages.MessageTypeObstacles:
		h.handleObstacles(baseMsg.Payload)
	case messages.MessageTypeStatus:
		h.sendState("", h.session.Snapshot())
	case messages.MessageTypeReport:
		h.conn.SendMessage(messages.BaseMessage{
			Type:    messages.MessageTypeReport,
			Payload: messages.ReportMessage{Report: h.session.Report()},
		})
	default:
		h.sendError("UNKNOWN_MESSAGE_TYPE", "unknown message type: "+string(baseMsg.Type))
	}
}

func (h *SessionHandler) handleHello(payload interface{}) {
	var hello messages.HelloMessage
	if !h.decode(payload, &hello) {
		return
	}

	if h.session != nil {
		h.watchers.RemoveWatcher(h.session.ID, h)
	}

	if hello.SessionID == "" {
		h.session = h.sessions.CreateSession()
	} else {
		session, err := h.sessions.GetSession(hello.SessionID)
		if err != nil {
			h.sendError("SESSION_NOT_FOUND", err.Error())
			return
		}
		h.session = session
	}

	h.watchers.AddWatcher(h.session.ID, h)
	h.conn.SendMessage(messages.BaseMessage{
		Type: messages.MessageTypeWelcome,
		Payload: messages.WelcomeMessage{
			SessionID: h.session.ID,
			State:     h.session.Snapshot(),
		},
	})
}

func (h *SessionHandler) handleCommand(payload interface{}) {
	var cmdMsg messages.CommandMessage
	if !h.decode(payload, &cmdMsg) {
		return
	}

	name := strings.ToLower(cmdMsg.Command)
	if name == "reset" {
		msg, state := h.session.Reset()
		h.broadcastState(msg, state)
		return
	}

	cmd, ok := namedCommand(name)
	if !ok {
		h.sendError("UNKNOWN_COMMAND", "unknown command: "+cmdMsg.Command)
		return
	}

	msg, state, err := h.session.Apply(cmd)
	if err != nil {
		h.sendError("COMMAND_REJECTED", err.Error())
		return
	}
	h.broadcastState(msg, state)
}

func (h *SessionHandler) handleDiagonal(payload interface{}) {
	var diagMsg messages.DiagonalMessage
	if !h.decode(payload, &diagMsg) {
		return
	}

	quadrant, err := models.ParseDiagonal(strings.ToLower(diagMsg.Direction))
	if err != nil {
		h.sendError("INVALID_DIRECTION", err.Error())
		return
	}

	msg, state, err := h.session.Apply(sim.Command{Kind: sim.DiagonalMove, Quadrant: quadrant})
	if err != nil {
		h.sendError("COMMAND_REJECTED", err.Error())
		return
	}
	h.broadcastState(msg, state)
}

func (h *SessionHandler) handleTurn(payload interface{}) {
	var turnMsg messages.TurnMessage
	if !h.decode(payload, &turnMsg) {
		return
	}

	target, err := models.ParseDirection(strings.ToLower(turnMsg.Direction))
	if err != nil {
		h.sendError("INVALID_DIRECTION", err.Error())
		return
	}

	msg, state := h.session.TurnTo(target)
	h.broadcastState(msg, state)
}

func (h *SessionHandler) handleObstacles(payload interface{}) {
	var obsMsg messages.ObstaclesMessage
	if !h.decode(payload, &obsMsg) {
		return
	}

	msg, state, err := h.session.EditObstacles(strings.ToLower(obsMsg.Action), obsMsg.X, obsMsg.Y)
	if err != nil {
		h.sendError("OBSTACLE_REJECTED", err.Error())
		return
	}
	h.broadcastState(msg, state)
}

// decode remarshals the envelope payload into its concrete type.
func (h *SessionHandler) decode(payload interface{}, out interface{}) bool {
	data, err := json.Marshal(payload)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		h.sendError("BAD_PAYLOAD", "malformed payload")
		return false
	}
	return true
}

func (h *SessionHandler) sendState(msg string, state sim.State) {
	h.conn.SendMessage(stateBroadcast(msg, state))
}

// broadcastState pushes the post-command state to every watcher of the
// session, including this handler.
func (h *SessionHandler) broadcastState(msg string, state sim.State) {
	h.watchers.Broadcast(h.session.ID, stateBroadcast(msg, state))
}

func (h *SessionHandler) sendError(code, message string) {
	h.conn.SendMessage(messages.BaseMessage{
		Type:    messages.MessageTypeError,
		Payload: messages.ErrorMessage{Code: code, Message: message},
	})
}
