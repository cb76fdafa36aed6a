package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"gridbot/server/messages"
	"gridbot/server/models"
	"gridbot/server/services"
	"gridbot/server/sim"
)

func newWSServer(t *testing.T) (*httptest.Server, *services.SessionService) {
	t.Helper()
	sessions := services.NewSessionService(sim.Options{
		GridSize: 5,
		Start:    models.Pose{X: 0, Y: 0, Facing: models.East},
	}, nil)
	watchers := NewSessionWatchers()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		HandleClientConnection(conn, sessions, watchers)
	}))
	t.Cleanup(server.Close)
	return server, sessions
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsEnvelope struct {
	Type    messages.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

func sendWS(t *testing.T, conn *websocket.Conn, msgType messages.MessageType, payload interface{}) {
	t.Helper()
	if err := conn.WriteJSON(messages.BaseMessage{Type: msgType, Payload: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readWS(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebsocketHelloAndCommand(t *testing.T) {
	server, _ := newWSServer(t)
	conn := dialWS(t, server)

	sendWS(t, conn, messages.MessageTypeHello, messages.HelloMessage{})
	env := readWS(t, conn)
	if env.Type != messages.MessageTypeWelcome {
		t.Fatalf("got %s, want welcome", env.Type)
	}
	var welcome messages.WelcomeMessage
	if err := json.Unmarshal(env.Payload, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.SessionID == "" {
		t.Fatalf("empty session ID")
	}
	if welcome.State.X != 0 || welcome.State.Facing != "EAST" {
		t.Fatalf("welcome state %+v", welcome.State)
	}

	sendWS(t, conn, messages.MessageTypeCommand, messages.CommandMessage{Command: "forward"})
	env = readWS(t, conn)
	if env.Type != messages.MessageTypeState {
		t.Fatalf("got %s, want state", env.Type)
	}
	var state messages.StateMessage
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.State.X != 1 || state.State.Y != 0 {
		t.Fatalf("state %+v", state.State)
	}
}

func TestWebsocketRequiresHello(t *testing.T) {
	server, _ := newWSServer(t)
	conn := dialWS(t, server)

	sendWS(t, conn, messages.MessageTypeCommand, messages.CommandMessage{Command: "forward"})
	env := readWS(t, conn)
	if env.Type != messages.MessageTypeError {
		t.Fatalf("got %s, want error", env.Type)
	}
	var errMsg messages.ErrorMessage
	if err := json.Unmarshal(env.Payload, &errMsg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errMsg.Code != "NO_SESSION" {
		t.Fatalf("code %q", errMsg.Code)
	}
}

func TestWebsocketRejectionKeepsSession(t *testing.T) {
	server, _ := newWSServer(t)
	conn := dialWS(t, server)

	sendWS(t, conn, messages.MessageTypeHello, messages.HelloMessage{})
	readWS(t, conn)

	// Walk west off the grid: rejected, but the session survives.
	sendWS(t, conn, messages.MessageTypeTurn, messages.TurnMessage{Direction: "west"})
	readWS(t, conn)
	sendWS(t, conn, messages.MessageTypeCommand, messages.CommandMessage{Command: "forward"})
	env := readWS(t, conn)
	if env.Type != messages.MessageTypeError {
		t.Fatalf("got %s, want error", env.Type)
	}

	sendWS(t, conn, messages.MessageTypeStatus, nil)
	env = readWS(t, conn)
	if env.Type != messages.MessageTypeState {
		t.Fatalf("got %s, want state after rejection", env.Type)
	}
	var state messages.StateMessage
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.State.X != 0 || state.State.Y != 0 {
		t.Fatalf("rejection mutated state: %+v", state.State)
	}
}

func TestWebsocketBroadcastToSecondWatcher(t *testing.T) {
	server, _ := newWSServer(t)
	first := dialWS(t, server)

	sendWS(t, first, messages.MessageTypeHello, messages.HelloMessage{})
	env := readWS(t, first)
	var welcome messages.WelcomeMessage
	if err := json.Unmarshal(env.Payload, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}

	second := dialWS(t, server)
	sendWS(t, second, messages.MessageTypeHello, messages.HelloMessage{SessionID: welcome.SessionID})
	readWS(t, second)

	sendWS(t, first, messages.MessageTypeCommand, messages.CommandMessage{Command: "forward"})

	env = readWS(t, second)
	if env.Type != messages.MessageTypeState {
		t.Fatalf("second watcher got %s, want state", env.Type)
	}
	var state messages.StateMessage
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.State.X != 1 {
		t.Fatalf("broadcast state %+v", state.State)
	}
}
