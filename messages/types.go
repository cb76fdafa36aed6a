package messages

import "gridbot/server/sim"

// MessageType defines the type of message being sent over the websocket.
type MessageType string

const (
	MessageTypeHello     MessageType = "hello"
	MessageTypeWelcome   MessageType = "welcome"
	MessageTypeCommand   MessageType = "command"
	MessageTypeDiagonal  MessageType = "diagonal"
	MessageTypeTurn      MessageType = "turn"
	MessageTypeObstacles MessageType = "obstacles"
	MessageTypeStatus    MessageType = "status"
	MessageTypeReport    MessageType = "report"
	MessageTypeState     MessageType = "state"
	MessageTypeError     MessageType = "error"
)

// BaseMessage is the envelope for all websocket messages.
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// HelloMessage opens a websocket session. An empty SessionID starts a
// new session; a known ID attaches to the existing one.
type HelloMessage struct {
	SessionID string `json:"session_id"`
}

// WelcomeMessage acknowledges a hello with the bound session.
type WelcomeMessage struct {
	SessionID string    `json:"session_id"`
	State     sim.State `json:"state"`
}

// CommandMessage applies one named command
// (forward/backward/left/right/recharge/reset).
type CommandMessage struct {
	Command string `json:"command"`
}

// DiagonalMessage applies one diagonal move (ne/se/sw/nw).
type DiagonalMessage struct {
	Direction string `json:"direction"`
}

// TurnMessage turns the robot to an absolute compass direction.
type TurnMessage struct {
	Direction string `json:"direction"`
}

// ObstaclesMessage edits the obstacle layout. X and Y are only read
// for the toggle action.
type ObstaclesMessage struct {
	Action string `json:"action"` // clear, reset, toggle
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// StateMessage carries the post-command state back to every watcher of
// the session.
type StateMessage struct {
	Message string    `json:"message"`
	State   sim.State `json:"state"`
}

// ReportMessage carries the status report text.
type ReportMessage struct {
	Report string `json:"report"`
}

// ErrorMessage represents an error response.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
