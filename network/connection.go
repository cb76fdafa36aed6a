package network

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Connection wraps the WebSocket connection with a buffered send channel
// so command replies and session broadcasts never block the dispatcher.
type Connection struct {
	ws   *websocket.Conn
	send chan []byte
}

// NewConnection creates a new connection wrapper.
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// MessageHandler dispatches one inbound message.
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// ReadPump reads messages from the WebSocket connection and hands each
// one to the handler. It returns when the connection closes.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.ws.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			break
		}
		h.HandleMessage(c, message)
	}
}

// WritePump drains the send channel onto the WebSocket connection.
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendMessage queues a message for the client. A full send buffer drops
// the connection rather than stalling the caller.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- messageBytes:
	default:
		c.ws.Close()
	}
	return nil
}
