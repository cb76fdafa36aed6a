package handlers

import (
	"log"
	"sync"
)

// SessionWatchers tracks which websocket handlers are attached to each
// session, so every accepted mutation can be pushed to all of them
// (e.g. two browser tabs driving the same robot).
type SessionWatchers struct {
	watchers map[string]map[*SessionHandler]bool
	mutex    sync.RWMutex
}

// NewSessionWatchers creates a new watcher registry.
func NewSessionWatchers() *SessionWatchers {
	return &SessionWatchers{
		watchers: make(map[string]map[*SessionHandler]bool),
	}
}

// AddWatcher attaches a handler to a session.
func (sw *SessionWatchers) AddWatcher(sessionID string, handler *SessionHandler) {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()

	if sw.watchers[sessionID] == nil {
		sw.watchers[sessionID] = make(map[*SessionHandler]bool)
	}
	sw.watchers[sessionID][handler] = true
}

// RemoveWatcher detaches a handler from a session.
func (sw *SessionWatchers) RemoveWatcher(sessionID string, handler *SessionHandler) {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()

	delete(sw.watchers[sessionID], handler)
	if len(sw.watchers[sessionID]) == 0 {
		delete(sw.watchers, sessionID)
	}
}

// Broadcast sends a message to every handler watching the session.
func (sw *SessionWatchers) Broadcast(sessionID string, msg interface{}) {
	sw.mutex.RLock()
	defer sw.mutex.RUnlock()

	for handler := range sw.watchers[sessionID] {
		if err := handler.conn.SendMessage(msg); err != nil {
			log.Printf("Error broadcasting to session %s watcher: %v", sessionID, err)
		}
	}
}
