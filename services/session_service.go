package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"gridbot/server/models"
	"gridbot/server/persistence"
	"gridbot/server/sim"
)

// Session owns one simulator and serializes every command application
// behind its mutex, so HTTP and websocket dispatch share it safely.
type Session struct {
	ID    string
	sim   *sim.Simulator
	db    persistence.Storage
	mutex sync.Mutex
}

// Apply runs one command against the session's simulator. On success
// the new state is written through to storage.
func (s *Session) Apply(cmd sim.Command) (string, sim.State, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	msg, err := s.sim.Apply(cmd)
	if err != nil {
		return "", s.sim.Snapshot(), err
	}
	s.persist()
	return msg, s.sim.Snapshot(), nil
}

// TurnTo rotates the robot to an absolute direction.
func (s *Session) TurnTo(target models.Direction) (string, sim.State) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	msg := s.sim.TurnTo(target)
	s.persist()
	return msg, s.sim.Snapshot()
}

// Reset restores the session to its initial state.
func (s *Session) Reset() (string, sim.State) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	msg := s.sim.Reset()
	s.persist()
	return msg, s.sim.Snapshot()
}

// Obstacle actions accepted by EditObstacles.
const (
	ObstacleClear  = "clear"
	ObstacleReset  = "reset"
	ObstacleToggle = "toggle"
)

// EditObstacles applies one obstacle action (clear, reset or toggle).
func (s *Session) EditObstacles(action string, x, y int) (string, sim.State, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var msg string
	var err error
	switch action {
	case ObstacleClear:
		msg = s.sim.ClearObstacles()
	case ObstacleReset:
		msg = s.sim.ResetObstacles()
	case ObstacleToggle:
		msg, err = s.sim.ToggleObstacle(x, y)
	default:
		err = fmt.Errorf("invalid obstacle action: %s", action)
	}
	if err != nil {
		return "", s.sim.Snapshot(), err
	}
	s.persist()
	return msg, s.sim.Snapshot(), nil
}

// Snapshot returns the current state without mutating it.
func (s *Session) Snapshot() sim.State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sim.Snapshot()
}

// Report returns the status report text.
func (s *Session) Report() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sim.Report()
}

// Render returns the ASCII grid rendering.
func (s *Session) Render() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sim.RenderGrid()
}

// persist writes the session through to storage. Persistence failures
// are logged, not surfaced: the in-memory state stays authoritative.
func (s *Session) persist() {
	if s.db == nil {
		return
	}
	record := &models.Session{
		ID:        s.ID,
		GridSize:  s.sim.Grid().Size,
		Robot:     s.sim.Robot(),
		Obstacles: s.sim.Grid().Obstacles,
	}
	if err := s.db.SaveSession(record); err != nil {
		log.Printf("Failed to save session %s: %v", s.ID, err)
	}
}

// SessionService manages the live simulator sessions.
type SessionService struct {
	sessions map[string]*Session
	opts     sim.Options
	db       persistence.Storage
	mutex    sync.RWMutex
}

// NewSessionService creates a session service. opts supplies the grid
// and robot defaults for new sessions; db may be nil to disable
// persistence (the CLI runs without it).
func NewSessionService(opts sim.Options, db persistence.Storage) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		opts:     opts,
		db:       db,
	}
}

// CreateSession starts a fresh session and returns it.
func (ss *SessionService) CreateSession() *Session {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	session := &Session{
		ID:  uuid.NewString(),
		sim: sim.New(ss.opts),
		db:  ss.db,
	}
	session.sim.Robot().ID = session.ID
	ss.sessions[session.ID] = session
	session.persist()
	return session
}

// GetSession retrieves a live session, falling back to storage for
// sessions persisted by an earlier process.
func (ss *SessionService) GetSession(sessionID string) (*Session, error) {
	ss.mutex.RLock()
	session, exists := ss.sessions[sessionID]
	ss.mutex.RUnlock()
	if exists {
		return session, nil
	}

	if ss.db == nil {
		return nil, errors.New("session not found")
	}

	record, err := ss.db.LoadSession(sessionID)
	if err != nil {
		return nil, errors.New("session not found")
	}

	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	// Another request may have restored it while we were loading.
	if session, exists := ss.sessions[sessionID]; exists {
		return session, nil
	}

	opts := ss.opts
	opts.GridSize = record.GridSize
	session = &Session{
		ID:  record.ID,
		sim: sim.New(opts),
		db:  ss.db,
	}
	session.sim.Restore(record.Robot, record.Obstacles)
	ss.sessions[record.ID] = session
	return session, nil
}

// RemoveSession drops a session from memory and storage.
func (ss *SessionService) RemoveSession(sessionID string) {
	ss.mutex.Lock()
	delete(ss.sessions, sessionID)
	ss.mutex.Unlock()

	if ss.db != nil {
		if err := ss.db.DeleteSession(sessionID); err != nil {
			log.Printf("Failed to delete session %s: %v", sessionID, err)
		}
	}
}
