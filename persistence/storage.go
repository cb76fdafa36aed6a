package persistence

import "gridbot/server/models"

// Storage defines the interface for session persistence.
type Storage interface {
	SaveSession(session *models.Session) error
	LoadSession(sessionID string) (*models.Session, error)
	ListSessions() ([]string, error)
	DeleteSession(sessionID string) error
	Close() error
}
