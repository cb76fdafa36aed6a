package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gridbot/server/models"
)

// JSONStore persists sessions in a local JSON file.
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *jsonData
}

type jsonData struct {
	Sessions map[string]*models.Session `json:"sessions"`
}

// NewJSONStore creates a new JSON storage manager, loading the file if
// it already exists and creating it otherwise.
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &jsonData{
			Sessions: make(map[string]*models.Session),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %v", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %v", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(file, js.data)
}

func (js *JSONStore) saveToFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

// SaveSession saves a session to the store.
func (js *JSONStore) SaveSession(session *models.Session) error {
	js.mutex.Lock()
	js.data.Sessions[session.ID] = session
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadSession loads a session by ID.
func (js *JSONStore) LoadSession(sessionID string) (*models.Session, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	session, exists := js.data.Sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session with ID %s not found", sessionID)
	}

	return session, nil
}

// ListSessions returns the IDs of every stored session.
func (js *JSONStore) ListSessions() ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	ids := make([]string, 0, len(js.data.Sessions))
	for id := range js.data.Sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteSession removes a session from the store.
func (js *JSONStore) DeleteSession(sessionID string) error {
	js.mutex.Lock()
	delete(js.data.Sessions, sessionID)
	js.mutex.Unlock()

	return js.saveToFile()
}

// Close closes the store (no-op for JSON store).
func (js *JSONStore) Close() error {
	return nil
}
