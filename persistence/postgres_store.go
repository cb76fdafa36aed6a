package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"gridbot/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore persists sessions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		grid_size INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		facing INTEGER NOT NULL,
		battery INTEGER NOT NULL,
		history JSONB NOT NULL,
		obstacles JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// SaveSession saves a session to the database.
func (ps *PostgresStore) SaveSession(session *models.Session) error {
	historyJSON, err := json.Marshal(session.Robot.History)
	if err != nil {
		return fmt.Errorf("failed to marshal move history: %v", err)
	}
	obstaclesJSON, err := json.Marshal(session.Obstacles)
	if err != nil {
		return fmt.Errorf("failed to marshal obstacles: %v", err)
	}

	query := `
	INSERT INTO sessions (id, grid_size, x, y, facing, battery, history, obstacles, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id)
	DO UPDATE SET
		x = $3, y = $4, facing = $5, battery = $6,
		history = $7, obstacles = $8,
		updated_at = $10
	`

	_, err = ps.db.Exec(query,
		session.ID, session.GridSize,
		session.Robot.X, session.Robot.Y, int(session.Robot.Facing), session.Robot.Battery,
		string(historyJSON), string(obstaclesJSON),
		session.Robot.CreatedAt, session.Robot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}

	return nil
}

// LoadSession loads a session from the database by ID.
func (ps *PostgresStore) LoadSession(sessionID string) (*models.Session, error) {
	query := `SELECT id, grid_size, x, y, facing, battery, history, obstacles, created_at, updated_at FROM sessions WHERE id = $1`

	session := &models.Session{Robot: &models.Robot{}}
	var facing int
	var historyJSON, obstaclesJSON string

	err := ps.db.QueryRow(query, sessionID).Scan(
		&session.ID, &session.GridSize,
		&session.Robot.X, &session.Robot.Y, &facing, &session.Robot.Battery,
		&historyJSON, &obstaclesJSON,
		&session.Robot.CreatedAt, &session.Robot.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session with ID %s not found", sessionID)
		}
		return nil, fmt.Errorf("failed to load session: %v", err)
	}

	session.Robot.ID = session.ID
	session.Robot.Facing = models.Direction(facing)

	if err := json.Unmarshal([]byte(historyJSON), &session.Robot.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal move history: %v", err)
	}
	if err := json.Unmarshal([]byte(obstaclesJSON), &session.Obstacles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal obstacles: %v", err)
	}

	return session, nil
}

// ListSessions returns the IDs of every stored session.
func (ps *PostgresStore) ListSessions() ([]string, error) {
	rows, err := ps.db.Query(`SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session ID: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteSession removes a session from the database.
func (ps *PostgresStore) DeleteSession(sessionID string) error {
	if _, err := ps.db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return ps.db.Close()
}
