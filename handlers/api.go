package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gridbot/server/models"
	"gridbot/server/services"
	"gridbot/server/sim"
)

// API serves the JSON HTTP endpoints. Each request dispatches at most
// one command against the session named in the request.
type API struct {
	sessions *services.SessionService
	watchers *SessionWatchers
}

// NewAPI creates the HTTP API handler set.
func NewAPI(sessions *services.SessionService, watchers *SessionWatchers) *API {
	return &API{sessions: sessions, watchers: watchers}
}

// Register mounts the API routes on the mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/sessions", a.handleSessions)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/command", a.handleCommand)
	mux.HandleFunc("/api/diagonal", a.handleDiagonal)
	mux.HandleFunc("/api/turn", a.handleTurn)
	mux.HandleFunc("/api/obstacles", a.handleObstacles)
	mux.HandleFunc("/api/report", a.handleReport)
}

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type sessionRequest struct {
	Session   string `json:"session"`
	Command   string `json:"command"`
	Direction string `json:"direction"`
	Action    string `json:"action"`
	X         *int   `json:"x"`
	Y         *int   `json:"y"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeState(w http.ResponseWriter, message string, state sim.State) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: message, Data: state})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

// decodeRequest reads the JSON body of a POST request.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*sessionRequest, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return nil, false
	}
	return &req, true
}

func (a *API) lookupSession(w http.ResponseWriter, sessionID string) (*services.Session, bool) {
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session ID")
		return nil, false
	}
	session, err := a.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found: "+sessionID)
		return nil, false
	}
	return session, true
}

// handleSessions creates a new session.
func (a *API) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session := a.sessions.CreateSession()
	log.Printf("Created session %s", session.ID)
	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "session created",
		Data: map[string]interface{}{
			"session": session.ID,
			"state":   session.Snapshot(),
		},
	})
}

// handleStatus returns the current robot state.
func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, ok := a.lookupSession(w, r.URL.Query().Get("session"))
	if !ok {
		return
	}
	writeState(w, "", session.Snapshot())
}

// handleCommand applies one named command.
func (a *API) handleCommand(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	session, ok := a.lookupSession(w, req.Session)
	if !ok {
		return
	}

	name := strings.ToLower(req.Command)
	if name == "reset" {
		msg, state := session.Reset()
		a.notifyWatchers(session.ID, msg, state)
		writeState(w, msg, state)
		return
	}

	cmd, known := namedCommand(name)
	if !known {
		writeError(w, http.StatusOK, "Unknown command: "+req.Command)
		return
	}

	msg, state, err := session.Apply(cmd)
	if err != nil {
		writeError(w, http.StatusOK, "ERROR: "+err.Error())
		return
	}
	a.notifyWatchers(session.ID, msg, state)
	writeState(w, msg, state)
}

// handleDiagonal applies one diagonal move.
func (a *API) handleDiagonal(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	session, ok := a.lookupSession(w, req.Session)
	if !ok {
		return
	}

	quadrant, err := models.ParseDiagonal(strings.ToLower(req.Direction))
	if err != nil {
		writeError(w, http.StatusOK, "ERROR: "+err.Error())
		return
	}

	msg, state, err := session.Apply(sim.Command{Kind: sim.DiagonalMove, Quadrant: quadrant})
	if err != nil {
		writeError(w, http.StatusOK, "ERROR: "+err.Error())
		return
	}
	a.notifyWatchers(session.ID, msg, state)
	writeState(w, msg, state)
}

// handleTurn turns the robot to an absolute direction.
func (a *API) handleTurn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	session, ok := a.lookupSession(w, req.Session)
	if !ok {
		return
	}

	target, err := models.ParseDirection(strings.ToLower(req.Direction))
	if err != nil {
		writeError(w, http.StatusOK, "Invalid direction: "+req.Direction)
		return
	}

	msg, state := session.TurnTo(target)
	a.notifyWatchers(session.ID, msg, state)
	writeState(w, msg, state)
}

// handleObstacles edits the obstacle layout.
func (a *API) handleObstacles(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	session, ok := a.lookupSession(w, req.Session)
	if !ok {
		return
	}

	action := strings.ToLower(req.Action)
	if action == services.ObstacleToggle && (req.X == nil || req.Y == nil) {
		writeError(w, http.StatusOK, "Missing x or y coordinate")
		return
	}
	var x, y int
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}

	msg, state, err := session.EditObstacles(action, x, y)
	if err != nil {
		writeError(w, http.StatusOK, "ERROR: "+err.Error())
		return
	}
	a.notifyWatchers(session.ID, msg, state)
	writeState(w, msg, state)
}

// handleReport returns the status report text.
func (a *API) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, ok := a.lookupSession(w, r.URL.Query().Get("session"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: session.Report()})
}

// notifyWatchers pushes HTTP-originated mutations to any websocket
// clients watching the same session.
func (a *API) notifyWatchers(sessionID, msg string, state sim.State) {
	if a.watchers == nil {
		return
	}
	a.watchers.Broadcast(sessionID, stateBroadcast(msg, state))
}
