package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gridbot/server/models"
	"gridbot/server/services"
	"gridbot/server/sim"
)

func newTestAPI(t *testing.T) (*http.ServeMux, *services.SessionService) {
	t.Helper()
	sessions := services.NewSessionService(sim.Options{
		GridSize: 5,
		Start:    models.Pose{X: 0, Y: 0, Facing: models.East},
	}, nil)
	api := NewAPI(sessions, NewSessionWatchers())
	mux := http.NewServeMux()
	api.Register(mux)
	return mux, sessions
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func createSession(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	rec, resp := doJSON(t, mux, http.MethodPost, "/api/sessions", nil)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("create session: code %d, body %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Session string `json:"session"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode session data: %v", err)
	}
	if data.Session == "" {
		t.Fatalf("empty session ID")
	}
	return data.Session
}

func TestCommandEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	_, resp := doJSON(t, mux, http.MethodPost, "/api/command", map[string]string{
		"session": id,
		"command": "forward",
	})
	if !resp.Success {
		t.Fatalf("forward failed: %s", resp.Message)
	}

	var state sim.State
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.X != 1 || state.Y != 0 || state.Facing != "EAST" {
		t.Fatalf("state = %+v", state)
	}
	if state.MoveCount != 1 {
		t.Fatalf("move count %d", state.MoveCount)
	}
}

func TestUnknownCommandDoesNotMutate(t *testing.T) {
	mux, sessions := newTestAPI(t)
	id := createSession(t, mux)

	_, resp := doJSON(t, mux, http.MethodPost, "/api/command", map[string]string{
		"session": id,
		"command": "teleport",
	})
	if resp.Success {
		t.Fatalf("expected failure for unknown command")
	}
	if !strings.Contains(resp.Message, "teleport") {
		t.Fatalf("message %q does not name the command", resp.Message)
	}

	session, err := sessions.GetSession(id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	state := session.Snapshot()
	if state.X != 0 || state.Y != 0 || state.MoveCount != 0 {
		t.Fatalf("unknown command mutated state: %+v", state)
	}
}

func TestRejectedMoveReportsError(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	// Face the west edge and walk into it.
	_, resp := doJSON(t, mux, http.MethodPost, "/api/turn", map[string]string{
		"session":   id,
		"direction": "west",
	})
	if !resp.Success {
		t.Fatalf("turn failed: %s", resp.Message)
	}

	_, resp = doJSON(t, mux, http.MethodPost, "/api/command", map[string]string{
		"session": id,
		"command": "forward",
	})
	if resp.Success {
		t.Fatalf("expected boundary rejection")
	}
	if !strings.Contains(resp.Message, "boundaries") {
		t.Fatalf("message %q", resp.Message)
	}
}

func TestStatusEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	rec, resp := doJSON(t, mux, http.MethodGet, "/api/status?session="+id, nil)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status: code %d, body %s", rec.Code, rec.Body.String())
	}
	var state sim.State
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.GridSize != 5 || state.Battery != 100 {
		t.Fatalf("state = %+v", state)
	}

	rec, _ = doJSON(t, mux, http.MethodGet, "/api/status?session=unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session: code %d", rec.Code)
	}
}

func TestDiagonalEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	_, resp := doJSON(t, mux, http.MethodPost, "/api/diagonal", map[string]string{
		"session":   id,
		"direction": "se",
	})
	if !resp.Success {
		t.Fatalf("diagonal se failed: %s", resp.Message)
	}
	var state sim.State
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.X != 1 || state.Y != 1 {
		t.Fatalf("state = %+v", state)
	}

	_, resp = doJSON(t, mux, http.MethodPost, "/api/diagonal", map[string]string{
		"session":   id,
		"direction": "up",
	})
	if resp.Success {
		t.Fatalf("expected failure for invalid diagonal")
	}
}

func TestObstaclesEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	x, y := 3, 3
	_, resp := doJSON(t, mux, http.MethodPost, "/api/obstacles", map[string]interface{}{
		"session": id,
		"action":  "toggle",
		"x":       x,
		"y":       y,
	})
	if !resp.Success {
		t.Fatalf("toggle failed: %s", resp.Message)
	}
	var state sim.State
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	found := false
	for _, o := range state.Obstacles {
		if o.X == x && o.Y == y {
			found = true
		}
	}
	if !found {
		t.Fatalf("toggled obstacle missing from %v", state.Obstacles)
	}

	// Toggle without coordinates is rejected.
	_, resp = doJSON(t, mux, http.MethodPost, "/api/obstacles", map[string]interface{}{
		"session": id,
		"action":  "toggle",
	})
	if resp.Success {
		t.Fatalf("expected failure for missing coordinates")
	}

	_, resp = doJSON(t, mux, http.MethodPost, "/api/obstacles", map[string]interface{}{
		"session": id,
		"action":  "clear",
	})
	if !resp.Success {
		t.Fatalf("clear failed: %s", resp.Message)
	}
}

func TestResetEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	doJSON(t, mux, http.MethodPost, "/api/command", map[string]string{"session": id, "command": "forward"})
	_, resp := doJSON(t, mux, http.MethodPost, "/api/command", map[string]string{"session": id, "command": "reset"})
	if !resp.Success {
		t.Fatalf("reset failed: %s", resp.Message)
	}
	var state sim.State
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.X != 0 || state.Y != 0 || state.MoveCount != 0 {
		t.Fatalf("state after reset = %+v", state)
	}
}

func TestReportEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t)
	id := createSession(t, mux)

	_, resp := doJSON(t, mux, http.MethodGet, "/api/report?session="+id, nil)
	if !resp.Success {
		t.Fatalf("report failed")
	}
	if !strings.Contains(resp.Message, "Robot Status Report") {
		t.Fatalf("report message %q", resp.Message)
	}
}

func TestMethodGuards(t *testing.T) {
	mux, _ := newTestAPI(t)

	rec, _ := doJSON(t, mux, http.MethodGet, "/api/command", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/command: code %d", rec.Code)
	}
	rec, _ = doJSON(t, mux, http.MethodPost, "/api/status", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /api/status: code %d", rec.Code)
	}
}
