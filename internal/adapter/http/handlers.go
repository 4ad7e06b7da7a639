package http

import (
	"log/slog"
	"net/http"

	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/service"
)

// Handlers holds the API handlers and their collaborators.
type Handlers struct {
	engine  *service.Engine
	log     *slog.Logger
	version string
}

// NewHandlers creates the handler set.
func NewHandlers(engine *service.Engine, log *slog.Logger, version string) *Handlers {
	return &Handlers{engine: engine, log: log, version: version}
}

type turnRequest struct {
	Input string `json:"input"`
}

type turnResponse struct {
	SessionID       string        `json:"session_id"`
	Intent          string        `json:"intent"`
	Response        string        `json:"response"`
	PendingApproval bool          `json:"pending_approval"`
	QualityScore    float64       `json:"quality_score"`
	State           session.State `json:"state"`
}

func turnPayload(res *service.TurnResult) turnResponse {
	return turnResponse{
		SessionID:       res.SessionID,
		Intent:          string(res.Intent),
		Response:        res.Response,
		PendingApproval: res.PendingApproval,
		QualityScore:    res.QualityScore,
		State:           res.State,
	}
}

// HandleTurn runs one user message through the pipeline.
// POST /api/v1/sessions/{id}/turns
func (h *Handlers) HandleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := urlParam(r, "id")
	req, ok := readJSON[turnRequest](w, r)
	if !ok {
		return
	}

	res, err := h.engine.Turn(r.Context(), sessionID, req.Input)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	status := http.StatusOK
	if res.PendingApproval {
		status = http.StatusAccepted
	}
	writeJSON(w, status, turnPayload(res))
}

// HandleResume continues a turn suspended at the plan approval gate.
// POST /api/v1/sessions/{id}/resume
func (h *Handlers) HandleResume(w http.ResponseWriter, r *http.Request) {
	sessionID := urlParam(r, "id")

	res, err := h.engine.Resume(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turnPayload(res))
}

// HandleSessionState returns the committed session state.
// GET /api/v1/sessions/{id}
func (h *Handlers) HandleSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID := urlParam(r, "id")

	state, ok := h.engine.Snapshot(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleHealth reports liveness.
// GET /healthz
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
