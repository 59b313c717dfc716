package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/Foreman/internal/lifecycle"
	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

type DeliverablesHandler struct {
	engine *lifecycle.Engine
}

func NewDeliverablesHandler(eng *lifecycle.Engine) *DeliverablesHandler {
	return &DeliverablesHandler{engine: eng}
}

type AssignRequest struct {
	// Actor being assigned; defaults to the caller when omitted.
	Actor string `json:"actor,omitempty"`
}

func (h *DeliverablesHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req AssignRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	actor := req.Actor
	if actor == "" {
		actor = r.Header.Get("X-Actor-ID")
	}

	if err := h.engine.AssignDeliverable(r.Context(), id, actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "assigned", "actor": actor})
}

type CompleteRequest struct {
	Artifacts []project.ArtifactInput `json:"artifacts,omitempty"`
}

func (h *DeliverablesHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req CompleteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.engine.CompleteDeliverable(r.Context(), id, req.Artifacts); err != nil {
		writeError(w, err)
		return
	}

	deliverablesCompleted.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
