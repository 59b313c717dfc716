package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Foreman/internal/lifecycle"
	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

type ProjectsHandler struct {
	engine     *lifecycle.Engine
	adminToken string
}

func NewProjectsHandler(eng *lifecycle.Engine, adminToken string) *ProjectsHandler {
	return &ProjectsHandler{engine: eng, adminToken: adminToken}
}

type CreateProjectRequest struct {
	Name         string                        `json:"name"`
	Description  string                        `json:"description,omitempty"`
	Deliverables []project.DeliverableTemplate `json:"deliverables,omitempty"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name required"})
		return
	}

	p, err := h.engine.CreateProject(r.Context(), req.Name, req.Description, req.Deliverables)
	if err != nil {
		writeError(w, err)
		return
	}

	projectsCreated.Inc()
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.engine.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.engine.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Completion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	status, err := h.engine.CheckPhaseCompletion(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *ProjectsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	m, err := h.engine.GetProjectMetrics(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ProjectsHandler) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	events, err := h.engine.GetAuditLog(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []*project.AuditEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

type RunGatesRequest struct {
	Phase string `json:"phase"`
}

func (h *ProjectsHandler) RunGates(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.engine.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Default to the current phase when the body omits one.
	phase := p.CurrentPhase
	var req RunGatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Phase != "" {
		parsed, perr := project.ParsePhase(req.Phase)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown phase: " + req.Phase})
			return
		}
		phase = parsed
	}

	results, err := h.engine.RunQualityGates(r.Context(), id, phase)
	if err != nil {
		writeError(w, err)
		return
	}

	gateRuns.WithLabelValues(outcomeLabel(results.OverallPass)).Inc()
	writeJSON(w, http.StatusOK, results)
}

type ApproveGateRequest struct {
	GateName string `json:"gate_name"`
}

func (h *ProjectsHandler) ApproveGate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ApproveGateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GateName == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "gate_name required"})
		return
	}

	actor := r.Header.Get("X-Actor-ID")
	if err := h.engine.ApproveManualGate(r.Context(), id, req.GateName, actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

type TransitionBody struct {
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason,omitempty"`
	SkipGates bool   `json:"skip_gates,omitempty"`
}

func (h *ProjectsHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body TransitionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	from, err := project.ParsePhase(body.FromPhase)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown from_phase: " + body.FromPhase})
		return
	}
	to, err := project.ParsePhase(body.ToPhase)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown to_phase: " + body.ToPhase})
		return
	}

	// The gate override is an admin-only escape hatch.
	if body.SkipGates && h.adminToken != "" {
		if r.Header.Get("Authorization") != "Bearer "+h.adminToken {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "skip_gates requires admin authorization"})
			return
		}
	}

	result, err := h.engine.RequestTransition(r.Context(), project.TransitionRequest{
		ProjectID:   id,
		FromPhase:   from,
		ToPhase:     to,
		RequestedBy: r.Header.Get("X-Actor-ID"),
		Reason:      body.Reason,
		SkipGates:   body.SkipGates,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	phaseTransitions.WithLabelValues(result.NewPhase.String(), strconv.FormatBool(body.SkipGates)).Inc()
	writeJSON(w, http.StatusOK, result)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func outcomeLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}
