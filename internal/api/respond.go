package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the wire shape for every failure response.
type errorBody struct {
	Error               string                 `json:"error"`
	Code                string                 `json:"code,omitempty"`
	Blockers            []string               `json:"blockers,omitempty"`
	MissingDeliverables []*project.Deliverable `json:"missing_deliverables,omitempty"`
	FailedGates         []*project.QualityGate `json:"failed_gates,omitempty"`
}

// writeError maps domain error codes to HTTP statuses and preserves the
// structured blocker payload so callers can act on it.
func writeError(w http.ResponseWriter, err error) {
	var perr *project.Error
	if !errors.As(err, &perr) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch perr.Code {
	case project.CodeNotFound:
		status = http.StatusNotFound
	case project.CodeInvalidPhase, project.CodeGateTypeMismatch:
		status = http.StatusBadRequest
	case project.CodeNonSequentialTransition, project.CodePhaseIncomplete,
		project.CodeGatesFailed, project.CodeIncompatibleAssignment:
		status = http.StatusConflict
	}

	writeJSON(w, status, errorBody{
		Error:               perr.Message,
		Code:                string(perr.Code),
		Blockers:            perr.Blockers,
		MissingDeliverables: perr.MissingDeliverables,
		FailedGates:         perr.FailedGates,
	})
}
