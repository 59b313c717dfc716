package project

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a lifecycle failure. Codes are string-based for
// debuggability and natural JSON serialization.
type ErrorCode string

const (
	CodeNotFound                ErrorCode = "NOT_FOUND"
	CodeInvalidPhase            ErrorCode = "INVALID_PHASE"
	CodeNonSequentialTransition ErrorCode = "NON_SEQUENTIAL_TRANSITION"
	CodePhaseIncomplete         ErrorCode = "PHASE_INCOMPLETE"
	CodeGatesFailed             ErrorCode = "GATES_FAILED"
	CodeIncompatibleAssignment  ErrorCode = "INCOMPATIBLE_ASSIGNMENT"
	CodeGateTypeMismatch        ErrorCode = "GATE_TYPE_MISMATCH"
	CodeInvalidConfig           ErrorCode = "INVALID_CONFIGURATION"
)

// Error is a typed lifecycle failure. It carries enough structured detail
// (blockers, missing deliverables, failed gates) for a caller to resolve the
// condition without re-querying.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`

	Blockers            []string       `json:"blockers,omitempty"`
	MissingDeliverables []*Deliverable `json:"missing_deliverables,omitempty"`
	FailedGates         []*QualityGate `json:"failed_gates,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a plain typed failure.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a lifecycle *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the error code, or CodeUnknown semantics via ok=false.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
