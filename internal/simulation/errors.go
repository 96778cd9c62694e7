package simulation

import (
	"errors"
	"fmt"
	"time"
)

// Code is the stable machine-readable identifier of a failure class.
type Code string

const (
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeWorkspaceNotFound    Code = "WORKSPACE_NOT_FOUND"
	CodeWorkspaceUnreachable Code = "WORKSPACE_UNREACHABLE"
	CodeWorkspaceForbidden   Code = "WORKSPACE_FORBIDDEN"
	CodeTimeout              Code = "SIMULATION_TIMEOUT"
	CodeComputation          Code = "COMPUTATION_ERROR"
)

// CodedError is implemented by every error the simulator surfaces to callers.
type CodedError interface {
	error
	Code() Code
}

// CodeOf extracts the code of err, or "" when err is not a CodedError.
func CodeOf(err error) Code {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// ValidationError reports a malformed or out-of-range request. Not retryable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Code() Code { return CodeValidation }

// WorkspaceUnavailableError reports that the workspace lookup failed before compute.
type WorkspaceUnavailableError struct {
	WorkspaceID string
	NotFound    bool
	// Forbidden is set when the provider rejected our credentials.
	Forbidden bool
	Err       error
}

func (e *WorkspaceUnavailableError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("workspace %s not found", e.WorkspaceID)
	}
	return fmt.Sprintf("workspace %s unavailable: %v", e.WorkspaceID, e.Err)
}

func (e *WorkspaceUnavailableError) Code() Code {
	switch {
	case e.NotFound:
		return CodeWorkspaceNotFound
	case e.Forbidden:
		return CodeWorkspaceForbidden
	}
	return CodeWorkspaceUnreachable
}

func (e *WorkspaceUnavailableError) Unwrap() error { return e.Err }

// Retryable is true only for upstream outages. A missing workspace stays
// missing and rejected credentials stay rejected.
func (e *WorkspaceUnavailableError) Retryable() bool { return !e.NotFound && !e.Forbidden }

// SimulationTimeoutError reports a run that exceeded its wall-clock budget.
// Partial results are discarded.
type SimulationTimeoutError struct {
	Timeout   time.Duration
	Completed int
	Requested int
}

func (e *SimulationTimeoutError) Error() string {
	return fmt.Sprintf("simulation exceeded %s after %d of %d iterations", e.Timeout, e.Completed, e.Requested)
}

func (e *SimulationTimeoutError) Code() Code { return CodeTimeout }

// ComputationError reports a numeric failure such as a zero hard cap.
type ComputationError struct {
	Message string
}

func (e *ComputationError) Error() string { return e.Message }

func (e *ComputationError) Code() Code { return CodeComputation }
