package errs

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrForbidden         = errors.New("permission denied")
	ErrNothingSelected   = errors.New("no record selected")
	ErrInvalidID         = errors.New("invalid id")
	ErrUnknownFilter     = errors.New("unknown filter")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// Kind classifies an upstream failure.
type Kind string

const (
	KindNetwork  Kind = "network"
	KindHTTP     Kind = "http"
	KindEnvelope Kind = "envelope"
)

// APIError is the uniform value every failed upstream call is converted into.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// PreconditionError is returned when an action is not legal for the selected record.
type PreconditionError struct {
	Action string
	Status string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("precondition violation: %s not allowed in status %q: %s", e.Action, e.Status, e.Reason)
	}
	return fmt.Sprintf("precondition violation: %s: %s", e.Action, e.Reason)
}

// ValidationError reports client-side form failures; it never reaches the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Message extracts the user-facing text for an error.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
