package domain

import (
	"errors"
	"fmt"
)

// ErrAgentResultMissing is returned when the agent runner produced no final
// output for an invocation.
var ErrAgentResultMissing = errors.New("agent result is undefined")

// ValidationError is a user-facing input problem. It is raised before any
// agent call (or when the validator agent rejects the payload) and maps to a
// 4xx response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// SchemaError means an agent's output did not match its declared shape. The
// raw payload is kept for diagnosis; it is logged, never echoed to callers.
type SchemaError struct {
	Agent string
	Raw   string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("agent %s returned output that does not match its schema: %v", e.Agent, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// CredentialError means the agent service credential is missing or rejected.
// Callers get a configuration-specific message instead of a generic failure.
type CredentialError struct {
	Msg string
}

func (e *CredentialError) Error() string {
	return e.Msg
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsCredential(err error) bool {
	var ce *CredentialError
	return errors.As(err, &ce)
}
