package triage

import "fmt"

// NotFoundError reports an unknown case id. Surfaced to the caller, never
// fatal.
type NotFoundError struct {
	CaseID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("case %s not found", e.CaseID)
}

// ValidationError reports a malformed or missing intake field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an operation attempted against a case that has not
// reached (or has passed) the required pipeline stage. The case is left
// unchanged.
type StateError struct {
	CaseID string
	Status Status
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("case %s: cannot %s in status %s", e.CaseID, e.Op, e.Status)
}
