package models

import "fmt"

// DuplicateError reports a uniqueness collision on a user field or on the
// plot identity tuple.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: '%s' already exists", e.Field, e.Value)
}

// ConfigurationError reports a missing lookup row (role, soil type, crop
// type, irrigation type) that the deployment is expected to have seeded.
type ConfigurationError struct {
	Lookup string
	Name   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s '%s' not found in system", e.Lookup, e.Name)
}

// GeometryError reports malformed GeoJSON input.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "invalid geometry data: " + e.Reason
}

// ValidationError reports a missing or inconsistent field in a payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// AssignmentError reports an invalid farmer auto-assignment.
type AssignmentError struct {
	Reason string
}

func (e *AssignmentError) Error() string {
	return "assignment rejected: " + e.Reason
}

// RegistrationError wraps any failure inside the unified registration
// transaction. The transaction is rolled back whenever one is returned.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return "registration failed: " + e.Err.Error()
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
