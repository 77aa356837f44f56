package models

import "errors"

// ErrNotFound is returned by store lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// ValidationError marks missing or malformed input. Handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// DuplicateError marks a unique-constraint collision on registration.
// Field is the user-facing name ("Email", "Phone", "Roll number").
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return e.Field + " already exists" }

// ForbiddenError marks an authenticated but unpermitted operation.
// Handlers map it to 403.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }
