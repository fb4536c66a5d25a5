// Package apperr defines the error taxonomy shared by all components.
// Every error that leaves a repository or service is one of these four kinds
// (or a wrapped infrastructure error); handlers map them onto HTTP codes.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input. The mutation
// was not applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing referenced entity. The mutation was
// not applied.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a meter reading that does not chain from the
// stored baseline. The whole batch it belonged to was aborted.
type ConflictError struct {
	Entity   string
	ID       int64
	Expected string
	Got      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: baseline mismatch: expected %s, got %s", e.Entity, e.ID, e.Expected, e.Got)
}

// ConsistencyError reports that a derived figure cannot be reconciled
// with the stored events. The recomputation that detected it must halt
// rather than return a wrong number.
type ConsistencyError struct {
	Scope  string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency check failed: %s: %s", e.Scope, e.Detail)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Conflict(entity string, id int64, expected, got string) error {
	return &ConflictError{Entity: entity, ID: id, Expected: expected, Got: got}
}

func Consistency(scope, detail string) error {
	return &ConsistencyError{Scope: scope, Detail: detail}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsConsistency(err error) bool {
	var e *ConsistencyError
	return errors.As(err, &e)
}
