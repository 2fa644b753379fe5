package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below
var (
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrUniqueness           = errors.New("uniqueness violation")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrNotFound             = errors.New("not found")
)

// ReferentialIntegrityError is returned when a write references a missing row
type ReferentialIntegrityError struct {
	Entity string // entity being written
	Field  string // foreign key column
	ID     uint   // referenced id that does not exist
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s.%s references missing row %d", e.Entity, e.Field, e.ID)
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferentialIntegrity }

// UniquenessViolation is returned on a duplicate unique key
type UniquenessViolation struct {
	Entity string
	Key    string
}

func (e *UniquenessViolation) Error() string {
	return fmt.Sprintf("%s with %s already exists", e.Entity, e.Key)
}

func (e *UniquenessViolation) Is(target error) bool { return target == ErrUniqueness }

// ValidationError is a business rule violation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidTransitionError is returned for an order status change outside the state machine
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot move from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// NotFoundError is only returned where the caller requires existence
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
