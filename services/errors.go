package services

import (
	"fmt"
	"sort"
	"strings"

	"shopez/models"
)

// ValidationError lists the offending request fields. No write has been
// attempted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	if !e.To.Valid() {
		return fmt.Sprintf("unknown order status %q", e.To)
	}
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

// AlreadyTerminalError is returned when the order is delivered or
// cancelled. errors.As also matches it as an *InvalidTransitionError.
type AlreadyTerminalError struct {
	Status models.OrderStatus
	To     models.OrderStatus
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("order is already %s", e.Status)
}

func (e *AlreadyTerminalError) Unwrap() error {
	return &InvalidTransitionError{From: e.Status, To: e.To}
}

type EmptyCartError struct{}

func (e *EmptyCartError) Error() string { return "cart is empty" }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ServerError wraps a storage or infrastructure failure. Its text is for
// logs only.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *ServerError) Unwrap() error { return e.Err }
