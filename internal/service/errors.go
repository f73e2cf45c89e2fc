package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"bookingdesk/internal/repository"
)

var (
	ErrDomainNotAllowed  = errors.New("domain not allowed for registration")
	ErrAuth              = errors.New("authentication failed")
	ErrUnauthorized      = errors.New("not authorized for this operation")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAssignee   = errors.New("assignee must be an active admin")
	ErrStore             = errors.New("store operation failed")
)

// ValidationError maps request fields to the constraint each one violated.
// It is returned before any store call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// wrapErr passes domain errors through and folds everything else into ErrStore.
// The underlying store cause is logged, never returned to callers.
func wrapErr(op string, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, ErrDomainNotAllowed), errors.Is(err, ErrAuth),
		errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvalidAssignee),
		errors.Is(err, ErrStore):
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Printf("%s: store error: %v", op, err)
	return fmt.Errorf("%s: %w", op, ErrStore)
}
