package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"yamdb/internal/authz"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidCode  = errors.New("invalid confirmation code")
	ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrInvalidToken = errors.New("invalid token")
	ErrInactiveUser = errors.New("user account is disabled")
)

// NonFieldErrors is the ValidationError key for errors not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field messages and maps to 400.
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
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func unknownSlug(slug string) string {
	return fmt.Sprintf("object with slug=%s does not exist", slug)
}

// Authorizer is the policy decision point services consult.
type Authorizer interface {
	Decide(req authz.Request) authz.Decision
}

func decisionError(d authz.Decision) error {
	switch d {
	case authz.Allow:
		return nil
	case authz.Unauthorized:
		return ErrUnauthorized
	default:
		return ErrForbidden
	}
}
