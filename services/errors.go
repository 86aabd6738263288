package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Shared sentinels used across services and the HTTP error mapping.
// FORBIDDEN and PROFILE_MISSING are signalled with the policy package
// sentinels (policy.ErrForbidden, policy.ErrProfileMissing).
var (
	ErrNotFound = errors.New("requested resource not found")

	// ErrEditConflict is an optimistic-concurrency conflict on a row that
	// still exists. It is deliberately not given a friendly mapping: the
	// core does not retry, the generic failure handler deals with it.
	ErrEditConflict = errors.New("concurrent update conflict")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Entity not-found (more context than the generic ErrNotFound)
	ErrAthleteNotFound = errors.New("athlete not found")
	ErrPartnerNotFound = errors.New("partner not found")
	ErrCoachNotFound   = errors.New("coach not found")
	ErrEventNotFound   = errors.New("golf event not found")
	ErrScoreNotFound   = errors.New("event score not found")

	// Referential restricts
	ErrPartnerInUse = errors.New("partner cannot be deleted while athletes or scores reference it")
	ErrCoachInUse   = errors.New("coach cannot be deleted while golf events reference it")
)

// ValidationError carries per-field messages so callers can redisplay the form
// with the offending fields flagged.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
