package services

import (
	"errors"

	"github.com/sirdesai22/event-site/internal/validation"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrUnauthenticated      = errors.New("not signed in")
	ErrForbidden            = errors.New("not allowed")
	ErrRegistrationClosed   = errors.New("registration link is not configured")
)

// ValidationError carries per-field failures; no write was performed.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string { return e.Fields.Error() }

// ProviderError is an identity provider failure during account creation,
// shown to the moderator as is.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

func invalid(field string, reason validation.Reason, msg string) error {
	return &ValidationError{Fields: validation.FieldErrors{field: {Reason: reason, Message: msg}}}
}
