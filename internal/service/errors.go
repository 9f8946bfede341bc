package service

import (
	"errors"
	"fmt"

	"contactManagement/internal/policy"
)

// Sentinel errors surfaced by the service layer. HTTP handlers map them
// to transport status codes; nothing below the handlers knows about HTTP.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInactive           = errors.New("user account is inactive")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports per-field input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Fields)
}

func validationErr(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// verdictError converts a policy denial into the corresponding service
// error. Calling it with an allowing verdict is a programming error.
func verdictError(v policy.Verdict) error {
	switch v.Effect {
	case policy.EffectInactive:
		return ErrInactive
	case policy.EffectNotFound:
		return ErrNotFound
	case policy.EffectForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, v.Reason)
	default:
		return nil
	}
}
