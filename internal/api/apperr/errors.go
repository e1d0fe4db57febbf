// Package apperr defines the error taxonomy shared by services and
// handlers: validation failures carry field detail, lookup failures are
// distinct from policy denials, and mail delivery failures wrap their cause.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("permission denied")
	ErrUnauthorized = errors.New("authentication required")
)

// ValidationError reports a bad input value on a named field. A denied
// uniqueness constraint (duplicate review, taken slug) surfaces as one too.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DeliveryError marks a failure of the outbound mail collaborator.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("confirmation code delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
