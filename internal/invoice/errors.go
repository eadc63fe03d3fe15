package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/invoice-api/internal/terms"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid invoice data")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("invoice not found")
	// ErrMissingIdentity is returned when no authenticated caller was supplied.
	ErrMissingIdentity = errors.New("invoice: caller identity is required")
	// ErrEditConflict is returned when the items of an invoice changed between
	// reading it and applying an edit.
	ErrEditConflict = errors.New("invoice: items changed during edit")
	// ErrInvalidTerm is the payment-term error; it is a validation failure for callers.
	ErrInvalidTerm = terms.ErrInvalidTerm
)

// Issue codes.
const (
	CodeRequired   = "required"
	CodeOutOfRange = "out_of_range"
	CodeDuplicate  = "duplicate"
)

// Issue is one field-level problem.
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError is a user-correctable problem with the submitted data.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Field+": "+is.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(field, code, msg string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Field: field, Code: code, Message: msg}}}
}

// NotFoundError reports a missing invoice, or one the caller does not own.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invoice %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
