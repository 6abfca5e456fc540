package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/coursereview/internal/pkg/dberrors"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Store errors
	ErrStore = errors.New("data store failure")
)

// Course Errors
var (
	ErrCourseNotFound      = NewCustomError(ErrResourceNotFound, "course not found")
	ErrCourseAlreadyExists = NewCustomError(ErrResourceAlreadyExists, "course with this code and name already exists")
)

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// StoreError is a connectivity or constraint failure reported by the data store.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

// NewStoreError wraps err as a StoreError for the given operation.
// Message is the server-side text when err comes from PostgreSQL.
func NewStoreError(op string, err error) *StoreError {
	msg := "unknown store error"
	if err != nil {
		msg = dberrors.Message(err)
	}
	return &StoreError{Op: op, Message: msg, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes the driver error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes every StoreError match ErrStore.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// ResolutionError reports a store failure while looking up or creating a course.
type ResolutionError struct {
	CourseCode string
	CourseName string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve course %s (%s): %v", e.CourseCode, e.CourseName, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError collects field constraint violations found before any I/O.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

// Is makes every ValidationError match ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// HasField reports whether the given field failed validation.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// SubmissionError reports a failed review submission. Cause is safe to show to the user.
type SubmissionError struct {
	Cause string
	Err   error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Cause
	}
	return e.Cause + ": " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
