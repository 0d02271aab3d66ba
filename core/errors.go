package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FailedItem identifies a single record that could not be written during a
// fan-out operation, along with the reason.
type FailedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// PartialError reports the outcome of a fan-out of independent store writes
// where some, but not all, succeeded. The caller may retry just the failed
// subset; nothing is retried automatically.
type PartialError struct {
	Op        string       `json:"op"`
	Succeeded int          `json:"succeeded"`
	Failed    []FailedItem `json:"failed"`
}

func NewPartialError(op string, succeeded int, failed []FailedItem) error {
	return &PartialError{Op: op, Succeeded: succeeded, Failed: failed}
}

func (err PartialError) Error() string {
	return fmt.Sprintf("%s: %d succeeded, %d failed", err.Op, err.Succeeded, len(err.Failed))
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
