package apperr

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ErrStrictAbort marks a run stopped on its first failure.
var ErrStrictAbort = errors.New("run aborted in strict mode")

// FetchFailedError is returned when a source cannot retrieve or decode provider data.
type FetchFailedError struct {
	Source string
	Err    error
}

func (e *FetchFailedError) Error() string {
	if e.Err != nil {
		return "fetch failed for " + e.Source + ": " + e.Err.Error()
	}
	return "fetch failed for " + e.Source
}

func (e *FetchFailedError) Unwrap() error {
	return e.Err
}

func NewFetchFailed(source string, err error) *FetchFailedError {
	return &FetchFailedError{Source: source, Err: err}
}

// Write operations reported by WriteFailedError.
const (
	OpInsertArticles   = "insert_articles"
	OpCreateAttributes = "create_attributes"
	OpMarkFingerprint  = "mark_fingerprint"
	OpCheckFingerprint = "check_fingerprint"
)

// WriteFailedError is returned when the persistence gateway rejects a write.
type WriteFailedError struct {
	Op    string
	Count int
	Err   error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("write failed (%s, %d records): %v", e.Op, e.Count, e.Err)
}

func (e *WriteFailedError) Unwrap() error {
	return e.Err
}

func NewWriteFailed(op string, count int, err error) *WriteFailedError {
	return &WriteFailedError{Op: op, Count: count, Err: err}
}
