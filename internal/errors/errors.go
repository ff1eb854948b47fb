// Package errors provides the tagged error kinds used across the news
// intelligence and constitutional decision cores.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for conditions with no extra context to carry.
var (
	ErrRateLimited     = errors.New("rate limited")
	ErrConnectionFailed = errors.New("connection failed")
	ErrTimeout         = errors.New("operation timed out")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrDataNotFound    = errors.New("data not found")
	ErrDatabaseError   = errors.New("database error")
)

// IngestFailure wraps a repository I/O or source-read error encountered
// while pulling unprocessed Articles.
type IngestFailure struct {
	Stage string // e.g. "find_unprocessed", "mark_analyzed"
	Err   error
}

func (e *IngestFailure) Error() string {
	return fmt.Sprintf("ingest failure [%s]: %v", e.Stage, e.Err)
}

func (e *IngestFailure) Unwrap() error { return e.Err }

// NewIngestFailure creates a new IngestFailure.
func NewIngestFailure(stage string, err error) *IngestFailure {
	return &IngestFailure{Stage: stage, Err: err}
}

// CompletionFailure indicates the Completer call failed, timed out, or
// returned malformed output. It triggers the text-based fallback parser.
type CompletionFailure struct {
	Provider string
	Err      error
}

func (e *CompletionFailure) Error() string {
	return fmt.Sprintf("completion failure [%s]: %v", e.Provider, e.Err)
}

func (e *CompletionFailure) Unwrap() error { return e.Err }

// NewCompletionFailure creates a new CompletionFailure.
func NewCompletionFailure(provider string, err error) *CompletionFailure {
	return &CompletionFailure{Provider: provider, Err: err}
}

// ParseFailure indicates the Analysis JSON returned by a Completer was
// malformed; the caller should fall back to the keyword heuristic parser.
type ParseFailure struct {
	Raw string
	Err error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse failure: %v (raw: %.80q)", e.Err, e.Raw)
}

func (e *ParseFailure) Unwrap() error { return e.Err }

// NewParseFailure creates a new ParseFailure.
func NewParseFailure(raw string, err error) *ParseFailure {
	return &ParseFailure{Raw: raw, Err: err}
}

// ConstitutionalViolation is recorded (not necessarily returned as a Go
// error up a call stack) when the Constitution vetoes a Proposal. It
// carries the cited rule/article identifiers for the notification sink.
type ConstitutionalViolation struct {
	RuleBlock      string
	Reason         string
	CitedArticles  []string
}

func (e *ConstitutionalViolation) Error() string {
	return fmt.Sprintf("constitutional violation [%s]: %s", e.RuleBlock, e.Reason)
}

// NewConstitutionalViolation creates a new ConstitutionalViolation.
func NewConstitutionalViolation(ruleBlock, reason string, cited []string) *ConstitutionalViolation {
	return &ConstitutionalViolation{RuleBlock: ruleBlock, Reason: reason, CitedArticles: cited}
}

// KillSwitchTriggered is a latched condition: once raised, the Signal
// Validator rejects every subsequent call until an operator resets it.
type KillSwitchTriggered struct {
	Reason string
}

func (e *KillSwitchTriggered) Error() string {
	return fmt.Sprintf("kill switch triggered: %s", e.Reason)
}

// NewKillSwitchTriggered creates a new KillSwitchTriggered.
func NewKillSwitchTriggered(reason string) *KillSwitchTriggered {
	return &KillSwitchTriggered{Reason: reason}
}

// IntegrityFailure is raised when the Constitution's rule-source digest does
// not match the pinned digest at startup. It is non-recoverable.
type IntegrityFailure struct {
	Expected string
	Actual   string
}

func (e *IntegrityFailure) Error() string {
	return fmt.Sprintf("constitution integrity check failed: expected %s, got %s", e.Expected, e.Actual)
}

// NewIntegrityFailure creates a new IntegrityFailure.
func NewIntegrityFailure(expected, actual string) *IntegrityFailure {
	return &IntegrityFailure{Expected: expected, Actual: actual}
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// DataError represents a data-related error (repository / parsing layer).
type DataError struct {
	DataType string
	ID       string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.ID, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.ID, e.Message)
}

func (e *DataError) Unwrap() error { return e.Err }

// NewDataError creates a new DataError.
func NewDataError(dataType, id, message string, err error) *DataError {
	return &DataError{DataType: dataType, ID: id, Message: message, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }
