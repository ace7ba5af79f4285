// Package errors provides custom error types for the curator system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the curator system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a curation whose preconditions do not hold against a sample
	ErrConflict = errors.New("curation conflict")

	// ErrLookupFailed indicates an inconclusive ontology lookup
	ErrLookupFailed = errors.New("ontology lookup failed")

	// ErrTaskFailed indicates that processing of a single sample was aborted
	ErrTaskFailed = errors.New("task failed")

	// ErrStoreFailed indicates that a curation could not be persisted
	ErrStoreFailed = errors.New("store failed")

	// ErrNoConvergence indicates that a fixpoint loop exceeded its iteration budget
	ErrNoConvergence = errors.New("no convergence")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrProviderUnavailable indicates that a remote service is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConflictError is returned when a curation cannot be applied to a sample
// because the sample has diverged from what the curation expects.
type ConflictError struct {
	Sample      string
	Curation    string   // curation content hash
	MissingPre  []string // pre entries absent from the sample
	PresentPost []string // post entries already on the sample
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	var parts []string
	if len(e.MissingPre) > 0 {
		parts = append(parts, fmt.Sprintf("missing pre %v", e.MissingPre))
	}
	if len(e.PresentPost) > 0 {
		parts = append(parts, fmt.Sprintf("post already present %v", e.PresentPost))
	}
	return fmt.Sprintf("curation %s conflicts with sample %s: %s", e.Curation, e.Sample, strings.Join(parts, "; "))
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// LookupError represents an inconclusive ontology lookup. Rules treat it as
// "skip this step", never as a definitive answer.
type LookupError struct {
	Operation string // "resolve", "validate"
	Term      string
	Err       error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("ontology %s of %s failed: %v", e.Operation, e.Term, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed
}

// NewLookupError creates a new LookupError
func NewLookupError(operation, term string, err error) *LookupError {
	return &LookupError{Operation: operation, Term: term, Err: err}
}

// TaskError wraps whatever aborted the processing of one sample.
type TaskError struct {
	Sample    string
	Phase     string
	Committed int // curations committed before the failure
	Err       error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("sample %s failed in %s after %d curations: %v", e.Sample, e.Phase, e.Committed, e.Err)
	}
	return fmt.Sprintf("sample %s failed after %d curations: %v", e.Sample, e.Committed, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TaskError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TaskError) Is(target error) bool {
	return target == ErrTaskFailed
}

// StoreError represents a persistence failure.
type StoreError struct {
	Operation string // "persist", "read"
	Sample    string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s for sample %s: %v", e.Operation, e.Sample, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreFailed
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, sample string, err error) *StoreError {
	return &StoreError{Operation: operation, Sample: sample, Err: err}
}

// ConvergenceError is returned when a fixpoint loop runs past its budget.
type ConvergenceError struct {
	Sample     string
	Phase      string
	Iterations int
}

// Error implements the error interface
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s for sample %s did not converge after %d iterations", e.Phase, e.Sample, e.Iterations)
}

// Is implements errors.Is support
func (e *ConvergenceError) Is(target error) bool {
	return target == ErrNoConvergence
}

// APIError represents an error from a remote HTTP API
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict checks if an error is a curation conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsLookupError checks if an error is an inconclusive ontology lookup
func IsLookupError(err error) bool {
	return errors.Is(err, ErrLookupFailed)
}

// IsStoreError checks if an error is a persistence failure
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreFailed)
}

// IsTaskError checks if an error aborted a sample task
func IsTaskError(err error) bool {
	return errors.Is(err, ErrTaskFailed)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapStore wraps an error as a StoreError
func WrapStore(operation, sample string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(operation, sample, err)
}
