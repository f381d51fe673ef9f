// Package errors provides custom error types for the scrydex system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the library.
//
// Lookups never fail with an error for data absence: a missing card is a
// NotFoundError and an ambiguous name is an AmbiguousError, both first-class
// results the caller is expected to branch on. Genuine failures (network,
// parse, disk) carry their own types so a caller can distinguish "not found"
// from "infrastructure broke".
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the scrydex system
var (
	// ErrNotFound indicates that a requested card was not found
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous indicates that a name matched more than one distinct printing
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrNoSnapshot indicates that no catalog snapshot exists yet; this is a
	// normal state on first run, not a failure
	ErrNoSnapshot = errors.New("no catalog snapshot")

	// ErrRefreshInProgress indicates that a catalog refresh is already running
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrNetwork indicates a network-level failure (timeout, DNS, non-2xx)
	ErrNetwork = errors.New("network failure")

	// ErrParse indicates downloaded or persisted data was malformed
	ErrParse = errors.New("parse failure")

	// ErrDisk indicates the snapshot file could not be read or written
	ErrDisk = errors.New("disk failure")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents a query that had no match.
type NotFoundError struct {
	Resource string // "card", "printing", "bulk data"
	Query    string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s matching %q not found", e.Resource, e.Query)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, query string) *NotFoundError {
	return &NotFoundError{Resource: resource, Query: query}
}

// AmbiguousError represents a name shared by multiple distinct printings.
// Matches holds the colliding printings as "set/number" keys in the
// documented disambiguation order, newest release first.
type AmbiguousError struct {
	Name    string
	Matches []string
}

// Error implements the error interface
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("name %q matches %d printings: %v", e.Name, len(e.Matches), e.Matches)
}

// Is implements errors.Is support
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// APIError represents an error from the card data API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return target == ErrNetwork
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ParseError represents an error when parsing data formats.
type ParseError struct {
	Format  string // "json", "bulk data"
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

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during snapshot file I/O.
type IOError struct {
	Operation string // "read", "write", "create", "rename", "stat"
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

// Is implements errors.Is support
func (e *IOError) Is(target error) bool {
	return target == ErrDisk
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

// TimeoutError represents an operation timeout.
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support; a timeout is also a network failure for
// callers that only care about the coarse classification.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrNetwork
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// ValidationError represents invalid caller input.
type ValidationError struct {
	Field   string
	Value   interface{}
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
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found result
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguous checks if an error is an ambiguous match result
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsNoSnapshot checks if an error is the normal missing-snapshot state
func IsNoSnapshot(err error) bool {
	return errors.Is(err, ErrNoSnapshot)
}

// IsRefreshInProgress checks if an error is a rejected concurrent refresh
func IsRefreshInProgress(err error) bool {
	return errors.Is(err, ErrRefreshInProgress)
}

// IsNetworkFailure checks if an error is a network-level failure
func IsNetworkFailure(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsParseFailure checks if an error is a data parse failure
func IsParseFailure(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsDiskFailure checks if an error is a snapshot file I/O failure
func IsDiskFailure(err error) bool {
	return errors.Is(err, ErrDisk)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

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

// WrapAPI wraps an error as an APIError
func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
