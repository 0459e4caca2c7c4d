// Package errors provides a lightweight structured error type (PostIndexError)
// for category-based classification and retry semantics in the loader and CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a postindex error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Content loading errors
	CategoryContent    ErrorCategory = "content"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryStorage    ErrorCategory = "storage"
	CategoryGit        ErrorCategory = "git"

	// Runtime and infrastructure errors
	CategoryNetwork  ErrorCategory = "network"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// PostIndexError is a structured error with category, retryability, and context
type PostIndexError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PostIndexError
type ContextFields map[string]any

// Error implements the error interface
func (e *PostIndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PostIndexError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PostIndexError) WithContext(key string, value any) *PostIndexError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new PostIndexError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PostIndexError {
	return &PostIndexError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new PostIndexError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PostIndexError {
	return &PostIndexError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapRetryable creates a new retryable PostIndexError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *PostIndexError {
	return &PostIndexError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// As extracts the outermost PostIndexError from an error chain.
func As(err error) (*PostIndexError, bool) {
	var pie *PostIndexError
	if stdErrors.As(err, &pie) {
		return pie, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if pie, ok := As(err); ok {
		return pie.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if pie, ok := As(err); ok {
		return pie.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a PostIndexError
func GetCategory(err error) ErrorCategory {
	if pie, ok := As(err); ok {
		return pie.Category
	}
	return CategoryInternal
}
