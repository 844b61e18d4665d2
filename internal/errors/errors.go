package errors

import (
	"fmt"
	"time"
)

// Error types for the pipeline
type ErrorType string

const (
	// Input errors reported before any parsing is attempted
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeLanguage ErrorType = "unknown_language"

	// Grammar-engine and build errors
	ErrorTypeParse ErrorType = "parse"
	ErrorTypeBuild ErrorType = "build"

	// Downstream stage errors
	ErrorTypeCompliance ErrorType = "compliance"
	ErrorTypeSymbols    ErrorType = "symbols"
	ErrorTypeResolve    ErrorType = "resolve"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// BuildError represents a failure while turning one file into an AST.
// Recoverable errors leave a usable partial result; unrecoverable ones mean
// no AST was produced for the file.
type BuildError struct {
	Type        ErrorType
	FilePath    string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewBuildError creates a new build error with context
func NewBuildError(op string, err error) *BuildError {
	return &BuildError{
		Type:       ErrorTypeBuild,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithType overrides the error classification
func (e *BuildError) WithType(t ErrorType) *BuildError {
	e.Type = t
	return e
}

// WithFile adds file information to the error
func (e *BuildError) WithFile(path string) *BuildError {
	e.FilePath = path
	return e
}

// WithRecoverable marks the error as recoverable
func (e *BuildError) WithRecoverable(recoverable bool) *BuildError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *BuildError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable checks if processing can continue past the error
func (e *BuildError) IsRecoverable() bool {
	return e.Recoverable
}

// InputError represents a rejected input: missing file, empty content,
// undetectable language, invalid encoding. Raised before any parse attempt.
type InputError struct {
	Type       ErrorType
	FilePath   string
	Reason     string
	Underlying error
	Timestamp  time.Time
}

// NewInputError creates a new input error
func NewInputError(path, reason string, err error) *InputError {
	return &InputError{
		Type:       ErrorTypeInput,
		FilePath:   path,
		Reason:     reason,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewUnknownLanguageError rejects a file whose language cannot be detected
func NewUnknownLanguageError(path string) *InputError {
	return &InputError{
		Type:      ErrorTypeLanguage,
		FilePath:  path,
		Reason:    "unrecognized file extension",
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *InputError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("rejected input %s: %s: %v", e.FilePath, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("rejected input %s: %s", e.FilePath, e.Reason)
}

// Unwrap returns the underlying error
func (e *InputError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates per-file errors from a batch run
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, dropping nil entries
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
