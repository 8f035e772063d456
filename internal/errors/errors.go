// Package errors provides sentinel error definitions for the entire project.
//
// This file provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Type resolution errors
	ErrTypeResolution = errors.New("no comparison support for type")
	ErrUnknownType    = errors.New("unknown type")
	ErrTypeMismatch   = errors.New("type mismatch")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrNilEngine    = errors.New("engine not initialized")

	// Codec errors
	ErrCorruptData   = errors.New("corrupt serialized state")
	ErrShortBuffer   = errors.New("serialized state truncated")
	ErrTrailingBytes = errors.New("trailing bytes after serialized state")

	// Validation errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidValue  = errors.New("invalid value")

	// Source errors
	ErrSourceClosed = errors.New("source is closed")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsTypeResolution returns true if err is a type-resolution error.
func IsTypeResolution(err error) bool {
	return errors.Is(err, ErrTypeResolution) ||
		errors.Is(err, ErrUnknownType)
}

// IsStateError returns true if err is a state-related error.
func IsStateError(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrNilEngine)
}

// IsCorruptData returns true if err indicates malformed serialized state.
func IsCorruptData(err error) bool {
	return errors.Is(err, ErrCorruptData) ||
		errors.Is(err, ErrShortBuffer) ||
		errors.Is(err, ErrTrailingBytes)
}

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidValue)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

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

// ============================================================================
// Error constructors with context
// ============================================================================

// NewTypeResolution creates a type-resolution error naming the type.
func NewTypeResolution(typeName string) error {
	return fmt.Errorf("type %s: %w", typeName, ErrTypeResolution)
}

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}

// NewCorrupt creates a corrupt-data error with context.
func NewCorrupt(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrCorruptData)
}
