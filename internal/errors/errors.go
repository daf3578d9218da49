// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound    = errors.New("trade not found")
	ErrDuplicateTradeID = errors.New("duplicate trade id")
	ErrNoPendingTrades  = errors.New("no pending trades")
	ErrPhotoLimit       = errors.New("photo limit reached")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrNotConfigured    = errors.New("not configured")
)

// ValidationError represents malformed user input. It is always
// recoverable: the flow re-prompts instead of aborting.
type ValidationError struct {
	Field string
	Value string
	Hint  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%q): %s", e.Field, e.Value, e.Hint)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value, hint string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Hint: hint}
}

// StoreError represents a persistence failure. The conversation flow
// aborts and no partial record may remain.
type StoreError struct {
	Op      string
	TradeID string
	Err     error
}

func (e *StoreError) Error() string {
	if e.TradeID != "" {
		return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.TradeID, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, tradeID string, err error) *StoreError {
	return &StoreError{Op: op, TradeID: tradeID, Err: err}
}

// PublishError represents a failed journal-channel announcement after a
// successful persist. It signals partial success and never rolls the
// persist back.
type PublishError struct {
	ChatID int64
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish error [chat %d]: %v", e.ChatID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// NewPublishError creates a new PublishError.
func NewPublishError(chatID int64, err error) *PublishError {
	return &PublishError{ChatID: chatID, Err: err}
}

// TransportError represents a chat transport API failure.
type TransportError struct {
	Method      string
	StatusCode  int
	Description string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s] status %d: %s", e.Method, e.StatusCode, e.Description)
}

// NewTransportError creates a new TransportError.
func NewTransportError(method string, statusCode int, description string) *TransportError {
	return &TransportError{Method: method, StatusCode: statusCode, Description: description}
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
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
