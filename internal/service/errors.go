package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBusy is returned when a chat request arrives while another is still being answered.
	ErrBusy = errors.New("a reply is already in progress")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")

	errEmptyStream = errors.New("stream ended without any text")
)

// FallbackReply is shown in place of a model reply when the provider fails.
const FallbackReply = "Sorry, I encountered an error. Please check your API key and try again."

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// externalError marks err as a provider failure while keeping the original cause.
func externalError(err error, msg string) error {
	return WrapError(fmt.Errorf("%w: %w", ErrExternalService, err), msg)
}
