package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by Unavailable when no provider could be built.
var ErrNotConfigured = errors.New("llm provider not configured")

// Unavailable stands in for a provider that failed to initialise, so the
// server can still start and report the failure on each chat request.
type Unavailable struct {
	Reason error
}

// Chat always fails.
func (u Unavailable) Chat(ctx context.Context, message string) (string, error) {
	return "", u.err()
}

// StreamChat always fails without invoking the callback.
func (u Unavailable) StreamChat(ctx context.Context, message string, callback func(chunk string) error) error {
	return u.err()
}

func (u Unavailable) err() error {
	if u.Reason == nil {
		return ErrNotConfigured
	}
	return fmt.Errorf("%w: %v", ErrNotConfigured, u.Reason)
}
