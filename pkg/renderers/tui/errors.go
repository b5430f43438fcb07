package tui

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C). It matches
	// context.Canceled so callers treat it like any other cancellation.
	ErrAborted = fmt.Errorf("tui: aborted: %w", context.Canceled)
	// ErrNoDriver is returned when a prompt driver could not be constructed.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
)
