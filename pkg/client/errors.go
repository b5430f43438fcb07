package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while a
	// submission through the same Client has not settled.
	ErrSubmissionInFlight = errors.New("client: submission already in flight")
	// ErrInvalidDescriptor wraps descriptor map validation failures on Attach.
	ErrInvalidDescriptor = errors.New("client: invalid field descriptors")
	// ErrMissingBaseURL is returned by New when no API URL is configured.
	ErrMissingBaseURL = errors.New("client: api url is required")
)

// Messages holds the user-facing alert texts.
type Messages struct {
	// Generic is shown for transport and parse failures.
	Generic string
	// Throttled is shown for responses that are neither images nor JSON.
	Throttled string
	// ServerErrorFormat formats the server-reported error; it receives one
	// %s verb.
	ServerErrorFormat string
}

// DefaultMessages returns the stock alert texts.
func DefaultMessages() Messages {
	return Messages{
		Generic:           "An error occurred. Please try again.",
		Throttled:         "Too many requests. Please wait a moment before trying again.",
		ServerErrorFormat: "Error: %s",
	}
}

// Resolve fills blank texts with the stock ones.
func (m Messages) Resolve() Messages {
	defaults := DefaultMessages()
	if strings.TrimSpace(m.Generic) == "" {
		m.Generic = defaults.Generic
	}
	if strings.TrimSpace(m.Throttled) == "" {
		m.Throttled = defaults.Throttled
	}
	if !strings.Contains(m.ServerErrorFormat, "%s") {
		m.ServerErrorFormat = defaults.ServerErrorFormat
	}
	return m
}

// ServerError formats a server-reported message.
func (m Messages) ServerError(message string) string {
	return fmt.Sprintf(m.ServerErrorFormat, message)
}

// ErrorPayload is the JSON body the API sends when it rejects a request.
type ErrorPayload struct {
	Error string `json:"error"`
}
