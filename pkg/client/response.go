package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/darim/imageform/pkg/blob"
)

// OutcomeKind classifies how a submission settled.
type OutcomeKind string

const (
	// OutcomeImage means an image was received and displayed.
	OutcomeImage OutcomeKind = "image"
	// OutcomeServerError means the API answered with a JSON error.
	OutcomeServerError OutcomeKind = "server_error"
	// OutcomeThrottled means the API answered with something that is neither
	// an image nor JSON, which it does when rate limiting.
	OutcomeThrottled OutcomeKind = "throttled"
	// OutcomeFailed means the request or response handling raised an error.
	OutcomeFailed OutcomeKind = "failed"
	// OutcomeCanceled means the caller canceled before the cycle completed.
	OutcomeCanceled OutcomeKind = "canceled"
)

// Outcome describes a settled submission.
type Outcome struct {
	Kind OutcomeKind
	// URL is the object URL of the received image.
	URL string
	// ContentType is the response Content-Type header.
	ContentType string
	// StatusCode is the HTTP status, zero when no response arrived.
	StatusCode int
	// Message is the alert shown to the user, if any.
	Message string
	Err     error
}

const jsonMediaType = "application/json"

// interpret applies the content-type policy to resp.
func (c *Client) interpret(ctx context.Context, resp *http.Response) (Outcome, error) {
	contentType := resp.Header.Get("Content-Type")
	out := Outcome{ContentType: contentType, StatusCode: resp.StatusCode}

	switch {
	case strings.HasPrefix(strings.ToLower(contentType), "image/"):
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return out, fmt.Errorf("client: read image body: %w", err)
		}
		out.Kind = OutcomeImage
		out.URL = c.blobs.Create(blob.Blob{Type: contentType, Data: data})
		c.slot.SetImage(out.URL)
		return out, nil

	case mediaType(contentType) == jsonMediaType:
		var payload ErrorPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return out, fmt.Errorf("client: decode error body: %w", err)
		}
		out.Kind = OutcomeServerError
		out.Message = c.messages.ServerError(payload.Error)
		c.alert(ctx, out.Message)
		return out, nil

	default:
		out.Kind = OutcomeThrottled
		out.Message = c.messages.Throttled
		c.alert(ctx, out.Message)
		return out, nil
	}
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
