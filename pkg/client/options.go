package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/darim/imageform/pkg/blob"
	"github.com/darim/imageform/pkg/ui"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for submissions.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout caps each submission. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithSlot sets the image display slot updated by submissions.
func WithSlot(slot *ui.Slot) Option {
	return func(c *Client) {
		if slot != nil {
			c.slot = slot
		}
	}
}

// WithControl sets the submit control toggled around each request.
func WithControl(control *ui.Control) Option {
	return func(c *Client) {
		if control != nil {
			c.control = control
		}
	}
}

// WithNotifier sets the alert surface.
func WithNotifier(n ui.Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithBlobStore sets the store used to mint object URLs for received images.
// The slot created by default revokes through the same store.
func WithBlobStore(store *blob.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.blobs = store
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMessages overrides alert texts. Blank fields keep their defaults.
func WithMessages(m Messages) Option {
	return func(c *Client) {
		c.messages = m.Resolve()
	}
}
