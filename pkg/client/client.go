// Package client runs one request/response cycle per form submission against
// the image API: build a multipart payload, POST it once, and route the
// response to the display slot or the alert surface.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/darim/imageform/pkg/blob"
	"github.com/darim/imageform/pkg/endpoint"
	"github.com/darim/imageform/pkg/model"
	"github.com/darim/imageform/pkg/payload"
	"github.com/darim/imageform/pkg/ui"
)

// Client holds the injected API URL and the interface state shared by every
// form attached to it.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	slot     *ui.Slot
	control  *ui.Control
	notifier ui.Notifier
	blobs    *blob.Store
	logger   *zap.Logger
	messages Messages

	// inflight guards the shared control: one submission per client.
	inflight atomic.Bool
}

// New constructs a Client for the resolved API base URL. Unset collaborators
// get defaults: http.DefaultClient, a fresh blob store, a slot revoking
// through that store, an enabled control, a no-op logger and an alert
// surface that discards messages.
func New(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL:  baseURL,
		http:     http.DefaultClient,
		messages: DefaultMessages(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.blobs == nil {
		c.blobs = blob.NewStore("")
	}
	if c.slot == nil {
		c.slot = ui.NewSlot(ui.DefaultPlaceholder, c.blobs)
	}
	if c.control == nil {
		c.control = ui.NewControl()
	}
	if c.notifier == nil {
		c.notifier = ui.NotifierFunc(func(context.Context, string) error { return nil })
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// BaseURL returns the API URL submissions are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Slot returns the image display slot.
func (c *Client) Slot() *ui.Slot { return c.slot }

// Control returns the submit control.
func (c *Client) Control() *ui.Control { return c.control }

// Blobs returns the object URL store.
func (c *Client) Blobs() *blob.Store { return c.blobs }

// InFlight reports whether any attached form has a submission pending.
func (c *Client) InFlight() bool { return c.inflight.Load() }

// Submitter is the submit handler for one attached form.
type Submitter struct {
	client   *Client
	fields   model.FieldDescriptors
	endpoint string
	url      string
}

// Attach binds a descriptor map and endpoint path to the client. The map is
// copied; later changes by the caller do not affect the Submitter.
func (c *Client) Attach(fields model.FieldDescriptors, endpointPath string) (*Submitter, error) {
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	url, err := endpoint.Join(c.baseURL, endpointPath)
	if err != nil {
		return nil, fmt.Errorf("client: attach: %w", err)
	}
	return &Submitter{
		client:   c,
		fields:   fields.Clone(),
		endpoint: strings.Trim(strings.TrimSpace(endpointPath), "/"),
		url:      url,
	}, nil
}

// AttachForm is Attach for a catalogue form.
func (c *Client) AttachForm(form model.Form) (*Submitter, error) {
	return c.Attach(form.Fields, form.Endpoint)
}

// URL returns the full request URL.
func (s *Submitter) URL() string { return s.url }

// Fields returns a copy of the attached descriptor map.
func (s *Submitter) Fields() model.FieldDescriptors { return s.fields.Clone() }

// InFlight reports whether a submission is pending on the client this form
// is attached to.
func (s *Submitter) InFlight() bool { return s.client.InFlight() }

// Submit runs one submission cycle with the current values from src.
//
// Server errors and throttle responses are alerted and reported through the
// Outcome with a nil error. Transport and parse failures are logged, alerted
// with the generic message and returned. Cancellation is returned as
// OutcomeCanceled without an alert. A call made while any form of the same
// client is pending returns ErrSubmissionInFlight without touching the
// request or the interface.
func (s *Submitter) Submit(ctx context.Context, src payload.FieldSource) (Outcome, error) {
	c := s.client
	if !c.inflight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmissionInFlight
	}
	defer c.inflight.Store(false)

	log := c.logger.With(zap.String("endpoint", s.endpoint))

	p, err := payload.Build(ctx, s.fields, src)
	if err != nil {
		return c.fail(ctx, log, Outcome{}, err)
	}
	body, contentType, err := p.Encode()
	if err != nil {
		return c.fail(ctx, log, Outcome{}, err)
	}

	c.slot.ShowPlaceholder()
	c.control.Disable()
	defer c.settle()

	log.Debug("submitting form", zap.String("url", s.url), zap.Int("parts", p.Len()), zap.Int("bytes", len(body)))

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return c.fail(ctx, log, Outcome{}, fmt.Errorf("client: build request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(ctx, log, Outcome{}, fmt.Errorf("client: post %s: %w", s.url, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := c.interpret(ctx, resp)
	if err != nil {
		return c.fail(ctx, log, out, err)
	}
	log.Debug("submission settled", zap.String("outcome", string(out.Kind)), zap.Int("status", out.StatusCode))
	return out, nil
}

// settle restores the control and drops a placeholder nothing replaced.
func (c *Client) settle() {
	c.control.Enable()
	c.slot.ClearIfPlaceholder()
}

func (c *Client) fail(ctx context.Context, log *zap.Logger, out Outcome, err error) (Outcome, error) {
	out.Err = err
	if errors.Is(err, context.Canceled) {
		log.Debug("submission canceled", zap.Error(err))
		out.Kind = OutcomeCanceled
		return out, err
	}
	log.Error("submission failed", zap.Error(err))
	out.Kind = OutcomeFailed
	out.Message = c.messages.Generic
	c.alert(ctx, out.Message)
	return out, err
}

func (c *Client) alert(ctx context.Context, message string) {
	if err := c.notifier.Alert(ctx, message); err != nil {
		c.logger.Warn("alert not delivered", zap.String("message", message), zap.Error(err))
	}
}
