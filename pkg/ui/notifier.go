package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier presents a blocking message to the user.
type Notifier interface {
	Alert(ctx context.Context, message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string) error

func (f NotifierFunc) Alert(ctx context.Context, message string) error {
	return f(ctx, message)
}

// WriterNotifier prints alerts, one per line, with an optional prefix.
type WriterNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewWriterNotifier returns a notifier writing to w.
func NewWriterNotifier(w io.Writer, prefix string) *WriterNotifier {
	return &WriterNotifier{w: w, prefix: prefix}
}

func (n *WriterNotifier) Alert(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintln(n.w, n.prefix+message)
	return err
}

// Recorder keeps every alert it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Alert(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

// Messages returns the recorded alerts in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Last returns the most recent alert or an empty string.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
