package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/darim/imageform/pkg/model"
	"github.com/darim/imageform/pkg/payload"
	"github.com/darim/imageform/pkg/ui"
)

// Session collects form input from a terminal and reports alerts back to it.
// It satisfies payload.FieldSource and ui.Notifier so a client submitter can
// read inputs and raise messages through the same prompt driver.
type Session struct {
	driver   PromptDriver
	theme    Theme
	labels   map[string]string
	defaults map[string]string
}

var (
	_ payload.FieldSource = (*Session)(nil)
	_ ui.Notifier         = (*Session)(nil)
)

// NewSession builds a session. Without WithPromptDriver the survey driver is
// used.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		theme:    DefaultTheme(),
		defaults: make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// ForForm returns a session labelled with the form's field labels.
func ForForm(form model.Form, opts ...Option) (*Session, error) {
	labels := make(map[string]string, len(form.Fields))
	for id := range form.Fields {
		labels[id] = form.Label(id)
	}
	return NewSession(append([]Option{WithLabels(labels)}, opts...)...)
}

// Files prompts for a comma separated list of paths. A blank answer selects
// no files.
func (s *Session) Files(ctx context.Context, id string) ([]payload.File, error) {
	answer, err := s.driver.Input(ctx, InputConfig{
		Message:   s.label(id),
		Default:   s.defaults[id],
		Help:      "Comma separated file paths, blank for none",
		Validator: validatePaths,
	})
	if err != nil {
		return nil, fmt.Errorf("tui: %s: %w", id, err)
	}

	paths := SplitPaths(answer)
	files := make([]payload.File, 0, len(paths))
	for _, path := range paths {
		file, err := payload.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// Value prompts for the field's text.
func (s *Session) Value(ctx context.Context, id string) (string, error) {
	answer, err := s.driver.Input(ctx, InputConfig{
		Message: s.label(id),
		Default: s.defaults[id],
	})
	if err != nil {
		return "", fmt.Errorf("tui: %s: %w", id, err)
	}
	return answer, nil
}

// Alert prints message through the driver.
func (s *Session) Alert(ctx context.Context, message string) error {
	return s.driver.Info(ctx, s.theme.AlertPrefix+message)
}

// Info prints a non-alert status line.
func (s *Session) Info(ctx context.Context, message string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+message)
}

// Confirm asks a yes/no question.
func (s *Session) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

// Choose asks the user to pick one of options and returns the chosen value.
func (s *Session) Choose(ctx context.Context, message string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("tui: nothing to choose from")
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: selection %d out of range", idx)
	}
	return options[idx], nil
}

func (s *Session) label(id string) string {
	if label := strings.TrimSpace(s.labels[id]); label != "" {
		return label
	}
	return id
}

// SplitPaths splits a comma separated answer, dropping blanks.
func SplitPaths(answer string) []string {
	var out []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validatePaths(answer string) error {
	for _, path := range SplitPaths(answer) {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot read %s", path)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
	}
	return nil
}
