package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darim/imageform/pkg/model"
	"github.com/darim/imageform/pkg/payload"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestSession_BuildsPayloadFromPrompts(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.png")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	form := model.Form{
		Name:     "compose",
		Endpoint: "compose",
		Fields: model.FieldDescriptors{
			"baseImage":  model.FieldKindFiles,
			"imageList":  model.FieldKindFiles,
			"imagesSize": model.FieldKindValue,
		},
		Labels: map[string]string{"imageList": "Block images"},
	}

	// Prompts follow sorted field ids: baseImage, imageList, imagesSize.
	driver := &stubDriver{inputs: []string{first, first + " , " + second, "32"}}
	session, err := ForForm(form, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	p, err := payload.Build(context.Background(), form.Fields, session)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Count("baseImage") != 1 || p.Count("imageList") != 2 || p.Count("imagesSize") != 1 {
		t.Fatalf("unexpected entry counts: %d %d %d", p.Count("baseImage"), p.Count("imageList"), p.Count("imagesSize"))
	}

	wantPrompts := []string{"baseImage", "Block images", "imagesSize"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_BlankFilesAnswerSelectsNothing(t *testing.T) {
	session, _ := NewSession(WithPromptDriver(&stubDriver{inputs: []string{"  "}}))
	files, err := session.Files(context.Background(), "baseImage")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %d", len(files))
	}
}

func TestSession_MissingFileFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.png")
	session, _ := NewSession(WithPromptDriver(&stubDriver{inputs: []string{missing}}))
	if _, err := session.Files(context.Background(), "baseImage"); err == nil {
		t.Fatalf("expected read error")
	}
	if err := validatePaths(missing); err == nil {
		t.Fatalf("expected validator to reject missing path")
	}
}

func TestSession_AlertsAndChoices(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 5}, confirm: []bool{true}}
	session, _ := NewSession(WithPromptDriver(driver), WithTheme(Theme{AlertPrefix: "! ", InfoPrefix: "> "}))

	ctx := context.Background()
	_ = session.Alert(ctx, "Error: too large")
	_ = session.Info(ctx, "saved")
	if diff := cmp.Diff([]string{"! Error: too large", "> saved"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	choice, err := session.Choose(ctx, "Form", []string{"jpeg", "resize"})
	if err != nil || choice != "resize" {
		t.Fatalf("choose = %q, %v", choice, err)
	}
	if _, err := session.Choose(ctx, "Form", []string{"jpeg"}); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := session.Choose(ctx, "Form", nil); err == nil {
		t.Fatalf("expected error for empty options")
	}

	again, err := session.Confirm(ctx, "Again?", false)
	if err != nil || !again {
		t.Fatalf("confirm = %v, %v", again, err)
	}
}

func TestSession_DriverErrorsPropagate(t *testing.T) {
	session, _ := NewSession(WithPromptDriver(&stubDriver{}))
	if _, err := session.Value(context.Background(), "quality"); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestErrAbortedIsCancellation(t *testing.T) {
	wrapped := fmt.Errorf("payload: files for %q: %w", "baseImage", ErrAborted)
	if !errors.Is(wrapped, ErrAborted) || !errors.Is(wrapped, context.Canceled) {
		t.Fatalf("aborted prompt should match ErrAborted and context.Canceled: %v", wrapped)
	}
}

func TestSplitPaths(t *testing.T) {
	got := SplitPaths(" a.png,, b.png ,")
	if diff := cmp.Diff([]string{"a.png", "b.png"}, got); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
}
