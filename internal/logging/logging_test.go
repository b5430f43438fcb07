package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for level, want := range cases {
		for _, format := range []string{"json", "console", ""} {
			logger, err := New(level, format)
			if err != nil {
				t.Fatalf("new(%q, %q): %v", level, format, err)
			}
			if !logger.Core().Enabled(want) {
				t.Fatalf("level %s should be enabled for %q", want, level)
			}
			if want > zapcore.DebugLevel && logger.Core().Enabled(want-1) {
				t.Fatalf("level %s should be disabled for %q", want-1, level)
			}
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("verbose", "json"); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
