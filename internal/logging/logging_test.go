package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	_ = logger.Sync()
}

func TestFromProperties(t *testing.T) {
	logger, err := FromProperties(map[string]any{"level": "debug", "format": "console"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
	_ = logger.Sync()
}

func TestFromPropertiesInvalidLevel(t *testing.T) {
	if _, err := FromProperties(map[string]any{"level": "shouting"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}
