// Package logging builds the structured logger used across the pipeline.
// The logger can be reconfigured from the logging side-channel projection
// of a prepared environment (keys "level" and "format").
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production-ready structured logger configured for JSON output.
func New() (*zap.Logger, error) {
	return build(zap.InfoLevel, "json")
}

// FromProperties creates a logger configured from a logging projection map:
// "level" selects the minimum level, "format" the encoding ("json" or
// "console"). Missing keys fall back to the defaults used by New.
func FromProperties(properties map[string]any) (*zap.Logger, error) {
	level := zap.InfoLevel
	if raw, ok := properties["level"]; ok {
		parsed, err := zapcore.ParseLevel(fmt.Sprintf("%v", raw))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	encoding := "json"
	if raw, ok := properties["format"]; ok {
		encoding = fmt.Sprintf("%v", raw)
	}

	return build(level, encoding)
}

func build(level zapcore.Level, encoding string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = encoding
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
