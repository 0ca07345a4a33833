// Package logging builds the file logger shared by the server components.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrUnknownLevel is returned for a level name outside Levels.
var ErrUnknownLevel = errors.New("unknown log level")

// Levels lists the accepted level names, quietest first.
var Levels = []string{"off", "error", "warn", "info", "debug", "trace"}

// parseLevel maps a level name onto zap. off reports false.
func parseLevel(name string) (zapcore.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "off":
		return zapcore.InvalidLevel, false, nil
	case "error":
		return zapcore.ErrorLevel, true, nil
	case "warn":
		return zapcore.WarnLevel, true, nil
	case "info":
		return zapcore.InfoLevel, true, nil
	case "debug", "trace":
		return zapcore.DebugLevel, true, nil
	}
	return zapcore.InvalidLevel, false, fmt.Errorf("%w %q (want one of %s)", ErrUnknownLevel, name, strings.Join(Levels, ", "))
}

// New returns a logger appending console-encoded entries to path. Level off
// returns a no-op logger and leaves path untouched.
func New(level, path string) (*zap.Logger, error) {
	lvl, enabled, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return zap.NewNop(), nil
	}
	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return log, nil
}
