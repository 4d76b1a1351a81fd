// Package logging builds the zap loggers used by the autocache binary and tests.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsole returns a human-readable logger writing to stdout at level.
func NewConsole(level zapcore.Level) *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(consoleCore)
}

// NewTest returns a console logger at debug level.
func NewTest() *zap.Logger {
	return NewConsole(zap.DebugLevel)
}

// New parses level ("debug", "info", "warn", "error") and returns a console
// logger for it.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewConsole(lvl), nil
}
