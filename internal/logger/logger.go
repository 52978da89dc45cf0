package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the engine wide logger. It is a no-op logger until Init is called.
var Log *zap.Logger = zap.NewNop()

// Init sets up a development logger at info level
func Init() {
	if err := InitWithLevel("info"); err != nil {
		// info is always a valid level
		panic(err)
	}
}

// InitWithLevel sets up a development logger filtered at the given level
// ("debug", "info", "warn", "error").
func InitWithLevel(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Log = l
	return nil
}

// SetLogger replaces the engine logger, mostly used by tests
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Sync flushes buffered log entries
func Sync() {
	_ = Log.Sync()
}
