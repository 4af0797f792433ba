package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "HOMEDASH_LOG_LEVEL"

// Options controls where and how much the global logger writes.
type Options struct {
	// Level is one of debug, info, warn, error. Empty falls back to
	// HOMEDASH_LOG_LEVEL, and if that is empty too logging is silent.
	Level string

	// Output is a file path, "stdout" or "stderr". Empty means stderr.
	// The interactive dashboard always passes a file so log lines never
	// tear the terminal.
	Output string
}

// Initialize creates a new logger with the specified level writing to stderr.
func Initialize(level string) error {
	return InitializeWithOptions(Options{Level: level})
}

// InitializeWithOptions creates the global logger.
func InitializeWithOptions(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := opts.Output
	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if output == "stdout" || output == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized so one-shot commands print nothing extra
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogPoll logs the outcome of one state fetch.
func LogPoll(seq uint64, elapsed time.Duration, err error) {
	if err != nil {
		Warn("State fetch failed",
			zap.Uint64("seq", seq),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}
	Debug("State fetched",
		zap.Uint64("seq", seq),
		zap.Duration("elapsed", elapsed),
	)
}

// LogStale logs a completion that arrived after a newer one was applied.
func LogStale(kind string, seq, latest uint64) {
	Debug("Dropped stale response",
		zap.String("kind", kind),
		zap.Uint64("seq", seq),
		zap.Uint64("latest", latest),
	)
}

// LogConnectivity logs a connection indicator transition.
func LogConnectivity(from, to string) {
	Info("Connectivity changed",
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogCommand logs a mutating request and its result.
func LogCommand(op string, target string, err error) {
	if err != nil {
		Warn("Command failed",
			zap.String("op", op),
			zap.String("target", target),
			zap.Error(err),
		)
		return
	}
	Info("Command sent",
		zap.String("op", op),
		zap.String("target", target),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
