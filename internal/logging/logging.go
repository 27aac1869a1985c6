// Package logging configures the application's structured loggers.
// It provides a human-readable Text logger on stderr and rotating
// JSON file loggers for individual services.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var humanReadableLogger *slog.Logger

// Init initializes the logging system. It configures Text output to stderr
// for human-readable logs and installs it as the slog default.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	humanReadableHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	humanReadableLogger = slog.New(humanReadableHandler)
	slog.SetDefault(humanReadableLogger)
}

// HumanReadable returns the globally configured human-readable logger.
// Returns the slog default if Init has not been called.
func HumanReadable() *slog.Logger {
	if humanReadableLogger == nil {
		return slog.Default()
	}
	return humanReadableLogger
}

// ForService creates a new logger instance with the 'service' attribute added.
func ForService(serviceName string) *slog.Logger {
	return HumanReadable().With("service", serviceName)
}

// NewFileLogger creates a slog.Logger writing JSON logs to the given file,
// rotated by lumberjack. It includes a 'service' attribute in all records.
// It returns the logger, a function to close the underlying writer, and an
// error if setup fails.
func NewFileLogger(filePath, serviceName string, level slog.Leveler) (*slog.Logger, func() error, error) {
	// lumberjack does not create directories
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	fileHandler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level})
	logger := slog.New(fileHandler).With("service", serviceName)

	return logger, logWriter.Close, nil
}
