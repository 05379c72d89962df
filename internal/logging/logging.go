package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// AppName prefixes log lines and names the debug log file.
const AppName = "intellij-mcp-server"

type AppLogger struct {
	logger *log.Logger
	debug  bool
}

// Options controls how NewAppLoggerWithOptions builds a logger.
type Options struct {
	// Debug enables debug level output to LogFile.
	Debug bool
	// LogFile overrides the debug log location. Empty means $XDG_STATE_HOME/intellij-mcp-server/server.log.
	LogFile string
	// Output is where non-debug logs go. Nil means stderr; stdout is reserved for the protocol.
	Output io.Writer
}

var (
	defaultLogger *AppLogger
	once          sync.Once
	mu            sync.Mutex
)

// GetDefault returns the default logger instance (singleton-like for convenience)
func GetDefault() *AppLogger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if defaultLogger == nil {
			defaultLogger = NewAppLogger()
		}
	})
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger
}

// SetDefault replaces the logger used by the package-level helpers.
func SetDefault(l *AppLogger) {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

// NewAppLogger builds a logger from the environment: DEBUG enables debug logging.
func NewAppLogger() *AppLogger {
	return NewAppLoggerWithOptions(Options{Debug: os.Getenv("DEBUG") != ""})
}

func NewAppLoggerWithOptions(opts Options) *AppLogger {
	var logger *log.Logger

	if opts.Debug {
		// Development: Log to file, clear on each run
		logPath := opts.LogFile
		if logPath == "" {
			var err error
			logPath, err = xdg.StateFile(AppName + "/server.log")
			if err != nil {
				panic(fmt.Sprintf("Failed to resolve debug log path: %v", err))
			}
		}

		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			panic(fmt.Sprintf("Failed to create debug log file: %v", err))
		}

		logger = log.NewWithOptions(logFile, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          AppName,
		})
		logger.SetLevel(log.DebugLevel)

		logger.Info("Debug logging enabled", "log_file", logPath)

	} else {
		// Production: warnings and errors to stderr only
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		logger = log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          AppName,
		})
		logger.SetLevel(log.WarnLevel)
	}

	return &AppLogger{
		logger: logger,
		debug:  opts.Debug,
	}
}

// Log application events
func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// IsDebug reports whether debug logging is enabled.
func (al *AppLogger) IsDebug() bool {
	return al.debug
}

// With returns a logger that adds keyvals to every entry.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{
		logger: al.logger.With(keyvals...),
		debug:  al.debug,
	}
}

// Pretty print any object (replaces spew)
func (al *AppLogger) DebugObject(name string, obj interface{}) {
	if al.debug {
		al.logger.Debug("Object dump", "name", name, "object", fmt.Sprintf("%+v", obj))
	}
}

// Log performance metrics
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		duration := time.Since(start)
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", duration,
		)
	}
}

// LogToolCall records the outcome of one dispatched tool call.
func (al *AppLogger) LogToolCall(tool string, start time.Time, failed bool, message string) {
	duration := time.Since(start)
	if failed {
		al.logger.Warn("Tool call failed",
			"tool", tool,
			"duration", duration,
			"error", message,
		)
		return
	}
	if al.debug {
		al.logger.Debug("Tool call completed",
			"tool", tool,
			"duration", duration,
		)
	}
}

// Testing Helper - NewTestLogger creates a logger that writes to a buffer for testing
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
