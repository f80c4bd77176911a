package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name ("debug", "info", "warn",
// "warning", "error") into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the minimal logging interface for tinyservice.
// Arguments after msg are slog style key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// CallLogger wraps slog.Logger adding a component attribute, fixed context
// attributes and a helper recording the outcome of a single service call.
// With* methods return modified copies; the receiver is never mutated.
type CallLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	attrs     []slog.Attr
}

// LoggerConfig configures construction of a CallLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration writing to stderr.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stderr}
}

// NewLogger builds a CallLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *CallLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &CallLogger{logger: slog.New(handler), level: cfg.Level, component: cfg.Component}
}

// NewSlogLogger creates a new CallLogger with the specified level and format.
func NewSlogLogger(level LogLevel, format string, addSource bool) *CallLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *CallLogger) clone() *CallLogger {
	nl := *l
	nl.attrs = append([]slog.Attr(nil), l.attrs...)
	return &nl
}

// WithComponent sets the logical component (engine, router, trace, ...).
func (l *CallLogger) WithComponent(c string) *CallLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithContext attaches a key/value attribute to every subsequent entry.
func (l *CallLogger) WithContext(key string, value any) *CallLogger {
	nl := l.clone()
	nl.attrs = append(nl.attrs, slog.Any(key, value))
	return nl
}

func (l *CallLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.attrs)+1)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	return append(attrs, l.attrs...)
}

func (l *CallLogger) log(level slog.Level, msg string, args ...any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(l.buildAttrs()...)
	r.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), r)
}

// Debug logs at debug level.
func (l *CallLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

// Info logs at info level.
func (l *CallLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *CallLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

// Error logs at error level.
func (l *CallLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// LogCall records the outcome of one service call.
func (l *CallLogger) LogCall(name, callID string, dur time.Duration, err error) {
	LogCall(l, name, callID, dur, err)
}

// LogCall records the outcome of one service call on any Logger: info on
// success, error on failure.
func LogCall(l Logger, name, callID string, dur time.Duration, err error) {
	if err != nil {
		l.Error("service.call.failed", "service", name, "call_id", callID, "duration", dur, "error", err.Error())
		return
	}
	l.Info("service.call.completed", "service", name, "call_id", callID, "duration", dur)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
