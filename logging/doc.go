// Package logging provides a minimal logging interface and adapters for tinyservice.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the engine, the router and the trace layer use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - CallLogger, a configurable slog logger with per-call helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	e := engine.New(func(o *engine.Options) { o.Logger = logger })
//
// The interface is kept minimal so any structured logger can be plugged in.
package logging
