// Package core provides the foundational types and interfaces used by
// tinyservice. It defines the core abstractions for:
//
//   - Poll (the outcome of advancing a computation once: ready or pending)
//   - Context / Waker (how a pending computation asks to be polled again)
//   - Future (a poll-driven computation producing exactly one value)
//   - Result (the value/error pair every service call resolves to)
//   - Service (readiness check plus call, producing a Future of Result)
//
// The package intentionally keeps scheduling, composition and transport out
// of scope. Composition lives in package service, a minimal driver in package
// engine, and message records in package message.
//
// Futures are single-use. Polling a future after it resolved, or after it was
// cancelled with Drop, is a usage error and panics with an error wrapping
// ErrPolledAfterCompletion or ErrPolledAfterDrop.
package core
