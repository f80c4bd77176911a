// Package testutil contains helpers used across tests to drive futures by
// hand and observe side effects (manual futures, counting wakers, invocation
// counters). These helpers are intentionally minimal and avoid adding
// third‑party dependencies. They are not intended for production usage.
package testutil
