// Package store provides durable storage for Flourish run traces.
//
// Each simulated page load is a run, identified by a UUID token. The run's
// trace - every probe, state transition, registration, skip, fire, and
// reveal the engine recorded - is persisted row-per-event, keyed by the
// engine's logical sequence number.
//
// SQLite with WAL mode is used so the trace and replay CLI commands can
// read while a run is still being written. Writes are idempotent:
// re-persisting a trace is a no-op, which makes the replay verifier safe
// to run against its own output.
package store
