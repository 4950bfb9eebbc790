// Package logging assembles the structured slog loggers used across the
// Snapsort daemon and CLI.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so collector code can
// automatically tag log lines with batch and chat identifiers. The package
// also provides a no-op logger for tests and wiring code that cannot fail,
// plus retention helpers that prune old daemon run logs.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the rest
// of the system.
package logging
