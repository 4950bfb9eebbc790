// Package services defines shared utilities consumed by the collector
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch and chat identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across components.
//
// Use these helpers when wiring new component logic so operational behaviour
// (error handling, observability) stays uniform across the daemon.
package services
