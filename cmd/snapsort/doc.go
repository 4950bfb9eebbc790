// Package main hosts the snapsort CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the collector daemon in the foreground,
// inspects the batch history ledger and the staging area, runs preflight
// checks, and scaffolds configuration. It centralizes configuration
// resolution and logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
