// Package daemon assembles the long-running snapsort process. It constructs
// the staging area, organizer, collector, notifier, and Telegram poller from
// configuration, guards against concurrent instances with a lock file in the
// log directory, and records every finalized or failed batch in the history
// ledger.
package daemon
