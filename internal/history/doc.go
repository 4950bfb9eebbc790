// Package history keeps a SQLite ledger of finished batches.
//
// Every finalized or failed batch becomes one row: label, destination,
// staged/moved/failed counts and timestamps. The ledger is informational;
// nothing in the collection path reads it back, so losing the database only
// loses the record, never photos.
package history
