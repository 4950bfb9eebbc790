// Package organizer files finalized batches by moving staged photos into a
// labeled folder under the output root.
//
// Destination folders are named from the parsed batch label plus the batch
// start time, so repeated visits to the same place stay distinct. Moves
// prefer rename and fall back to a verified copy across filesystems.
// Individual move failures are logged and skipped; only a destination that
// cannot be created fails the batch.
package organizer
