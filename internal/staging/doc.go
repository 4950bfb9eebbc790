// Package staging manages the holding area for downloads that belong to an
// open batch.
//
// The Area type allocates collision-free file names for incoming media,
// lists leftovers from abandoned batches, and offers operator-driven stale
// cleanup. Finalization moves files out of the area; anything remaining is
// from a batch that was restarted before its label arrived.
package staging
