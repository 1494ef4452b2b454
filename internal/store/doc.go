// Package store persists the review queue, cached artist records, and
// committed settings in a single SQLite database under the data directory.
//
// Every mutation runs in its own transaction so a crash between calls leaves
// either the previous or the new state on disk, never a mix. Busy errors from
// concurrent readers are retried with a short exponential backoff.
package store
