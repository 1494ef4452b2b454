// Package navigator drives a review session over the artist queue.
//
// A Session tracks the cursor, whether a credential still has to be
// supplied, and the record on display. Navigation is all-or-nothing: the
// record is fetched before the queue or cursor change, so a failed fetch
// leaves the session exactly as it was. Moving past either end of the queue
// is a silent no-op.
//
// A queue that could not be loaded blocks every navigation call with
// services.ErrStoreCorrupt until FullReset rebuilds it.
package navigator
