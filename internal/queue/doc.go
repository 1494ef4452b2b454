// Package queue holds the ordered list of artists under review and the
// reviewed flag of each entry.
//
// Entries before the watermark are reviewed and entries at or after it are
// not. MarkReviewed and ResetWatermarkTo are the only mutators; both write
// the whole list through to the store before touching memory, so a failed
// write leaves the in-memory queue as it was. The list order never changes
// except through Replace, which backs a full reset.
//
// A queue that cannot be read back is reported as services.ErrStoreCorrupt
// and stays unusable until it is replaced.
package queue
