// Package logs reads back par's log file for `par logs`.
//
// Last returns the final lines of the file with bounded memory, and Follow
// polls for lines appended after an offset until its context is cancelled.
// Both accept a Matcher so callers can narrow output to one artist.
package logs
