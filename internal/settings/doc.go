// Package settings reconciles edits to the credential, search depth, and
// timezone against the committed values.
//
// Each field is judged on its own. A field left as committed is skipped, a
// cleared field falls back to its default, and anything else is validated;
// a value that fails validation silently reverts to the committed value and
// never blocks the other fields. A cleared credential has no default and is
// reverted like an invalid one. Accepting a new credential invalidates the
// queue and every cached record, which Result.RequiresFullReset reports.
package settings
