// Package remote talks to the service that owns artist data.
//
// Provider is the only capability the rest of the program sees. Two
// transports implement it: CommandProvider runs a helper executable once per
// call and reads JSON from its stdout, and HTTPProvider posts JSON to a
// bridge service. Neither retries or imposes a timeout; callers bound calls
// through the context they pass in.
//
// Every transport or decoding failure is wrapped with services.ErrFetchFailed.
// A validation call that completes and answers "no" is not an error.
package remote
