// Package services defines shared utilities consumed by the review core and
// its remote integrations.
//
// Key responsibilities:
//   - Context helpers that stamp artist IDs, session IDs, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (absorbed, reported, or fatal to the session) with errors.Is.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services
