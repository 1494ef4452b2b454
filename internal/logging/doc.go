// Package logging assembles structured slog loggers and formatting helpers used
// across par.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so core code can tag log lines
// with artist IDs, session IDs, and correlation IDs. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
