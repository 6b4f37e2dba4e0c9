// Package logging assembles structured slog loggers and formatting helpers used
// across fileconverser components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so runner and API code can tag
// log lines with job ids, queue kinds, and request ids. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
