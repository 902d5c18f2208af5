// Package logging assembles structured slog loggers and formatting helpers used
// across recroute.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so routing code can tag log lines
// with the run identifier and route template of the reconfiguration in flight.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
