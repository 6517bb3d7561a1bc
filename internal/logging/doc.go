// Package logging assembles structured slog loggers and formatting helpers used
// across paxmatch.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs and stages. When a log directory is configured, records
// are also written as JSON lines to a file beside the console output. The
// package provides a no-op logger for tests and wiring code that cannot fail.
package logging
