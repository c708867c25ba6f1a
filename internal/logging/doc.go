// Package logging assembles structured slog loggers and formatting helpers used
// across archivist commands.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so migration code can tag log
// lines with the item group key and session ID without threading them through
// every call. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
