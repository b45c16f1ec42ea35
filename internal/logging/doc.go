// Package logging wraps log/slog with the handlers and typed attribute
// helpers used across reel. The console handler prints compact
// timestamp/level/component lines for interactive use; the JSON handler is
// for log files and machine consumption.
package logging
