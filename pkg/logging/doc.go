// Package logging wraps the standard library slog package with
// kustodian's defaults: structured JSON output to stderr, a module and
// version attribute on every record, LOG_LEVEL environment
// configuration, and source location tracking at debug level.
//
// Set the default logger early in main:
//
//	logging.SetDefaultStructuredLogger("kustodian", version)
//	slog.Info("generating", "cluster", "prod")
//
// Supported levels (case-insensitive): DEBUG, INFO (default),
// WARN/WARNING, ERROR.
package logging
