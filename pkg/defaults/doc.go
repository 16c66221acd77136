// Package defaults provides centralized configuration constants for
// kustodian.
//
// This package defines reconciliation intervals, timeouts, and path
// defaults used across the codebase. Centralizing these values ensures
// consistency and makes tuning easier.
package defaults
