// Package loader discovers and decodes project configuration. Templates
// live under <root>/templates/*.yaml and clusters under
// <root>/clusters/*.yaml; every document is validated against an
// embedded JSON schema before decoding, and duplicate names across
// files are rejected. The project root is the nearest ancestor
// directory containing a kustodian.yaml marker file.
package loader
