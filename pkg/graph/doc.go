// Package graph builds the kustomization dependency graph for a template
// set, accumulates structural reference errors, detects cycles, and
// produces a topological order for cycle-free graphs.
package graph
