// Package generator orchestrates a generation run: it builds and
// validates the dependency graph, resolves substitution values and
// enablement for the target cluster, fires the hook pipeline at the
// defined phases, and renders the deployment manifests.
//
// The engine is synchronous and side-effect free; it never writes files
// or logs above debug. Runs for different clusters are independent and
// may be executed in parallel by the caller.
package generator
