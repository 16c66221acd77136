// Package resolver computes per-kustomization substitution values,
// enablement, and preservation for a cluster.
//
// Substitution values merge four precedence tiers, lowest to highest:
// template-level version defaults, kustomization-level substitution
// defaults, cluster-provided values, and values injected by hook
// handlers after resolution (external secrets). The implicit namespace
// variable is always added after the merge.
package resolver
