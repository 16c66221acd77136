/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package defaults

import "time"

// Reconciliation defaults for generated kustomizations.
const (
	// ReconcileInterval is the default reconciliation interval.
	ReconcileInterval = 10 * time.Minute

	// ReconcileTimeout is the default per-attempt timeout, overridable
	// per kustomization.
	ReconcileTimeout = 5 * time.Minute

	// SourceInterval is the default pull interval for source
	// repositories.
	SourceInterval = 1 * time.Minute
)

// Path defaults for generated manifests.
const (
	// TemplatesBasePath prefixes every generated kustomization path.
	TemplatesBasePath = "./templates"

	// FluxSystemDir is the output subdirectory for source and
	// controller-tuning manifests.
	FluxSystemDir = "flux-system"

	// FluxNamespace is the namespace reconciler objects live in.
	FluxNamespace = "flux-system"
)

// PlaceholderTag is the artifact tag emitted when the tag strategy
// defers tag selection to an external CI step.
const PlaceholderTag = "latest"

// PushTimeout bounds an OCI artifact push.
const PushTimeout = 2 * time.Minute
