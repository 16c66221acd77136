/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package manifest

// Entry pairs a generated kustomization manifest with its owning
// template name.
type Entry struct {
	Template string         `json:"template"`
	Manifest *Kustomization `json:"manifest"`
}

// ControllerPatch tunes one reconciler controller deployment.
type ControllerPatch struct {
	// Controller is the deployment name
	// (e.g. "kustomize-controller").
	Controller string `json:"controller"`
	Patch      Patch  `json:"patch"`
}

// File is an auxiliary output file contributed by a hook, with its
// path relative to the cluster output directory.
type File struct {
	Path string `json:"path"`
	Data []byte `json:"data"`
}

// Result is the output of one generation run for one cluster, consumed
// by the output writer.
type Result struct {
	// Cluster is the target cluster name.
	Cluster string `json:"cluster"`

	// RunID uniquely identifies the generation run.
	RunID string `json:"runId"`

	// OutputDir is the directory the writer should place files under.
	OutputDir string `json:"outputDir"`

	// Kustomizations are the generated manifests in generation order.
	Kustomizations []Entry `json:"kustomizations"`

	// Source is the source repository manifest, present only for
	// clusters with an OCI source.
	Source *OCIRepository `json:"source,omitempty"`

	// ControllerPatches tune the reconciler controllers; empty when the
	// cluster declares no tuning.
	ControllerPatches []ControllerPatch `json:"controllerPatches,omitempty"`

	// Files are auxiliary outputs contributed by before-write hooks.
	Files []File `json:"files,omitempty"`
}

// Manifest returns the entry whose kustomization has the given name, or
// nil when absent.
func (r *Result) Manifest(name string) *Kustomization {
	for i := range r.Kustomizations {
		if r.Kustomizations[i].Manifest.Metadata.Name == name {
			return r.Kustomizations[i].Manifest
		}
	}
	return nil
}
