/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package manifest defines the generated deployment manifest types
// (Flux Kustomization and OCIRepository resources) and the generation
// result consumed by the output writer. Field sets follow the Flux v1
// APIs; serialization uses JSON tags so the structs round-trip through
// sigs.k8s.io/yaml.
package manifest

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// KustomizeAPIVersion is the apiVersion of generated Kustomizations.
	KustomizeAPIVersion = "kustomize.toolkit.fluxcd.io/v1"
	// SourceAPIVersion is the apiVersion of generated source repositories.
	SourceAPIVersion = "source.toolkit.fluxcd.io/v1"

	// KindKustomization is the kustomize controller resource kind.
	KindKustomization = "Kustomization"
	// KindOCIRepository is the OCI source resource kind.
	KindOCIRepository = "OCIRepository"
	// KindGitRepository is the git source resource kind.
	KindGitRepository = "GitRepository"

	// PreserveLabel marks resources protected from deletion when their
	// kustomization is disabled.
	PreserveLabel = "kustodian.io/preserve"

	// DefaultHealthCheckAPIVersion applies when a health check omits one.
	DefaultHealthCheckAPIVersion = "apps/v1"
)

// ObjectMeta is the minimal metadata emitted on generated resources.
type ObjectMeta struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// Kustomization is a generated kustomize controller resource.
type Kustomization struct {
	APIVersion string            `json:"apiVersion"`
	Kind       string            `json:"kind"`
	Metadata   ObjectMeta        `json:"metadata"`
	Spec       KustomizationSpec `json:"spec"`
}

// KustomizationSpec carries the reconciliation settings of one
// kustomization.
type KustomizationSpec struct {
	Interval      metav1.Duration  `json:"interval"`
	Timeout       *metav1.Duration `json:"timeout,omitempty"`
	RetryInterval *metav1.Duration `json:"retryInterval,omitempty"`

	Path  string `json:"path"`
	Prune bool   `json:"prune"`
	Wait  bool   `json:"wait"`

	TargetNamespace string    `json:"targetNamespace,omitempty"`
	SourceRef       SourceRef `json:"sourceRef"`

	// DependsOn holds the rendered dependency references in declaration
	// order; duplicates are preserved.
	DependsOn []DependencyReference `json:"dependsOn,omitempty"`

	// PostBuild is present only when the resolved value map is non-empty.
	PostBuild *PostBuild `json:"postBuild,omitempty"`

	HealthChecks       []ResourceRef       `json:"healthChecks,omitempty"`
	CustomHealthChecks []CustomHealthCheck `json:"customHealthChecks,omitempty"`

	// Patches is populated only for disabled-but-preserved
	// kustomizations, one preserve-label patch per protected kind.
	Patches []Patch `json:"patches,omitempty"`
}

// SourceRef points a kustomization at its artifact source.
type SourceRef struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// DependencyReference is one rendered dependsOn entry.
type DependencyReference struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

// PostBuild carries the variable substitutions applied after build.
type PostBuild struct {
	Substitute map[string]string `json:"substitute"`
}

// ResourceRef identifies a resource for health checking.
type ResourceRef struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Namespace  string `json:"namespace,omitempty"`
}

// CustomHealthCheck is a CEL-expression health check, passed through
// from the template verbatim.
type CustomHealthCheck struct {
	APIVersion string `json:"apiVersion,omitempty"`
	Kind       string `json:"kind"`
	Namespace  string `json:"namespace,omitempty"`
	Current    string `json:"current"`
	Failed     string `json:"failed,omitempty"`
}

// Patch is a kustomize patch with an optional target selector.
type Patch struct {
	Patch  string       `json:"patch"`
	Target *PatchTarget `json:"target,omitempty"`
}

// PatchTarget selects the resources a patch applies to.
type PatchTarget struct {
	Kind string `json:"kind,omitempty"`
	Name string `json:"name,omitempty"`
}

// OCIRepository is a generated OCI source resource.
type OCIRepository struct {
	APIVersion string            `json:"apiVersion"`
	Kind       string            `json:"kind"`
	Metadata   ObjectMeta        `json:"metadata"`
	Spec       OCIRepositorySpec `json:"spec"`
}

// OCIRepositorySpec locates the OCI artifact the cluster reconciles from.
type OCIRepositorySpec struct {
	URL      string           `json:"url"`
	Interval metav1.Duration  `json:"interval"`
	Ref      OCIRepositoryRef `json:"ref"`

	SecretRef *corev1.LocalObjectReference `json:"secretRef,omitempty"`
	Insecure  bool                         `json:"insecure,omitempty"`
}

// OCIRepositoryRef selects the artifact tag.
type OCIRepositoryRef struct {
	Tag string `json:"tag"`
}
