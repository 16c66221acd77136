/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Template is a reusable bundle of kustomizations plus shared version
// variables. Many clusters may reference the same template by name.
type Template struct {
	// Name uniquely identifies the template within a project.
	Name string `yaml:"name"`

	// Source optionally overrides the subdirectory under the templates
	// base path that holds this template's manifests. Defaults to Name.
	Source string `yaml:"source,omitempty"`

	// Kustomizations are the deployable units of the template, in
	// declaration order.
	Kustomizations []Kustomization `yaml:"kustomizations"`

	// Versions are template-wide shared version variables, available to
	// every kustomization at the lowest substitution precedence tier.
	Versions []VersionEntry `yaml:"versions,omitempty"`
}

// Kustomization returns the named kustomization, or nil when absent.
func (t *Template) Kustomization(name string) *Kustomization {
	for i := range t.Kustomizations {
		if t.Kustomizations[i].Name == name {
			return &t.Kustomizations[i]
		}
	}
	return nil
}

// SourcePath returns the template's subdirectory under the templates base
// path: Source when set, Name otherwise.
func (t *Template) SourcePath() string {
	if t.Source != "" {
		return t.Source
	}
	return t.Name
}

// QualifiedName builds the globally unique identity of a kustomization
// within its owning template: "<template>-<kustomization>".
func QualifiedName(template, kustomization string) string {
	return fmt.Sprintf("%s-%s", template, kustomization)
}

// Kustomization is one deployable unit: a path of manifests with its own
// substitutions, dependencies, health checks, and lifecycle flags.
type Kustomization struct {
	// Name is unique within the owning template.
	Name string `yaml:"name"`

	// Path locates the kustomization's manifests relative to the
	// template's source directory (e.g. "./deployment").
	Path string `yaml:"path"`

	// Namespace configures the target namespace for the kustomization.
	Namespace *NamespaceConfig `yaml:"namespace,omitempty"`

	// Substitutions declares the kustomization's template variables, in
	// declaration order.
	Substitutions Substitutions `yaml:"substitutions,omitempty"`

	// DependsOn lists dependency references, in declaration order.
	DependsOn []DependencyExpr `yaml:"depends_on,omitempty"`

	// HealthChecks lists resources whose readiness gates reconciliation.
	HealthChecks []HealthCheck `yaml:"health_checks,omitempty"`

	// CustomHealthChecks lists CEL-expression health checks. Expressions
	// are passed through to the generated manifest verbatim.
	CustomHealthChecks []CustomHealthCheck `yaml:"custom_health_checks,omitempty"`

	// Prune enables garbage collection of removed resources. Defaults to
	// true when nil.
	Prune *bool `yaml:"prune,omitempty"`

	// Wait makes the reconciler wait for all resources to become ready.
	// Defaults to true when nil.
	Wait *bool `yaml:"wait,omitempty"`

	// Timeout bounds a single reconciliation attempt.
	Timeout *Duration `yaml:"timeout,omitempty"`

	// RetryInterval is the wait between failed reconciliation attempts.
	RetryInterval *Duration `yaml:"retry_interval,omitempty"`

	// Enabled is the template-declared default enablement. Defaults to
	// true when nil; clusters may override per kustomization.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Preservation declares which resource kinds survive disablement.
	Preservation *PreservationPolicy `yaml:"preservation,omitempty"`
}

// NamespaceConfig configures the target namespace of a kustomization.
type NamespaceConfig struct {
	// Default is the namespace applied when the cluster does not override it.
	Default string `yaml:"default,omitempty"`

	// Create requests namespace creation alongside the workload.
	Create bool `yaml:"create,omitempty"`
}

// HealthCheck identifies a resource whose readiness gates reconciliation.
type HealthCheck struct {
	APIVersion string `yaml:"api_version,omitempty"`
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
	Namespace  string `yaml:"namespace,omitempty"`
}

// CustomHealthCheck is a CEL-expression health check. Current and Failed
// hold CEL expressions evaluated by the reconciler, not by kustodian.
type CustomHealthCheck struct {
	APIVersion string `yaml:"api_version,omitempty"`
	Kind       string `yaml:"kind"`
	Namespace  string `yaml:"namespace,omitempty"`
	Current    string `yaml:"current"`
	Failed     string `yaml:"failed,omitempty"`
}

// Duration wraps metav1.Duration with YAML support for the usual
// "10m"/"90s" notation.
type Duration struct {
	metav1.Duration
}

// NewDuration builds a Duration from a time.Duration.
func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: metav1.Duration{Duration: d}}
}

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = metav1.Duration{Duration: parsed}
	return nil
}

// MarshalYAML renders the duration in Go notation.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.Duration.String(), nil
}
