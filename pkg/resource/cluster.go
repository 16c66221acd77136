/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Cluster is a deployment target. It selects which templates are active
// (opt-in: a template absent from Templates is fully disabled), carries
// per-template value overrides, and configures the reconciler source.
type Cluster struct {
	// Name uniquely identifies the cluster within a project.
	Name string `yaml:"name"`

	// Source configures the artifact source the reconciler pulls from.
	Source *SourceConfig `yaml:"source,omitempty"`

	// Templates lists the enabled templates with their overrides, in
	// declaration order.
	Templates []TemplateConfig `yaml:"templates"`

	// Flux tunes the reconciler controllers.
	Flux *FluxConfig `yaml:"flux,omitempty"`

	// Plugins carries provider-specific configuration blobs keyed by
	// plugin type.
	Plugins map[string]map[string]any `yaml:"plugins,omitempty"`
}

// TemplateConfig returns the configuration entry for the named template,
// or nil when the template is not enabled on this cluster.
func (c *Cluster) TemplateConfig(name string) *TemplateConfig {
	for i := range c.Templates {
		if c.Templates[i].Name == name {
			return &c.Templates[i]
		}
	}
	return nil
}

// UsesOCI reports whether the cluster pulls from an OCI registry source.
func (c *Cluster) UsesOCI() bool {
	return c.Source != nil && c.Source.Kind == SourceOCI
}

// SourceKind selects the reconciler source type.
type SourceKind string

const (
	// SourceGit pulls from a git repository.
	SourceGit SourceKind = "git"
	// SourceOCI pulls from an OCI registry artifact.
	SourceOCI SourceKind = "oci"
)

// TagStrategy selects how the OCI source tag is chosen.
type TagStrategy string

const (
	// TagStrategyCluster tags artifacts with the cluster name.
	TagStrategyCluster TagStrategy = "cluster"
	// TagStrategyManual uses the explicitly configured tag.
	TagStrategyManual TagStrategy = "manual"
)

// SourceConfig configures the reconciler's artifact source.
type SourceConfig struct {
	// Kind selects git or oci. Defaults to git when empty.
	Kind SourceKind `yaml:"kind,omitempty"`

	// Name is the source repository object name referenced by generated
	// kustomizations. Defaults to "flux-system".
	Name string `yaml:"name,omitempty"`

	// URL is the git repository URL (git sources only).
	URL string `yaml:"url,omitempty"`

	// Registry and Repository locate the OCI artifact (oci sources only).
	Registry   string `yaml:"registry,omitempty"`
	Repository string `yaml:"repository,omitempty"`

	// TagStrategy selects the artifact tag; unknown strategies fall back
	// to a "latest" placeholder overwritten by CI.
	TagStrategy TagStrategy `yaml:"tag_strategy,omitempty"`

	// Tag is the explicit tag for the manual strategy.
	Tag string `yaml:"tag,omitempty"`

	// SecretRef names the registry credentials secret.
	SecretRef string `yaml:"secret_ref,omitempty"`

	// Insecure allows non-TLS registry connections.
	Insecure bool `yaml:"insecure,omitempty"`
}

// RepositoryName returns the source repository object name.
func (s *SourceConfig) RepositoryName() string {
	if s != nil && s.Name != "" {
		return s.Name
	}
	return "flux-system"
}

// TemplateConfig enables a template on a cluster and carries the
// cluster's overrides for it.
type TemplateConfig struct {
	// Name references the template.
	Name string `yaml:"name"`

	// Values override substitution values by name for every
	// kustomization of the template.
	Values map[string]string `yaml:"values,omitempty"`

	// Kustomizations overrides enablement and preservation per
	// kustomization name.
	Kustomizations map[string]KustomizationOverride `yaml:"kustomizations,omitempty"`
}

// KustomizationOverride is a per-cluster kustomization override. In YAML
// it accepts either a bare boolean shorthand for enablement or an object
// carrying enablement and preservation.
type KustomizationOverride struct {
	Enabled      *bool               `yaml:"enabled,omitempty"`
	Preservation *PreservationPolicy `yaml:"preservation,omitempty"`
}

// UnmarshalYAML implements the boolean shorthand.
func (o *KustomizationOverride) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var enabled bool
		if err := value.Decode(&enabled); err != nil {
			return fmt.Errorf("kustomization override: expected boolean or object: %w", err)
		}
		o.Enabled = &enabled
		return nil
	}

	type plain KustomizationOverride
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*o = KustomizationOverride(decoded)
	return nil
}

// FluxConfig tunes the reconciler controllers. Per-controller settings
// fall back to Defaults when unset.
type FluxConfig struct {
	Defaults ControllerSettings `yaml:"defaults,omitempty"`

	SourceController    *ControllerSettings `yaml:"source_controller,omitempty"`
	KustomizeController *ControllerSettings `yaml:"kustomize_controller,omitempty"`
	HelmController      *ControllerSettings `yaml:"helm_controller,omitempty"`
}

// ControllerSettings tunes one reconciler controller.
type ControllerSettings struct {
	// Concurrent is the number of concurrent reconciles.
	Concurrent *int `yaml:"concurrent,omitempty"`

	// RequeueDependency is the requeue interval while dependencies are
	// not ready.
	RequeueDependency *Duration `yaml:"requeue_dependency,omitempty"`
}
