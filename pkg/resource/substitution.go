/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SubstitutionKind discriminates the substitution variants.
type SubstitutionKind string

const (
	// SubstitutionGeneric is a plain named variable with a default.
	SubstitutionGeneric SubstitutionKind = "generic"
	// SubstitutionVersion resolves from a registry tag listing.
	SubstitutionVersion SubstitutionKind = "version"
	// SubstitutionNamespace mirrors the kustomization's namespace.
	SubstitutionNamespace SubstitutionKind = "namespace"
	// SubstitutionHelm resolves from a helm chart repository.
	SubstitutionHelm SubstitutionKind = "helm"
	// SubstitutionOnePassword resolves from a 1Password vault item.
	SubstitutionOnePassword SubstitutionKind = "onepassword"
	// SubstitutionDoppler resolves from a Doppler project config.
	SubstitutionDoppler SubstitutionKind = "doppler"
	// SubstitutionPlugin resolves through an arbitrary registered provider.
	SubstitutionPlugin SubstitutionKind = "plugin"
)

// Substitution is a named template variable. Variants carry the
// provider-specific payload needed to resolve a value; every variant has
// a name and an optional default.
type Substitution interface {
	// Name is the variable name referenced as ${name}.
	Name() string
	// Default is the fallback value when no higher tier provides one.
	Default() string
	// Kind discriminates the variant.
	Kind() SubstitutionKind
}

// SubstitutionMeta carries the fields shared by all substitution variants.
type SubstitutionMeta struct {
	VarName  string `yaml:"name"`
	VarValue string `yaml:"default,omitempty"`
}

// Name returns the variable name.
func (m SubstitutionMeta) Name() string { return m.VarName }

// Default returns the fallback value.
func (m SubstitutionMeta) Default() string { return m.VarValue }

// GenericSubstitution is a plain variable with an optional default.
type GenericSubstitution struct {
	SubstitutionMeta `yaml:",inline"`
}

// Kind implements Substitution.
func (GenericSubstitution) Kind() SubstitutionKind { return SubstitutionGeneric }

// VersionSubstitution selects a value from a registry's tag listing.
type VersionSubstitution struct {
	SubstitutionMeta `yaml:",inline"`

	// Registry is the image registry reference queried for tags.
	Registry string `yaml:"registry,omitempty"`
	// Constraint is a semver constraint restricting candidate tags.
	Constraint string `yaml:"constraint,omitempty"`
	// TagFilter is a substring filter applied before constraint matching.
	TagFilter string `yaml:"tag_filter,omitempty"`
}

// Kind implements Substitution.
func (VersionSubstitution) Kind() SubstitutionKind { return SubstitutionVersion }

// NamespaceSubstitution mirrors the kustomization's resolved namespace.
type NamespaceSubstitution struct {
	SubstitutionMeta `yaml:",inline"`
}

// Kind implements Substitution.
func (NamespaceSubstitution) Kind() SubstitutionKind { return SubstitutionNamespace }

// HelmSubstitution selects a chart version from a helm repository.
type HelmSubstitution struct {
	SubstitutionMeta `yaml:",inline"`

	Repository string `yaml:"repository,omitempty"`
	Chart      string `yaml:"chart,omitempty"`
	Constraint string `yaml:"constraint,omitempty"`
}

// Kind implements Substitution.
func (HelmSubstitution) Kind() SubstitutionKind { return SubstitutionHelm }

// OnePasswordSubstitution resolves from a 1Password vault item field.
type OnePasswordSubstitution struct {
	SubstitutionMeta `yaml:",inline"`

	Vault string `yaml:"vault,omitempty"`
	Item  string `yaml:"item"`
	Field string `yaml:"field,omitempty"`
}

// Kind implements Substitution.
func (OnePasswordSubstitution) Kind() SubstitutionKind { return SubstitutionOnePassword }

// DopplerSubstitution resolves from a Doppler project config secret.
type DopplerSubstitution struct {
	SubstitutionMeta `yaml:",inline"`

	Project string `yaml:"project,omitempty"`
	Config  string `yaml:"config,omitempty"`
	Secret  string `yaml:"secret"`
}

// Kind implements Substitution.
func (DopplerSubstitution) Kind() SubstitutionKind { return SubstitutionDoppler }

// PluginSubstitution resolves through a provider registered under an
// arbitrary plugin type. Unknown types with no registered provider are
// skipped rather than failing resolution.
type PluginSubstitution struct {
	SubstitutionMeta `yaml:",inline"`

	// PluginType names the provider handling this substitution.
	PluginType string `yaml:"plugin,omitempty"`
	// Config carries provider-specific settings.
	Config map[string]string `yaml:"config,omitempty"`
}

// Kind implements Substitution.
func (PluginSubstitution) Kind() SubstitutionKind { return SubstitutionPlugin }

// Substitutions decodes a YAML sequence of substitution documents into
// the variant structs, discriminated by the "type" field (defaulting to
// generic when absent).
type Substitutions []Substitution

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Substitutions) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("substitutions: expected a sequence, got %s", nodeKind(value))
	}
	out := make(Substitutions, 0, len(value.Content))
	for _, item := range value.Content {
		sub, err := decodeSubstitution(item)
		if err != nil {
			return err
		}
		out = append(out, sub)
	}
	*s = out
	return nil
}

func decodeSubstitution(node *yaml.Node) (Substitution, error) {
	var head struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}
	if head.Name == "" {
		return nil, fmt.Errorf("substitution: name is required")
	}

	kind := SubstitutionKind(head.Type)
	if head.Type == "" {
		kind = SubstitutionGeneric
	}

	switch kind {
	case SubstitutionGeneric:
		var v GenericSubstitution
		return v, node.Decode(&v)
	case SubstitutionVersion:
		var v VersionSubstitution
		return v, node.Decode(&v)
	case SubstitutionNamespace:
		var v NamespaceSubstitution
		return v, node.Decode(&v)
	case SubstitutionHelm:
		var v HelmSubstitution
		return v, node.Decode(&v)
	case SubstitutionOnePassword:
		var v OnePasswordSubstitution
		return v, node.Decode(&v)
	case SubstitutionDoppler:
		var v DopplerSubstitution
		return v, node.Decode(&v)
	case SubstitutionPlugin:
		var v PluginSubstitution
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		if v.PluginType == "" {
			return nil, fmt.Errorf("substitution %q: plugin type is required", head.Name)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("substitution %q: unknown type %q", head.Name, head.Type)
	}
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}
