/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DependencyRef is a parsed dependency reference. Exactly three variants
// exist: a reference within the declaring template, a reference into
// another template, and a raw external reference that is exempt from
// graph validation.
type DependencyRef interface {
	dependencyRef()
}

// WithinTemplateRef references a sibling kustomization in the declaring
// kustomization's own template.
type WithinTemplateRef struct {
	Kustomization string
}

func (WithinTemplateRef) dependencyRef() {}

// CrossTemplateRef references a kustomization in another template.
type CrossTemplateRef struct {
	Template      string
	Kustomization string
}

func (CrossTemplateRef) dependencyRef() {}

// RawRef points at a reconciler object outside the known template set.
// Raw refs never participate in cycle or existence checks.
type RawRef struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
}

func (RawRef) dependencyRef() {}

// DependencyExpr is a dependency reference as written in a template:
// either a textual reference ("db", "secrets/doppler") parsed during
// graph construction, or an explicit raw object. Textual parsing is
// deferred so that malformed references surface as accumulated graph
// errors instead of load failures.
type DependencyExpr struct {
	// Ref is the textual form. Mutually exclusive with Raw.
	Ref string

	// Raw is the explicit external reference form.
	Raw *RawRef
}

// Parse resolves the expression into its DependencyRef variant.
func (e DependencyExpr) Parse() (DependencyRef, error) {
	if e.Raw != nil {
		if e.Raw.Name == "" {
			return nil, fmt.Errorf("raw dependency reference requires a name")
		}
		return *e.Raw, nil
	}

	ref := strings.TrimSpace(e.Ref)
	if ref == "" {
		return nil, fmt.Errorf("empty dependency reference")
	}

	parts := strings.Split(ref, "/")
	switch len(parts) {
	case 1:
		return WithinTemplateRef{Kustomization: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed dependency reference %q", e.Ref)
		}
		return CrossTemplateRef{Template: parts[0], Kustomization: parts[1]}, nil
	default:
		return nil, fmt.Errorf("malformed dependency reference %q", e.Ref)
	}
}

// String renders the expression as written.
func (e DependencyExpr) String() string {
	if e.Raw != nil {
		if e.Raw.Namespace != "" {
			return fmt.Sprintf("%s/%s (raw)", e.Raw.Namespace, e.Raw.Name)
		}
		return fmt.Sprintf("%s (raw)", e.Raw.Name)
	}
	return e.Ref
}

// UnmarshalYAML accepts either a plain string or {raw: {name, namespace}}.
func (e *DependencyExpr) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&e.Ref)
	case yaml.MappingNode:
		var obj struct {
			Raw *RawRef `yaml:"raw"`
		}
		if err := value.Decode(&obj); err != nil {
			return err
		}
		if obj.Raw == nil {
			return fmt.Errorf("dependency reference object requires a raw block")
		}
		e.Raw = obj.Raw
		return nil
	default:
		return fmt.Errorf("dependency reference: expected string or mapping, got %s", nodeKind(value))
	}
}
