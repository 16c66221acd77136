/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PreservationMode selects which resource kinds are protected from
// deletion when a kustomization is disabled.
type PreservationMode string

const (
	// PreservationNone protects nothing.
	PreservationNone PreservationMode = "none"
	// PreservationStateful protects PersistentVolumeClaim, Secret, and
	// ConfigMap. This is the default when no policy is declared.
	PreservationStateful PreservationMode = "stateful"
	// PreservationCustom protects exactly the kinds in KeepResources.
	PreservationCustom PreservationMode = "custom"
)

// StatefulKinds are the resource kinds protected by the stateful mode.
func StatefulKinds() []string {
	return []string{"PersistentVolumeClaim", "Secret", "ConfigMap"}
}

// PreservationPolicy declares which resource kinds survive disablement.
// Preservation only matters for kustomizations being disabled; it has no
// effect on enabled ones.
type PreservationPolicy struct {
	Mode PreservationMode `yaml:"mode"`

	// KeepResources lists the protected kinds for custom mode.
	KeepResources []string `yaml:"keep_resources,omitempty"`
}

// Kinds returns the protected resource kinds for the policy.
func (p PreservationPolicy) Kinds() []string {
	switch p.Mode {
	case PreservationNone:
		return nil
	case PreservationStateful:
		return StatefulKinds()
	case PreservationCustom:
		return p.KeepResources
	default:
		return nil
	}
}

// Validate checks mode and keep_resources consistency.
func (p PreservationPolicy) Validate() error {
	switch p.Mode {
	case PreservationNone, PreservationStateful:
		if len(p.KeepResources) > 0 {
			return fmt.Errorf("preservation mode %q does not accept keep_resources", p.Mode)
		}
		return nil
	case PreservationCustom:
		if len(p.KeepResources) == 0 {
			return fmt.Errorf("preservation mode custom requires keep_resources")
		}
		return nil
	default:
		return fmt.Errorf("unknown preservation mode %q", p.Mode)
	}
}

// UnmarshalYAML accepts either a mode string shorthand or a full policy
// object.
func (p *PreservationPolicy) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var mode string
		if err := value.Decode(&mode); err != nil {
			return err
		}
		p.Mode = PreservationMode(mode)
		return p.Validate()
	}

	type plain PreservationPolicy
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*p = PreservationPolicy(decoded)
	return p.Validate()
}
