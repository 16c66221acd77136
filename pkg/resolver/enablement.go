/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/resource"
)

// Enablement is the resolved enabled state and preservation policy of
// one kustomization for one cluster.
type Enablement struct {
	Enabled      bool
	Preservation resource.PreservationPolicy
}

// ResolveEnablement determines whether a kustomization is enabled for
// the cluster and which preservation policy applies.
//
// The template gates everything: when its name is absent from the
// cluster's template list, the kustomization is disabled regardless of
// its own flag. Otherwise the template-declared default (true when
// unset) applies, overridable per cluster. Preservation defaults to
// stateful when neither template nor cluster declares a policy.
func ResolveEnablement(cluster *resource.Cluster, t *resource.Template, k *resource.Kustomization) Enablement {
	e := Enablement{
		Enabled:      k.Enabled == nil || *k.Enabled,
		Preservation: resource.PreservationPolicy{Mode: resource.PreservationStateful},
	}
	if k.Preservation != nil {
		e.Preservation = *k.Preservation
	}

	cfg := cluster.TemplateConfig(t.Name)
	if cfg == nil {
		e.Enabled = false
		return e
	}

	if override, ok := cfg.Kustomizations[k.Name]; ok {
		if override.Enabled != nil {
			e.Enabled = *override.Enabled
		}
		if override.Preservation != nil {
			e.Preservation = *override.Preservation
		}
	}

	return e
}

// ValidateEnablement rejects configurations where an enabled
// kustomization depends on one that resolves to disabled for the same
// cluster. Raw external references are exempt. The first conflict fails
// the run; unresolvable references are ignored here since graph
// construction reports them.
func ValidateEnablement(cluster *resource.Cluster, templates []*resource.Template) error {
	byName := make(map[string]*resource.Template, len(templates))
	for _, t := range templates {
		byName[t.Name] = t
	}

	for _, t := range templates {
		if cluster.TemplateConfig(t.Name) == nil {
			continue
		}
		for i := range t.Kustomizations {
			k := &t.Kustomizations[i]
			if !ResolveEnablement(cluster, t, k).Enabled {
				continue
			}

			for _, expr := range k.DependsOn {
				ref, err := expr.Parse()
				if err != nil {
					continue
				}

				var depTemplate *resource.Template
				var depName string
				switch r := ref.(type) {
				case resource.WithinTemplateRef:
					depTemplate, depName = t, r.Kustomization
				case resource.CrossTemplateRef:
					depTemplate, depName = byName[r.Template], r.Kustomization
				case resource.RawRef:
					continue
				}
				if depTemplate == nil {
					continue
				}
				dep := depTemplate.Kustomization(depName)
				if dep == nil {
					continue
				}

				if !ResolveEnablement(cluster, depTemplate, dep).Enabled {
					return errors.Newf(errors.ErrCodeEnablementConflict,
						"enabled kustomization %s depends on disabled kustomization %s on cluster %s",
						resource.QualifiedName(t.Name, k.Name),
						resource.QualifiedName(depTemplate.Name, depName),
						cluster.Name)
				}
			}
		}
	}

	return nil
}
