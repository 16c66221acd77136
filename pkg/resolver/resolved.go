/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/resource"
)

// ResolvedKustomization pairs a kustomization with its resolved values,
// namespace, enablement, and preservation for one cluster. Computed per
// generation run, never persisted.
type ResolvedKustomization struct {
	Template      *resource.Template
	Kustomization *resource.Kustomization

	// Values is the merged substitution map. Hook handlers may overwrite
	// entries after resolution (the highest precedence tier).
	Values map[string]string

	Namespace    string
	Enabled      bool
	Preservation resource.PreservationPolicy
}

// QualifiedName returns "<template>-<kustomization>".
func (r *ResolvedKustomization) QualifiedName() string {
	return resource.QualifiedName(r.Template.Name, r.Kustomization.Name)
}

// ResolveAll resolves every kustomization of every template the cluster
// enables, in cluster template declaration order then template
// kustomization declaration order. Disabled kustomizations are included
// (with Enabled false) so preservation handling can see them; templates
// absent from the cluster's list are omitted entirely.
//
// A cluster entry naming a template missing from the template set is an
// error.
func ResolveAll(cluster *resource.Cluster, templates []*resource.Template) ([]*ResolvedKustomization, error) {
	byName := make(map[string]*resource.Template, len(templates))
	for _, t := range templates {
		byName[t.Name] = t
	}

	var resolved []*ResolvedKustomization
	for i := range cluster.Templates {
		cfg := &cluster.Templates[i]
		t, ok := byName[cfg.Name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeNotFound,
				"cluster %s references unknown template %q", cluster.Name, cfg.Name)
		}

		for j := range t.Kustomizations {
			k := &t.Kustomizations[j]
			e := ResolveEnablement(cluster, t, k)
			resolved = append(resolved, &ResolvedKustomization{
				Template:      t,
				Kustomization: k,
				Values:        Values(t, k, cfg.Values),
				Namespace:     Namespace(k),
				Enabled:       e.Enabled,
				Preservation:  e.Preservation,
			})
		}
	}

	return resolved, nil
}
