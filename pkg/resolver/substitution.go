/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"github.com/kustodian/kustodian/pkg/resource"
)

// DefaultNamespace is the namespace assumed when a kustomization
// declares none.
const DefaultNamespace = "default"

// Namespace returns the kustomization's resolved target namespace.
func Namespace(k *resource.Kustomization) string {
	if k.Namespace != nil && k.Namespace.Default != "" {
		return k.Namespace.Default
	}
	return DefaultNamespace
}

// Values merges the substitution value tiers for one kustomization:
// template version defaults, then kustomization substitution defaults,
// then cluster values, each overriding the previous when the same name
// appears. The implicit "namespace" variable is injected last from the
// resolved namespace. Hook-injected values are applied separately, after
// this merge.
func Values(t *resource.Template, k *resource.Kustomization, clusterValues map[string]string) map[string]string {
	values := make(map[string]string)

	for _, v := range t.Versions {
		if v.Default != "" {
			values[v.Name] = v.Default
		}
	}

	for _, s := range k.Substitutions {
		if s.Default() != "" {
			values[s.Name()] = s.Default()
		}
	}

	for name, v := range clusterValues {
		values[name] = v
	}

	values["namespace"] = Namespace(k)
	return values
}
