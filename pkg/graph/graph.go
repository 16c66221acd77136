/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package graph

import (
	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/resource"
)

// Node is one kustomization in the dependency graph. Nodes are built
// fresh per generation run and never persisted.
type Node struct {
	// ID is the qualified name "<template>-<kustomization>".
	ID string

	// Dependencies lists the IDs this node depends on, in declaration
	// order. Raw external references are not included.
	Dependencies []string
}

// Build constructs the graph for the given template set.
//
// Pass 1 creates one node per kustomization across all templates. Pass 2
// resolves each dependency reference: within-template references resolve
// against the declaring kustomization's own template, cross-template
// references against the named template, and raw references are skipped
// entirely. Structural errors (malformed reference, self reference,
// unknown target) are accumulated rather than short-circuited so the
// caller gets the complete picture in one report; any accumulated error
// makes the graph unusable.
func Build(templates []*resource.Template) (map[string]*Node, []error) {
	nodes := make(map[string]*Node)
	var errs []error

	for _, t := range templates {
		for i := range t.Kustomizations {
			id := resource.QualifiedName(t.Name, t.Kustomizations[i].Name)
			nodes[id] = &Node{ID: id}
		}
	}

	for _, t := range templates {
		for i := range t.Kustomizations {
			k := &t.Kustomizations[i]
			id := resource.QualifiedName(t.Name, k.Name)
			node := nodes[id]

			for _, expr := range k.DependsOn {
				ref, err := expr.Parse()
				if err != nil {
					errs = append(errs, errors.Wrap(errors.ErrCodeGraphInvalid,
						"invalid dependency reference on "+id, err))
					continue
				}

				var target string
				switch r := ref.(type) {
				case resource.WithinTemplateRef:
					target = resource.QualifiedName(t.Name, r.Kustomization)
				case resource.CrossTemplateRef:
					target = resource.QualifiedName(r.Template, r.Kustomization)
				case resource.RawRef:
					// Points outside the known template set.
					continue
				}

				if target == id {
					errs = append(errs, errors.Newf(errors.ErrCodeGraphInvalid,
						"%s depends on itself", id))
					continue
				}
				if _, ok := nodes[target]; !ok {
					errs = append(errs, errors.Newf(errors.ErrCodeGraphInvalid,
						"%s depends on unknown kustomization %s", id, target))
					continue
				}

				node.Dependencies = append(node.Dependencies, target)
			}
		}
	}

	return nodes, errs
}
