/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package loader

import (
	"github.com/google/cel-go/cel"

	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/resource"
)

// LintHealthExpressions compiles every custom health check expression
// and accumulates the failures. The reconciler is the ultimate judge of
// these expressions; linting at load time just catches typos before
// they reach a cluster.
func LintHealthExpressions(templates []*resource.Template) []error {
	env, err := cel.NewEnv(cel.Variable("status", cel.DynType))
	if err != nil {
		return []error{errors.Wrap(errors.ErrCodeInternal,
			"failed to create expression environment", err)}
	}

	var errs []error
	check := func(owner, field, expr string) {
		if expr == "" {
			return
		}
		if _, iss := env.Compile(expr); iss.Err() != nil {
			errs = append(errs, errors.WrapWithContext(errors.ErrCodeConfiguration,
				"invalid health check expression", iss.Err(),
				map[string]any{"kustomization": owner, "field": field}))
		}
	}

	for _, t := range templates {
		for i := range t.Kustomizations {
			k := &t.Kustomizations[i]
			owner := resource.QualifiedName(t.Name, k.Name)
			for _, chc := range k.CustomHealthChecks {
				check(owner, "current", chc.Current)
				check(owner, "failed", chc.Failed)
			}
		}
	}
	return errs
}
