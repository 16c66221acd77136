/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"log/slog"
	"sort"

	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/hooks"
	"github.com/kustodian/kustodian/pkg/resource"
)

// keyFor maps a substitution to its provider key. Generic and namespace
// substitutions resolve locally and are never dispatched.
func keyFor(sub resource.Substitution) (Key, bool) {
	switch s := sub.(type) {
	case resource.GenericSubstitution, resource.NamespaceSubstitution:
		return Key{}, false
	case resource.PluginSubstitution:
		return Key{Kind: resource.SubstitutionPlugin, Plugin: s.PluginType}, true
	default:
		return Key{Kind: sub.Kind()}, true
	}
}

// Hook returns an after-resolve hook handler that batches
// provider-backed substitutions across the cluster's enabled
// kustomizations, calls each registered provider once per batch, and
// injects the resolved values at the highest precedence tier.
//
// Substitution types with no registered provider are skipped silently,
// allowing partial plugin ecosystems. A provider failure fails the whole
// generation run with the wrapped provider error.
func Hook(registry *Registry) hooks.Handler {
	return func(ctx context.Context, event hooks.Event, hc *hooks.Context) error {
		batches := make(map[Key][]resource.Substitution)
		for _, rk := range hc.Resolved {
			if !rk.Enabled {
				continue
			}
			for _, sub := range rk.Kustomization.Substitutions {
				key, ok := keyFor(sub)
				if !ok {
					continue
				}
				batches[key] = append(batches[key], sub)
			}
		}

		keys := make([]Key, 0, len(batches))
		for key := range batches {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		for _, key := range keys {
			p, ok := registry.Get(key)
			if !ok {
				slog.Debug("no provider registered, skipping batch",
					"provider", key.String(),
					"substitutions", len(batches[key]))
				continue
			}

			req := &Request{
				Cluster:       hc.Cluster,
				Templates:     hc.Templates,
				Substitutions: batches[key],
			}
			if hc.Cluster.Plugins != nil {
				req.Config = hc.Cluster.Plugins[key.ConfigName()]
			}

			values, err := p.Resolve(ctx, req)
			if err != nil {
				return errors.WrapWithContext(errors.ErrCodeResolutionFailed,
					"provider failed to resolve substitution batch", err,
					map[string]any{
						"provider": key.String(),
						"cluster":  hc.Cluster.Name,
					})
			}
			hc.InjectValues(values)
		}

		return nil
	}
}
