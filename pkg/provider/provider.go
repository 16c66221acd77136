/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package provider defines the external substitution provider contract
// and the batch dispatcher that feeds provider-resolved values (secrets,
// externally tracked versions) into the generation run through the hook
// pipeline.
//
// Concrete providers (1Password, Doppler, etc.) live outside this
// module; kustodian ships the contract, the registry, and a static
// in-memory provider used by tests and examples.
package provider

import (
	"context"
	"sync"

	"github.com/kustodian/kustodian/pkg/resource"
)

// Key identifies a provider: the substitution kind it serves, plus the
// plugin type for plugin substitutions.
type Key struct {
	Kind resource.SubstitutionKind

	// Plugin is set only when Kind is SubstitutionPlugin.
	Plugin string
}

// String renders the key for logs and config lookup.
func (k Key) String() string {
	if k.Kind == resource.SubstitutionPlugin {
		return string(k.Kind) + ":" + k.Plugin
	}
	return string(k.Kind)
}

// ConfigName is the cluster plugin-config key the provider reads.
func (k Key) ConfigName() string {
	if k.Kind == resource.SubstitutionPlugin {
		return k.Plugin
	}
	return string(k.Kind)
}

// Request is one resolution batch: all substitutions of the same key
// across the cluster's enabled kustomizations.
type Request struct {
	Cluster   *resource.Cluster
	Templates []*resource.Template

	// Substitutions are the batch members, all of the same kind (and
	// plugin type where applicable).
	Substitutions []resource.Substitution

	// Config is the cluster's configuration blob for this provider, nil
	// when the cluster declares none.
	Config map[string]any
}

// Provider resolves a batch of same-type substitutions to values keyed
// by variable name. Names absent from the returned map keep their
// previously resolved value.
type Provider interface {
	Resolve(ctx context.Context, req *Request) (map[string]string, error)
}

// Registry holds registered providers with thread-safe operations.
type Registry struct {
	mu        sync.RWMutex
	providers map[Key]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[Key]Provider)}
}

// Register registers a provider for a key, replacing any previous one.
func (r *Registry) Register(key Key, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[key] = p
}

// Get retrieves the provider for a key.
func (r *Registry) Get(key Key) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[key]
	return p, ok
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
