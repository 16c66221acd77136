/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/hooks"
	"github.com/kustodian/kustodian/pkg/resolver"
	"github.com/kustodian/kustodian/pkg/resource"
)

type recordingProvider struct {
	requests []*Request
	values   map[string]string
	err      error
}

func (p *recordingProvider) Resolve(ctx context.Context, req *Request) (map[string]string, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.values, nil
}

func secretContext(t *testing.T) (*hooks.Context, *resolver.ResolvedKustomization) {
	t.Helper()

	tmpl := &resource.Template{Name: "app"}
	k := &resource.Kustomization{
		Name: "deployment",
		Substitutions: resource.Substitutions{
			resource.DopplerSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "db_password"},
				Secret:           "DB_PASSWORD",
			},
			resource.DopplerSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "api_key"},
				Secret:           "API_KEY",
			},
			resource.PluginSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "cert"},
				PluginType:       "vault",
			},
			resource.GenericSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "replicas", VarValue: "2"},
			},
		},
	}
	rk := &resolver.ResolvedKustomization{
		Template:      tmpl,
		Kustomization: k,
		Values:        map[string]string{"replicas": "2"},
		Enabled:       true,
	}

	cluster := &resource.Cluster{
		Name: "prod",
		Plugins: map[string]map[string]any{
			"doppler": {"project": "core"},
		},
	}
	return hooks.NewContext(cluster, []*resource.Template{tmpl}, []*resolver.ResolvedKustomization{rk}), rk
}

func TestKeyFor(t *testing.T) {
	t.Parallel()

	_, ok := keyFor(resource.GenericSubstitution{})
	assert.False(t, ok)
	_, ok = keyFor(resource.NamespaceSubstitution{})
	assert.False(t, ok)

	key, ok := keyFor(resource.DopplerSubstitution{})
	require.True(t, ok)
	assert.Equal(t, "doppler", key.String())
	assert.Equal(t, "doppler", key.ConfigName())

	key, ok = keyFor(resource.PluginSubstitution{PluginType: "vault"})
	require.True(t, ok)
	assert.Equal(t, "plugin:vault", key.String())
	assert.Equal(t, "vault", key.ConfigName())
}

func TestHookBatchesAndInjects(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	doppler := &recordingProvider{values: map[string]string{
		"db_password": "s3cret",
		"api_key":     "k3y",
	}}
	registry.Register(Key{Kind: resource.SubstitutionDoppler}, doppler)

	hc, rk := secretContext(t)
	handler := Hook(registry)
	require.NoError(t, handler(context.Background(), hooks.EventAfterResolve, hc))

	// Both doppler substitutions arrived in a single batch.
	require.Len(t, doppler.requests, 1)
	assert.Len(t, doppler.requests[0].Substitutions, 2)
	assert.Equal(t, map[string]any{"project": "core"}, doppler.requests[0].Config)

	assert.Equal(t, "s3cret", rk.Values["db_password"])
	assert.Equal(t, "k3y", rk.Values["api_key"])

	// The vault plugin batch had no provider and was skipped silently.
	_, resolved := rk.Values["cert"]
	assert.False(t, resolved)
}

func TestHookSkipsDisabledKustomizations(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	doppler := &recordingProvider{values: map[string]string{}}
	registry.Register(Key{Kind: resource.SubstitutionDoppler}, doppler)

	hc, rk := secretContext(t)
	rk.Enabled = false

	require.NoError(t, Hook(registry)(context.Background(), hooks.EventAfterResolve, hc))
	assert.Empty(t, doppler.requests)
}

func TestHookProviderFailureFailsRun(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	cause := errors.New("doppler API unreachable")
	registry.Register(Key{Kind: resource.SubstitutionDoppler}, &recordingProvider{err: cause})

	hc, _ := secretContext(t)
	err := Hook(registry)(context.Background(), hooks.EventAfterResolve, hc)
	require.Error(t, err)
	require.ErrorIs(t, err, cause)

	var structured *kerrors.StructuredError
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, kerrors.ErrCodeResolutionFailed, structured.Code)
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	s := NewStatic(map[string]string{"db_password": "local"})
	values, err := s.Resolve(context.Background(), &Request{
		Substitutions: []resource.Substitution{
			resource.DopplerSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "db_password"},
			},
			resource.DopplerSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "absent"},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"db_password": "local"}, values)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.Equal(t, 0, r.Count())

	key := Key{Kind: resource.SubstitutionOnePassword}
	r.Register(key, NewStatic(nil))

	_, ok := r.Get(key)
	assert.True(t, ok)
	_, ok = r.Get(Key{Kind: resource.SubstitutionDoppler})
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count())
}
