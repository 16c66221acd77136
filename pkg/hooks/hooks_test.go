/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kustodian/kustodian/pkg/resolver"
	"github.com/kustodian/kustodian/pkg/resource"
)

func TestDispatchOrdering(t *testing.T) {
	t.Parallel()

	p := NewPipeline()
	var order []string

	record := func(name string) Handler {
		return func(ctx context.Context, event Event, hc *Context) error {
			order = append(order, name)
			return nil
		}
	}

	p.Register(EventAfterResolve, 20, record("third"))
	p.Register(EventAfterResolve, 10, record("first"))
	p.Register(EventAfterResolve, 10, record("second")) // tie broken by registration order
	p.Register(EventBeforeWrite, 0, record("other event"))

	hc := NewContext(&resource.Cluster{Name: "prod"}, nil, nil)
	require.NoError(t, p.Dispatch(context.Background(), EventAfterResolve, hc))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDispatchShortCircuitsOnFailure(t *testing.T) {
	t.Parallel()

	p := NewPipeline()
	boom := errors.New("provider unreachable")
	var ran []int

	p.Register(EventAfterResolve, 1, func(ctx context.Context, event Event, hc *Context) error {
		ran = append(ran, 1)
		return nil
	})
	p.Register(EventAfterResolve, 2, func(ctx context.Context, event Event, hc *Context) error {
		ran = append(ran, 2)
		return boom
	})
	p.Register(EventAfterResolve, 3, func(ctx context.Context, event Event, hc *Context) error {
		ran = append(ran, 3)
		return nil
	})

	hc := NewContext(&resource.Cluster{Name: "prod"}, nil, nil)
	err := p.Dispatch(context.Background(), EventAfterResolve, hc)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, ran, "handlers after the failure must not run")
}

func TestDispatchNoHandlers(t *testing.T) {
	t.Parallel()

	p := NewPipeline()
	hc := NewContext(&resource.Cluster{Name: "prod"}, nil, nil)
	assert.NoError(t, p.Dispatch(context.Background(), EventBeforeWrite, hc))
}

func TestContextExtensionMap(t *testing.T) {
	t.Parallel()

	hc := NewContext(&resource.Cluster{Name: "prod"}, nil, nil)

	hc.Set("auth-config", map[string]string{"issuer": "https://auth.example.com"})

	_, ok := hc.Value("absent")
	assert.False(t, ok)

	cfg, ok := ValueAs[map[string]string](hc, "auth-config")
	require.True(t, ok)
	assert.Equal(t, "https://auth.example.com", cfg["issuer"])

	_, ok = ValueAs[int](hc, "auth-config")
	assert.False(t, ok, "mismatched type must not assert")
}

func TestContextFiles(t *testing.T) {
	t.Parallel()

	hc := NewContext(&resource.Cluster{Name: "prod"}, nil, nil)
	hc.AddFile("auth/config.yaml", []byte("a: 1\n"))
	hc.AddFile("auth/secret.yaml", []byte("b: 2\n"))

	files := hc.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "auth/config.yaml", files[0].Path)
	assert.Equal(t, "auth/secret.yaml", files[1].Path)
}

func TestInjectValues(t *testing.T) {
	t.Parallel()

	tmpl := &resource.Template{Name: "app"}
	k := &resource.Kustomization{
		Name: "deployment",
		Substitutions: resource.Substitutions{
			resource.DopplerSubstitution{
				SubstitutionMeta: resource.SubstitutionMeta{VarName: "db_password"},
				Secret:           "DB_PASSWORD",
			},
		},
	}
	rk := &resolver.ResolvedKustomization{
		Template:      tmpl,
		Kustomization: k,
		Values:        map[string]string{"db_password": "placeholder"},
	}

	hc := NewContext(&resource.Cluster{Name: "prod"}, []*resource.Template{tmpl}, []*resolver.ResolvedKustomization{rk})
	hc.InjectValues(map[string]string{
		"db_password": "s3cret",
		"undeclared":  "ignored",
	})

	assert.Equal(t, "s3cret", rk.Values["db_password"])
	_, present := rk.Values["undeclared"]
	assert.False(t, present, "values for undeclared variables are not injected")
}
