/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestQualifiedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nginx-deployment", QualifiedName("nginx", "deployment"))
}

func TestSubstitutionsDecode(t *testing.T) {
	t.Parallel()

	doc := `
- name: replicas
  default: "2"
- name: app_version
  type: version
  registry: ghcr.io/org/app
  constraint: ">=1.2"
  tag_filter: stable
- name: ns
  type: namespace
- name: db_password
  type: doppler
  project: core
  config: prd
  secret: DB_PASSWORD
- name: api_key
  type: plugin
  plugin: vault
  config:
    path: secret/api
`
	var subs Substitutions
	require.NoError(t, yaml.Unmarshal([]byte(doc), &subs))
	require.Len(t, subs, 5)

	assert.Equal(t, SubstitutionGeneric, subs[0].Kind())
	assert.Equal(t, "replicas", subs[0].Name())
	assert.Equal(t, "2", subs[0].Default())

	ver, ok := subs[1].(VersionSubstitution)
	require.True(t, ok)
	assert.Equal(t, "ghcr.io/org/app", ver.Registry)
	assert.Equal(t, ">=1.2", ver.Constraint)
	assert.Equal(t, "stable", ver.TagFilter)

	assert.Equal(t, SubstitutionNamespace, subs[2].Kind())

	dop, ok := subs[3].(DopplerSubstitution)
	require.True(t, ok)
	assert.Equal(t, "DB_PASSWORD", dop.Secret)

	plg, ok := subs[4].(PluginSubstitution)
	require.True(t, ok)
	assert.Equal(t, "vault", plg.PluginType)
	assert.Equal(t, "secret/api", plg.Config["path"])
}

func TestSubstitutionsDecodeErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown type":   "- name: x\n  type: wat\n",
		"missing name":   "- type: generic\n",
		"missing plugin": "- name: x\n  type: plugin\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var subs Substitutions
			assert.Error(t, yaml.Unmarshal([]byte(doc), &subs))
		})
	}
}

func TestDependencyExprDecode(t *testing.T) {
	t.Parallel()

	doc := `
- db
- secrets/doppler
- raw:
    name: legacy
    namespace: gitops-system
`
	var deps []DependencyExpr
	require.NoError(t, yaml.Unmarshal([]byte(doc), &deps))
	require.Len(t, deps, 3)

	within, err := deps[0].Parse()
	require.NoError(t, err)
	assert.Equal(t, WithinTemplateRef{Kustomization: "db"}, within)

	cross, err := deps[1].Parse()
	require.NoError(t, err)
	assert.Equal(t, CrossTemplateRef{Template: "secrets", Kustomization: "doppler"}, cross)

	raw, err := deps[2].Parse()
	require.NoError(t, err)
	assert.Equal(t, RawRef{Name: "legacy", Namespace: "gitops-system"}, raw)
}

func TestDependencyExprParseErrors(t *testing.T) {
	t.Parallel()

	for _, ref := range []string{"", "  ", "a/b/c", "/b", "a/"} {
		_, err := DependencyExpr{Ref: ref}.Parse()
		assert.Error(t, err, "ref %q", ref)
	}

	_, err := DependencyExpr{Raw: &RawRef{}}.Parse()
	assert.Error(t, err)
}

func TestPreservationPolicyDecode(t *testing.T) {
	t.Parallel()

	t.Run("shorthand", func(t *testing.T) {
		t.Parallel()
		var p PreservationPolicy
		require.NoError(t, yaml.Unmarshal([]byte(`stateful`), &p))
		assert.Equal(t, PreservationStateful, p.Mode)
		assert.Equal(t, []string{"PersistentVolumeClaim", "Secret", "ConfigMap"}, p.Kinds())
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()
		var p PreservationPolicy
		doc := "mode: custom\nkeep_resources: [Secret]\n"
		require.NoError(t, yaml.Unmarshal([]byte(doc), &p))
		assert.Equal(t, []string{"Secret"}, p.Kinds())
	})

	t.Run("custom without kinds", func(t *testing.T) {
		t.Parallel()
		var p PreservationPolicy
		assert.Error(t, yaml.Unmarshal([]byte(`custom`), &p))
	})

	t.Run("none keeps nothing", func(t *testing.T) {
		t.Parallel()
		var p PreservationPolicy
		require.NoError(t, yaml.Unmarshal([]byte(`none`), &p))
		assert.Empty(t, p.Kinds())
	})
}

func TestKustomizationOverrideShorthand(t *testing.T) {
	t.Parallel()

	var cfg TemplateConfig
	doc := `
name: nginx
kustomizations:
  deployment: false
  ingress:
    enabled: true
    preservation: none
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))

	dep := cfg.Kustomizations["deployment"]
	require.NotNil(t, dep.Enabled)
	assert.False(t, *dep.Enabled)

	ing := cfg.Kustomizations["ingress"]
	require.NotNil(t, ing.Enabled)
	assert.True(t, *ing.Enabled)
	require.NotNil(t, ing.Preservation)
	assert.Equal(t, PreservationNone, ing.Preservation.Mode)
}

func TestDurationDecode(t *testing.T) {
	t.Parallel()

	var k Kustomization
	doc := "name: app\npath: ./app\ntimeout: 90s\n"
	require.NoError(t, yaml.Unmarshal([]byte(doc), &k))
	require.NotNil(t, k.Timeout)
	assert.Equal(t, 90*time.Second, k.Timeout.Duration.Duration)

	assert.Error(t, yaml.Unmarshal([]byte("name: app\ntimeout: soon\n"), &k))
}

func TestVersionEntryValidate(t *testing.T) {
	t.Parallel()

	img := VersionEntry{Name: "app", Image: &ImageVersion{Registry: "ghcr.io/org/app"}}
	assert.NoError(t, img.Validate())

	both := VersionEntry{
		Name:  "app",
		Image: &ImageVersion{Registry: "r"},
		Helm:  &HelmVersion{Repository: "u", Chart: "c"},
	}
	assert.Error(t, both.Validate())

	neither := VersionEntry{Name: "app"}
	assert.Error(t, neither.Validate())
}

func TestClusterAccessors(t *testing.T) {
	t.Parallel()

	c := &Cluster{
		Name: "prod",
		Source: &SourceConfig{
			Kind:       SourceOCI,
			Registry:   "ghcr.io",
			Repository: "org/gitops",
		},
		Templates: []TemplateConfig{{Name: "nginx"}},
	}

	assert.True(t, c.UsesOCI())
	assert.NotNil(t, c.TemplateConfig("nginx"))
	assert.Nil(t, c.TemplateConfig("absent"))
	assert.Equal(t, "flux-system", c.Source.RepositoryName())
}
