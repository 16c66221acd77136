/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kustodian/kustodian/pkg/manifest"
)

func sampleResult() *manifest.Result {
	k := func(template, name string) manifest.Entry {
		return manifest.Entry{
			Template: template,
			Manifest: &manifest.Kustomization{
				APIVersion: manifest.KustomizeAPIVersion,
				Kind:       manifest.KindKustomization,
				Metadata:   manifest.ObjectMeta{Name: name, Namespace: "flux-system"},
				Spec: manifest.KustomizationSpec{
					Interval: metav1.Duration{Duration: 10 * time.Minute},
					Path:     "./templates/" + template,
					Prune:    true,
					SourceRef: manifest.SourceRef{
						Kind: manifest.KindOCIRepository,
						Name: "flux-system",
					},
				},
			},
		}
	}

	return &manifest.Result{
		Cluster: "prod",
		RunID:   "run-1",
		Kustomizations: []manifest.Entry{
			k("nginx", "nginx-deployment"),
			k("db", "db-server"),
		},
		Source: &manifest.OCIRepository{
			APIVersion: manifest.SourceAPIVersion,
			Kind:       manifest.KindOCIRepository,
			Metadata:   manifest.ObjectMeta{Name: "flux-system", Namespace: "flux-system"},
			Spec: manifest.OCIRepositorySpec{
				URL:      "oci://ghcr.io/org/gitops",
				Interval: metav1.Duration{Duration: time.Minute},
				Ref:      manifest.OCIRepositoryRef{Tag: "prod"},
			},
		},
		ControllerPatches: []manifest.ControllerPatch{{
			Controller: "kustomize-controller",
			Patch: manifest.Patch{
				Patch:  "- op: add\n  path: /spec/template/spec/containers/0/args/-\n  value: --concurrent=10\n",
				Target: &manifest.PatchTarget{Kind: "Deployment", Name: "kustomize-controller"},
			},
		}},
	}
}

func TestWriteLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(WithOutputDir(dir))
	require.NoError(t, err)

	result := sampleResult()
	result.Files = []manifest.File{{Path: "auth/notes.txt", Data: []byte("generated")}}
	written, err := w.Write(result)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"auth/notes.txt",
		"db/db-server.yaml",
		"flux-system/patches.yaml",
		"flux-system/source.yaml",
		"kustomization.yaml",
		"nginx/nginx-deployment.yaml",
	}, written)

	for _, rel := range written {
		_, err := os.Stat(filepath.Join(dir, "prod", rel))
		assert.NoError(t, err, rel)
	}

	data, err := os.ReadFile(filepath.Join(dir, "prod", "nginx", "nginx-deployment.yaml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Code generated by kustodian")
	assert.Contains(t, content, "kind: Kustomization")
	assert.Contains(t, content, "name: nginx-deployment")
	assert.Contains(t, content, "interval: 10m0s")
}

func TestWriteAggregateSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(WithOutputDir(dir))
	require.NoError(t, err)

	_, err = w.Write(sampleResult())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "prod", "kustomization.yaml"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "kustomize.config.k8s.io/v1beta1")
	// Entries are sorted, not in generation order.
	assert.Less(t,
		indexOf(t, content, "db/db-server.yaml"),
		indexOf(t, content, "nginx/nginx-deployment.yaml"))
	assert.Contains(t, content, "flux-system/source.yaml")
	assert.NotContains(t, content, "patches.yaml",
		"tuning patches are not a standalone resource")
}

func TestWriteDeterministic(t *testing.T) {
	t.Parallel()

	write := func() map[string][]byte {
		dir := t.TempDir()
		w, err := New(WithOutputDir(dir))
		require.NoError(t, err)
		written, err := w.Write(sampleResult())
		require.NoError(t, err)

		out := make(map[string][]byte, len(written))
		for _, rel := range written {
			data, err := os.ReadFile(filepath.Join(dir, "prod", rel))
			require.NoError(t, err)
			out[rel] = data
		}
		return out
	}

	assert.Equal(t, write(), write(), "identical input must produce byte-identical files")
}

func TestWriteNoSourceNoPatches(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	result.Source = nil
	result.ControllerPatches = nil

	dir := t.TempDir()
	w, err := New(WithOutputDir(dir))
	require.NoError(t, err)

	written, err := w.Write(result)
	require.NoError(t, err)
	assert.NotContains(t, written, SourceFile)
	assert.NotContains(t, written, PatchesFile)

	data, err := os.ReadFile(filepath.Join(dir, "prod", "kustomization.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "flux-system/source.yaml")
}

func TestWriteRejectsEscapingAuxPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(WithOutputDir(dir))
	require.NoError(t, err)

	for _, path := range []string{"../outside.txt", "/etc/passwd", "a/../../b"} {
		result := sampleResult()
		result.Files = []manifest.File{{Path: path, Data: []byte("x")}}
		_, err := w.Write(result)
		assert.Error(t, err, path)
	}
}

func TestWriteNilResult(t *testing.T) {
	t.Parallel()

	w, err := New()
	require.NoError(t, err)
	_, err = w.Write(nil)
	require.Error(t, err)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, needle)
	return idx
}
