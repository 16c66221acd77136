/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package generator

import (
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/kustodian/kustodian/pkg/defaults"
	"github.com/kustodian/kustodian/pkg/manifest"
	"github.com/kustodian/kustodian/pkg/resolver"
	"github.com/kustodian/kustodian/pkg/resource"
)

// buildKustomization renders one resolved kustomization. With preserved
// set, the manifest is emitted in the disabled-but-preserved state:
// pruning is off and each protected kind gets a preserve-label patch.
func (e *Engine) buildKustomization(rk *resolver.ResolvedKustomization, cluster *resource.Cluster, preserved bool) *manifest.Kustomization {
	k := rk.Kustomization

	spec := manifest.KustomizationSpec{
		Interval: metav1.Duration{Duration: e.interval},
		Timeout:  &metav1.Duration{Duration: defaults.ReconcileTimeout},
		Path:     manifestPath(e.basePath, rk.Template, k),
		Prune:    ptr.Deref(k.Prune, true),
		Wait:     ptr.Deref(k.Wait, true),
		SourceRef: manifest.SourceRef{
			Kind: sourceKind(cluster),
			Name: cluster.Source.RepositoryName(),
		},
	}

	if k.Timeout != nil {
		spec.Timeout = &metav1.Duration{Duration: k.Timeout.Duration.Duration}
	}
	if k.RetryInterval != nil {
		spec.RetryInterval = &metav1.Duration{Duration: k.RetryInterval.Duration.Duration}
	}
	if k.Namespace != nil {
		spec.TargetNamespace = rk.Namespace
	}

	for _, expr := range k.DependsOn {
		ref, err := expr.Parse()
		if err != nil {
			// Graph construction already rejected malformed refs.
			continue
		}
		switch r := ref.(type) {
		case resource.WithinTemplateRef:
			spec.DependsOn = append(spec.DependsOn, manifest.DependencyReference{
				Name: resource.QualifiedName(rk.Template.Name, r.Kustomization),
			})
		case resource.CrossTemplateRef:
			spec.DependsOn = append(spec.DependsOn, manifest.DependencyReference{
				Name: resource.QualifiedName(r.Template, r.Kustomization),
			})
		case resource.RawRef:
			spec.DependsOn = append(spec.DependsOn, manifest.DependencyReference{
				Name:      r.Name,
				Namespace: r.Namespace,
			})
		}
	}

	if len(rk.Values) > 0 {
		substitute := make(map[string]string, len(rk.Values))
		for name, v := range rk.Values {
			substitute[name] = v
		}
		spec.PostBuild = &manifest.PostBuild{Substitute: substitute}
	}

	for _, hc := range k.HealthChecks {
		apiVersion := hc.APIVersion
		if apiVersion == "" {
			apiVersion = manifest.DefaultHealthCheckAPIVersion
		}
		spec.HealthChecks = append(spec.HealthChecks, manifest.ResourceRef{
			APIVersion: apiVersion,
			Kind:       hc.Kind,
			Name:       hc.Name,
			Namespace:  hc.Namespace,
		})
	}

	// CEL expressions pass through verbatim; syntax is the
	// reconciler's concern.
	for _, chc := range k.CustomHealthChecks {
		spec.CustomHealthChecks = append(spec.CustomHealthChecks, manifest.CustomHealthCheck{
			APIVersion: chc.APIVersion,
			Kind:       chc.Kind,
			Namespace:  chc.Namespace,
			Current:    chc.Current,
			Failed:     chc.Failed,
		})
	}

	if preserved {
		spec.Prune = false
		for _, kind := range rk.Preservation.Kinds() {
			spec.Patches = append(spec.Patches, preservePatch(kind))
		}
	}

	return &manifest.Kustomization{
		APIVersion: manifest.KustomizeAPIVersion,
		Kind:       manifest.KindKustomization,
		Metadata: manifest.ObjectMeta{
			Name:      rk.QualifiedName(),
			Namespace: defaults.FluxNamespace,
		},
		Spec: spec,
	}
}

// manifestPath joins the base path, the template's source directory, and
// the kustomization path with its leading "./" stripped.
func manifestPath(basePath string, t *resource.Template, k *resource.Kustomization) string {
	kpath := strings.TrimPrefix(k.Path, "./")
	return fmt.Sprintf("%s/%s/%s", basePath, t.SourcePath(), kpath)
}

func sourceKind(cluster *resource.Cluster) string {
	if cluster.UsesOCI() {
		return manifest.KindOCIRepository
	}
	return manifest.KindGitRepository
}

// preservePatch labels every resource of the kind so operators and
// cleanup tooling can tell protected resources apart.
func preservePatch(kind string) manifest.Patch {
	return manifest.Patch{
		Patch: fmt.Sprintf(
			"- op: add\n  path: /metadata/labels/%s\n  value: \"true\"\n",
			strings.ReplaceAll(manifest.PreserveLabel, "/", "~1")),
		Target: &manifest.PatchTarget{Kind: kind},
	}
}
