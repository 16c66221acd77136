/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package generator

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kustodian/kustodian/pkg/defaults"
	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/manifest"
	"github.com/kustodian/kustodian/pkg/resource"
)

// buildSource renders the OCIRepository manifest for a cluster with an
// OCI source.
func (e *Engine) buildSource(cluster *resource.Cluster) (*manifest.OCIRepository, error) {
	src := cluster.Source
	if src.Registry == "" || src.Repository == "" {
		return nil, errors.Newf(errors.ErrCodeConfiguration,
			"cluster %s: OCI source requires registry and repository", cluster.Name)
	}

	tag, err := sourceTag(cluster)
	if err != nil {
		return nil, err
	}

	spec := manifest.OCIRepositorySpec{
		URL:      fmt.Sprintf("oci://%s/%s", src.Registry, src.Repository),
		Interval: metav1.Duration{Duration: e.sourceInterval},
		Ref:      manifest.OCIRepositoryRef{Tag: tag},
		Insecure: src.Insecure,
	}
	if src.SecretRef != "" {
		spec.SecretRef = &corev1.LocalObjectReference{Name: src.SecretRef}
	}

	return &manifest.OCIRepository{
		APIVersion: manifest.SourceAPIVersion,
		Kind:       manifest.KindOCIRepository,
		Metadata: manifest.ObjectMeta{
			Name:      src.RepositoryName(),
			Namespace: defaults.FluxNamespace,
		},
		Spec: spec,
	}, nil
}

// sourceTag selects the artifact tag per the configured strategy. Any
// strategy other than cluster or manual yields a placeholder tag meant
// to be overwritten by an external CI step.
func sourceTag(cluster *resource.Cluster) (string, error) {
	src := cluster.Source
	switch src.TagStrategy {
	case resource.TagStrategyCluster:
		return cluster.Name, nil
	case resource.TagStrategyManual:
		if src.Tag == "" {
			return "", errors.Newf(errors.ErrCodeConfiguration,
				"cluster %s: manual tag strategy requires an explicit tag", cluster.Name)
		}
		return src.Tag, nil
	default:
		return defaults.PlaceholderTag, nil
	}
}

// fluxControllers are the reconciler deployments tuning patches apply to.
var fluxControllers = []string{
	"source-controller",
	"kustomize-controller",
	"helm-controller",
}

// buildControllerPatches renders one tuning patch per controller with
// effective settings, falling back to the global defaults where the
// per-controller block leaves a knob unset.
func buildControllerPatches(cfg *resource.FluxConfig) []manifest.ControllerPatch {
	if cfg == nil {
		return nil
	}

	perController := map[string]*resource.ControllerSettings{
		"source-controller":    cfg.SourceController,
		"kustomize-controller": cfg.KustomizeController,
		"helm-controller":      cfg.HelmController,
	}

	var patches []manifest.ControllerPatch
	for _, controller := range fluxControllers {
		settings := effectiveSettings(perController[controller], cfg.Defaults)
		patch := controllerPatch(controller, settings)
		if patch == nil {
			continue
		}
		patches = append(patches, *patch)
	}
	return patches
}

func effectiveSettings(specific *resource.ControllerSettings, global resource.ControllerSettings) resource.ControllerSettings {
	out := global
	if specific != nil {
		if specific.Concurrent != nil {
			out.Concurrent = specific.Concurrent
		}
		if specific.RequeueDependency != nil {
			out.RequeueDependency = specific.RequeueDependency
		}
	}
	return out
}

func controllerPatch(controller string, settings resource.ControllerSettings) *manifest.ControllerPatch {
	var ops string
	if settings.Concurrent != nil {
		ops += fmt.Sprintf(
			"- op: add\n  path: /spec/template/spec/containers/0/args/-\n  value: --concurrent=%d\n",
			*settings.Concurrent)
	}
	if settings.RequeueDependency != nil {
		ops += fmt.Sprintf(
			"- op: add\n  path: /spec/template/spec/containers/0/args/-\n  value: --requeue-dependency=%s\n",
			settings.RequeueDependency.Duration.Duration)
	}
	if ops == "" {
		return nil
	}

	return &manifest.ControllerPatch{
		Controller: controller,
		Patch: manifest.Patch{
			Patch:  ops,
			Target: &manifest.PatchTarget{Kind: "Deployment", Name: controller},
		},
	}
}
