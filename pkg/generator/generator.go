/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package generator

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kustodian/kustodian/pkg/defaults"
	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/graph"
	"github.com/kustodian/kustodian/pkg/hooks"
	"github.com/kustodian/kustodian/pkg/manifest"
	"github.com/kustodian/kustodian/pkg/resolver"
	"github.com/kustodian/kustodian/pkg/resource"
)

// Engine generates deployment manifests for clusters from a shared
// template set.
//
// Thread-safety: Engine is safe for concurrent use; each Generate call
// builds its own graph and hook context.
type Engine struct {
	pipeline *hooks.Pipeline

	basePath       string
	interval       time.Duration
	sourceInterval time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithPipeline sets the hook pipeline fired at the defined generation
// phases. Without one, no hooks run.
func WithPipeline(p *hooks.Pipeline) Option {
	return func(e *Engine) {
		if p != nil {
			e.pipeline = p
		}
	}
}

// WithBasePath sets the path prefix of generated kustomization paths.
func WithBasePath(path string) Option {
	return func(e *Engine) {
		if path != "" {
			e.basePath = path
		}
	}
}

// WithInterval sets the default reconciliation interval.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// New creates a new Engine with the given options.
//
// Example:
//
//	eng, err := generator.New(
//	    generator.WithPipeline(pipeline),
//	    generator.WithBasePath("./templates"),
//	)
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		pipeline:       hooks.NewPipeline(),
		basePath:       defaults.TemplatesBasePath,
		interval:       defaults.ReconcileInterval,
		sourceInterval: defaults.SourceInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Generate produces the deployment manifests for one cluster.
//
// The run fails on accumulated structural graph errors, on any
// dependency cycle, on an enabled kustomization depending on a disabled
// one, on a provider resolution failure, or on invalid source
// configuration. No partial result is returned on failure.
func (e *Engine) Generate(ctx context.Context, cluster *resource.Cluster, templates []*resource.Template) (*manifest.Result, error) {
	if cluster == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "cluster cannot be nil")
	}

	nodes, buildErrs := graph.Build(templates)
	if len(buildErrs) > 0 {
		return nil, errors.Wrap(errors.ErrCodeGraphInvalid,
			"dependency graph has structural errors", stderrors.Join(buildErrs...))
	}

	if cycles, _ := graph.DetectCycles(nodes); len(cycles) > 0 {
		rendered := make([]string, len(cycles))
		for i, c := range cycles {
			rendered[i] = c.String()
		}
		return nil, errors.Newf(errors.ErrCodeDependencyCycle,
			"dependency cycles detected: %s", strings.Join(rendered, "; "))
	}

	if err := resolver.ValidateEnablement(cluster, templates); err != nil {
		return nil, err
	}

	resolved, err := resolver.ResolveAll(cluster, templates)
	if err != nil {
		return nil, err
	}

	hc := hooks.NewContext(cluster, templates, resolved)
	if err := e.pipeline.Dispatch(ctx, hooks.EventAfterResolve, hc); err != nil {
		return nil, err
	}

	result := &manifest.Result{
		Cluster: cluster.Name,
		RunID:   uuid.NewString(),
	}

	for _, rk := range resolved {
		switch {
		case rk.Enabled:
			result.Kustomizations = append(result.Kustomizations, manifest.Entry{
				Template: rk.Template.Name,
				Manifest: e.buildKustomization(rk, cluster, false),
			})
		case len(rk.Preservation.Kinds()) > 0:
			// Disabled but preserved: emit with prune off and the
			// preserve-label patches so protected kinds survive.
			result.Kustomizations = append(result.Kustomizations, manifest.Entry{
				Template: rk.Template.Name,
				Manifest: e.buildKustomization(rk, cluster, true),
			})
		default:
			slog.Debug("skipping disabled kustomization",
				"cluster", cluster.Name,
				"kustomization", rk.QualifiedName())
		}
	}

	if cluster.UsesOCI() {
		source, err := e.buildSource(cluster)
		if err != nil {
			return nil, err
		}
		result.Source = source
	}
	result.ControllerPatches = buildControllerPatches(cluster.Flux)

	hc.Result = result
	if err := e.pipeline.Dispatch(ctx, hooks.EventBeforeWrite, hc); err != nil {
		return nil, err
	}
	for _, f := range hc.Files() {
		result.Files = append(result.Files, manifest.File{Path: f.Path, Data: f.Data})
	}

	return result, nil
}
