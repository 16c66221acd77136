/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/kustodian/kustodian/pkg/generator"
	"github.com/kustodian/kustodian/pkg/hooks"
	"github.com/kustodian/kustodian/pkg/loader"
	"github.com/kustodian/kustodian/pkg/oci"
	"github.com/kustodian/kustodian/pkg/provider"
	"github.com/kustodian/kustodian/pkg/resource"
	"github.com/kustodian/kustodian/pkg/writer"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		EnableShellCompletion: true,
		Usage:                 "Generate deployment manifests for clusters",
		Description: `Generate Flux Kustomization and source manifests for every cluster in
the project (or the clusters named with --cluster). Clusters are
generated concurrently; output is deterministic per cluster.

# Examples

Generate everything:
  kustodian generate -o ./out

Generate one cluster:
  kustodian generate --cluster prod -o ./out`,
		Flags: []cli.Flag{
			projectFlag,
			logLevelFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
				Sources: cli.EnvVars("KUSTODIAN_OUTPUT"),
				Value:   "./out",
			},
			&cli.StringSliceFlag{
				Name:  "cluster",
				Usage: "Cluster to generate (can be repeated; default: all)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			project, err := loadProject(cmd)
			if err != nil {
				return err
			}
			clusters, err := selectClusters(project, cmd.StringSlice("cluster"))
			if err != nil {
				return err
			}

			w, err := writer.New(writer.WithOutputDir(cmd.String("output")))
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			for _, cluster := range clusters {
				g.Go(func() error {
					eng, err := generator.New(generator.WithPipeline(pipelineFor(cluster)))
					if err != nil {
						return err
					}
					result, err := eng.Generate(gctx, cluster, project.Templates)
					if err != nil {
						return fmt.Errorf("cluster %s: %w", cluster.Name, err)
					}
					files, err := w.Write(result)
					if err != nil {
						return fmt.Errorf("cluster %s: %w", cluster.Name, err)
					}
					slog.Info("generated cluster output",
						"cluster", cluster.Name,
						"manifests", len(result.Kustomizations),
						"files", len(files))
					return nil
				})
			}
			return g.Wait()
		},
	}
}

// selectClusters resolves the --cluster selection against the project,
// defaulting to every cluster.
func selectClusters(project *loader.Project, names []string) ([]*resource.Cluster, error) {
	if len(names) == 0 {
		return project.Clusters, nil
	}

	clusters := make([]*resource.Cluster, 0, len(names))
	for _, name := range names {
		c := project.Cluster(name)
		if c == nil {
			return nil, fmt.Errorf("unknown cluster %q", name)
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}

// pipelineFor builds the hook pipeline for one cluster: the provider
// dispatcher with the registry-backed version provider, plus a static
// provider when the cluster carries a "static" plugin config.
//
// The version provider only contacts a registry for version
// substitutions that declare one, so offline projects are unaffected.
func pipelineFor(cluster *resource.Cluster) *hooks.Pipeline {
	registry := provider.NewRegistry()
	registry.Register(
		provider.Key{Kind: resource.SubstitutionVersion},
		provider.NewVersions(provider.TagListerFunc(oci.ListTags)))
	if cfg, ok := cluster.Plugins["static"]; ok {
		values := make(map[string]string, len(cfg))
		for k, v := range cfg {
			values[k] = fmt.Sprintf("%v", v)
		}
		registry.Register(
			provider.Key{Kind: resource.SubstitutionPlugin, Plugin: "static"},
			provider.NewStatic(values))
	}

	pipeline := hooks.NewPipeline()
	pipeline.Register(hooks.EventAfterResolve, 0, provider.Hook(registry))
	return pipeline
}
