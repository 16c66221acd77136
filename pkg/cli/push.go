/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kustodian/kustodian/pkg/defaults"
	"github.com/kustodian/kustodian/pkg/oci"
)

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:                  "push",
		EnableShellCompletion: true,
		Usage:                 "Push generated manifests to an OCI registry",
		ArgsUsage:             "oci://<registry>/<repository>[:<tag>]",
		Description: `Push a generated output directory as an OCI artifact. Credentials are
read from the Docker credential store.

# Examples

Push everything:
  kustodian push --source ./out oci://ghcr.io/org/gitops:v1.2.3

Push one cluster's output:
  kustodian push --source ./out --cluster prod --tag prod oci://ghcr.io/org/gitops`,
		Flags: []cli.Flag{
			logLevelFlag,
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Directory to push",
				Value:   "./out",
			},
			&cli.StringFlag{
				Name:  "cluster",
				Usage: "Push only this cluster's subdirectory",
			},
			&cli.StringFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Artifact tag (overrides the tag in the target reference)",
			},
			&cli.StringSliceFlag{
				Name:    "annotation",
				Aliases: []string{"a"},
				Usage:   "Artifact annotation in key=value form (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			target := cmd.Args().First()
			if target == "" {
				return fmt.Errorf("target reference is required (oci://<registry>/<repository>[:<tag>])")
			}
			ref, err := oci.ParseTarget(target)
			if err != nil {
				return err
			}
			if !ref.IsOCI {
				return fmt.Errorf("target must be an OCI reference, got %s", target)
			}
			if tag := cmd.String("tag"); tag != "" {
				ref = ref.WithTag(tag)
			}

			annotations, err := parseAnnotations(cmd.StringSlice("annotation"))
			if err != nil {
				return err
			}

			pushCtx, cancel := context.WithTimeout(ctx, defaults.PushTimeout)
			defer cancel()

			result, err := oci.Push(pushCtx, oci.PushOptions{
				SourceDir:   cmd.String("source"),
				Registry:    ref.Registry,
				Repository:  ref.Repository,
				Tag:         ref.Tag,
				SubDir:      cmd.String("cluster"),
				Annotations: annotations,
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure"),
			})
			if err != nil {
				return err
			}

			slog.Info("pushed artifact",
				"reference", result.Reference,
				"digest", result.Digest)
			fmt.Fprintln(cmd.Writer, result.Reference)
			return nil
		},
	}
}

func parseAnnotations(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid annotation %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
