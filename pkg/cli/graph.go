/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kustodian/kustodian/pkg/graph"
	"github.com/kustodian/kustodian/pkg/serializers"
)

// graphReport lists the dependency graph in apply order.
type graphReport struct {
	Nodes []graphNode `json:"nodes" yaml:"nodes"`
}

type graphNode struct {
	ID        string   `json:"id" yaml:"id"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:                  "graph",
		EnableShellCompletion: true,
		Usage:                 "Print the kustomization dependency graph in apply order",
		Flags: []cli.Flag{
			projectFlag,
			logLevelFlag,
			formatFlag,
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			format := serializers.Format(cmd.String("format"))
			if format.IsUnknown() {
				return fmt.Errorf("unsupported format: %s", format)
			}

			project, err := loadProject(cmd)
			if err != nil {
				return err
			}

			nodes, errs := graph.Build(project.Templates)
			if len(errs) > 0 {
				return fmt.Errorf("invalid dependency graph: %v", errs[0])
			}
			cycles, order := graph.DetectCycles(nodes)
			if len(cycles) > 0 {
				return fmt.Errorf("dependency cycle: %s", cycles[0])
			}

			report := graphReport{Nodes: make([]graphNode, 0, len(order))}
			for _, id := range order {
				report.Nodes = append(report.Nodes, graphNode{
					ID:        id,
					DependsOn: nodes[id].Dependencies,
				})
			}
			return serializers.NewStdoutWriter(format).Serialize(report)
		},
	}
}
