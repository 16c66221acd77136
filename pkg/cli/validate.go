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
	"github.com/kustodian/kustodian/pkg/loader"
	"github.com/kustodian/kustodian/pkg/resolver"
	"github.com/kustodian/kustodian/pkg/serializers"
)

// validateReport summarizes a full project validation run.
type validateReport struct {
	Project   string   `json:"project" yaml:"project"`
	Templates int      `json:"templates" yaml:"templates"`
	Clusters  int      `json:"clusters" yaml:"clusters"`
	Valid     bool     `json:"valid" yaml:"valid"`
	Errors    []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate templates and cluster configs without generating",
		Description: `Run every check generation would run: schema validation, dependency
graph construction, cycle detection, enablement consistency per
cluster, and health expression linting. Exits non-zero when any check
fails.`,
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

			// Schema validation happens during load.
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}

			report := validateReport{
				Project:   project.Root,
				Templates: len(project.Templates),
				Clusters:  len(project.Clusters),
			}

			nodes, errs := graph.Build(project.Templates)
			for _, e := range errs {
				report.Errors = append(report.Errors, e.Error())
			}
			if len(errs) == 0 {
				cycles, _ := graph.DetectCycles(nodes)
				for _, c := range cycles {
					report.Errors = append(report.Errors,
						fmt.Sprintf("dependency cycle: %s", c))
				}
			}

			for _, cluster := range project.Clusters {
				if err := resolver.ValidateEnablement(cluster, project.Templates); err != nil {
					report.Errors = append(report.Errors, err.Error())
				}
			}

			for _, e := range loader.LintHealthExpressions(project.Templates) {
				report.Errors = append(report.Errors, e.Error())
			}

			report.Valid = len(report.Errors) == 0
			if err := serializers.NewStdoutWriter(format).Serialize(report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("validation failed with %d error(s)", len(report.Errors))
			}
			return nil
		},
	}
}
