/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kustodian/kustodian/pkg/loader"
	"github.com/kustodian/kustodian/pkg/logging"
)

const name = "kustodian"

// overridden during build with ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	projectFlag = &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"C"},
		Usage:   "Project root directory (default: walk up from cwd looking for kustodian.yaml)",
		Sources: cli.EnvVars("KUSTODIAN_PROJECT"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "info",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (json, yaml, table)",
		Value:   "yaml",
	}
)

// Root assembles the kustodian command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Generate Flux deployment manifests from templates and cluster configs",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Commands: []*cli.Command{
			generateCmd(),
			validateCmd(),
			graphCmd(),
			pushCmd(),
		},
	}
}

// Execute runs the CLI. Called once from main.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := Root().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging installs the default structured logger from the
// command's flags. Called at the top of every Action.
func setupLogging(cmd *cli.Command) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
}

// loadProject resolves the project root (explicit flag or marker-file
// walk-up from the working directory) and loads it.
func loadProject(cmd *cli.Command) (*loader.Project, error) {
	root := cmd.String("project")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root, err = loader.FindRoot(cwd)
		if err != nil {
			return nil, err
		}
	}

	l, err := loader.New()
	if err != nil {
		return nil, err
	}
	return l.LoadProject(root)
}
