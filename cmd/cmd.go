// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/swarm/cmd/broadcast"
	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/cmd/configcmd"
	"github.com/matt-FFFFFF/swarm/cmd/exec"
	"github.com/matt-FFFFFF/swarm/cmd/interactive"
	"github.com/matt-FFFFFF/swarm/cmd/show"
	"github.com/matt-FFFFFF/swarm/cmd/task"
	"github.com/matt-FFFFFF/swarm/cmd/workers"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = NewRootCmd()

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			workers.NewWorkersCmd(),
			broadcast.NewSyncCmd(),
			broadcast.NewStatusCmd(),
			task.NewBuildCmd(),
			task.NewLintCmd(),
			task.NewTestCmd(),
			exec.NewExecCmd(),
			interactive.NewInteractiveCmd(),
			show.NewShowCmd(),
			configcmd.NewConfigCmd(),
		},
		Flags:     cmdstate.GlobalFlags(),
		Before:    cmdstate.Before,
		Action:    interactive.Action,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "swarm",
		Description: `Swarm dispatches shell commands to a fleet of remote workers over SSH.
Commands run in each worker's working directory, either on one worker or on all
of them in parallel, with every output line streamed live and prefixed with the
worker it came from. Run without a subcommand for the interactive menu.`,
		Usage:     "swarm sync",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}
