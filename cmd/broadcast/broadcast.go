// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package broadcast implements the commands that run a routine operation on every worker.
package broadcast

import (
	"context"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/operations"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/urfave/cli/v3"
)

// NewSyncCmd returns the command that pulls the latest code on every worker.
func NewSyncCmd() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Pull the latest code on every worker",
		Description: `Run the sync command (git pull origin dev by default) in each worker's
working directory, all workers in parallel. Output is streamed live, prefixed
with the worker it came from.`,
		Flags: []cli.Flag{cmdstate.NewTUIFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdstate.RunBroadcast(ctx, cmd, "Sync all workers",
				func(c operations.Commands) string { return c.Sync },
				func(ctx context.Context, ops *operations.Operations) (result.Set, error) {
					return ops.SyncAll(ctx)
				})
		},
	}
}

// NewStatusCmd returns the command that reports the repository status of every worker.
func NewStatusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the repository status of every worker",
		Flags: []cli.Flag{cmdstate.NewTUIFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdstate.RunBroadcast(ctx, cmd, "Swarm status",
				func(c operations.Commands) string { return c.Status },
				func(ctx context.Context, ops *operations.Operations) (result.Set, error) {
					return ops.StatusAll(ctx)
				})
		},
	}
}
