// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package exec implements the command that runs an arbitrary command on one worker or on all of them.
package exec

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/operations"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/urfave/cli/v3"
)

const workerFlag = "worker"

// ErrNoCommand is returned when exec is given nothing to run.
var ErrNoCommand = errors.New("no command given")

// NewExecCmd returns the exec command.
func NewExecCmd() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run a command on one worker, or on every worker in parallel",
		ArgsUsage: "[worker id] <command...>",
		Description: `Run an arbitrary command in each worker's working directory.
Without --worker (or a leading worker ID) the command is broadcast to every worker.

  swarm exec -w 2 'npm ci'
  swarm exec 2 npm ci
  swarm exec git log -1 --oneline`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     workerFlag,
				Aliases:  []string{"w"},
				Usage:    "ID of the worker to run on",
				OnlyOnce: true,
			},
			cmdstate.NewTUIFlag(),
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	var id *int

	if cmd.IsSet(workerFlag) {
		v := int(cmd.Int(workerFlag))
		id = &v
	}

	id, command, err := ParseArgs(id, cmd.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	op := func(ctx context.Context, ops *operations.Operations) (result.Set, error) {
		return ops.RunCustom(ctx, command, id)
	}

	if id != nil {
		return cmdstate.Run(ctx, cmd, op)
	}

	return cmdstate.RunBroadcast(ctx, cmd, "Custom command on all workers",
		func(operations.Commands) string { return command }, op)
}

// ParseArgs joins args into the command to run. When id is nil and the first of
// several args is a positive integer, it is taken as the worker ID.
func ParseArgs(id *int, args []string) (*int, string, error) {
	if id == nil && len(args) > 1 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			id = &n
			args = args[1:]
		}
	}

	command := strings.TrimSpace(strings.Join(args, " "))
	if command == "" {
		return id, "", ErrNoCommand
	}

	return id, command, nil
}
