// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package task implements the build, lint and test commands, which run on a single worker.
package task

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/operations"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/urfave/cli/v3"
)

const (
	workerArg       = "worker"
	defaultWorkerID = 1
)

type taskFunc func(ops *operations.Operations, ctx context.Context, id int) (result.Set, error)

// NewBuildCmd returns the command that builds on one worker.
func NewBuildCmd() *cli.Command {
	return newTaskCmd("build", "Run the build on a worker (default worker 1)", (*operations.Operations).BuildOn)
}

// NewLintCmd returns the command that lints on one worker.
func NewLintCmd() *cli.Command {
	return newTaskCmd("lint", "Run the linter on a worker (default worker 1)", (*operations.Operations).LintOn)
}

// NewTestCmd returns the command that runs the tests on one worker.
func NewTestCmd() *cli.Command {
	return newTaskCmd("test", "Run the tests on a worker (default worker 1)", (*operations.Operations).TestOn)
}

func newTaskCmd(name, usage string, fn taskFunc) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[worker id]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: workerArg,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := ParseWorkerID(cmd.StringArg(workerArg), defaultWorkerID)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			return cmdstate.Run(ctx, cmd, func(ctx context.Context, ops *operations.Operations) (result.Set, error) {
				return fn(ops, ctx, id)
			})
		},
	}
}

// ParseWorkerID parses a worker ID argument, returning def when s is empty.
func ParseWorkerID(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}

	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid worker id %q: must be a positive integer", s)
	}

	return id, nil
}
