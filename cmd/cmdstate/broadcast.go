// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/operations"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/matt-FFFFFF/swarm/internal/tui"
	"github.com/urfave/cli/v3"
)

// OperationFunc runs one operation and returns its results.
type OperationFunc func(ctx context.Context, ops *operations.Operations) (result.Set, error)

// TUIOptions are passed to every dashboard runner. Tests replace them to run headless.
var TUIOptions []tui.Option

// Run builds the swarm, runs op with output streamed to the command's writer, and writes the results.
// Each worker is logged as it finishes.
func Run(ctx context.Context, cmd *cli.Command, op OperationFunc) error {
	ctx = ctxlog.With(ctx, "command", cmd.Name)

	sw, err := Build(ctx, cmd.Root().Writer)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	rep := progress.NewChannelReporter(ctx, progressBuffer)
	rep.Listen(completionLog(ctx))

	set, err := op(progress.WithReporter(ctx, rep), sw.Operations)

	rep.Close()

	if err != nil {
		return OperationError(ctx, sw, err)
	}

	return WriteResults(ctx, cmd, set, true)
}

// RunBroadcast is Run for operations that target every worker. With --tui the live
// dashboard replaces the streamed output and logs are held back until it exits.
// title labels the dashboard and command selects the command it shows.
func RunBroadcast(ctx context.Context, cmd *cli.Command, title string, command func(operations.Commands) string, op OperationFunc) error {
	if !cmd.Bool(TUIFlag) {
		return Run(ctx, cmd, op)
	}

	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Info("Starting interactive TUI mode...")

	buf := new(bytes.Buffer)
	tuiCtx := ctxlog.NewForTUI(ctx, buf)

	sw, err := Build(tuiCtx, io.Discard)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	runner := tui.NewRunner(title, command(sw.Operations.Commands()), sw.Registry.All(), TUIOptions...)

	var opErr error

	set, tuiErr := runner.Run(tuiCtx, func(ctx context.Context) result.Set {
		s, err := op(ctx, sw.Operations)
		opErr = err

		return s
	})

	buf.WriteTo(cmd.Root().ErrWriter) //nolint:errcheck

	if tuiErr != nil {
		logger.Error(fmt.Sprintf("TUI execution error: %s", tuiErr.Error()), "error", tuiErr.Error())
	}

	if opErr != nil {
		return OperationError(ctx, sw, opErr)
	}

	return WriteResults(ctx, cmd, set, false)
}
