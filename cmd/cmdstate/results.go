// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/urfave/cli/v3"
)

// WriteResults saves the results if --out was given, prints the summary, and
// returns an exit error when any worker failed. When streamed is false the
// workers' output was never shown, so it is included in the summary.
func WriteResults(ctx context.Context, cmd *cli.Command, set result.Set, streamed bool) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	w := cmd.Root().Writer

	if outFileName := cmd.String(OutFlag); outFileName != "" {
		f, err := os.Create(outFileName)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create output file %s: %s", outFileName, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		defer f.Close() //nolint:errcheck

		if err := result.WriteBinary(f, set); err != nil {
			logger.Error(fmt.Sprintf("Failed to write results to file %s: %s", outFileName, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info(fmt.Sprintf("Results written to %s", outFileName))
	}

	opts := result.DefaultOutputOptions()
	opts.IncludeOutput = !streamed || cmd.Bool(OutputStdOutFlag)
	opts.ShowSuccessDetails = cmd.Bool(OutputSuccessDetailsFlag)

	_, _ = fmt.Fprintln(w)

	if err := result.WriteText(w, set, opts); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if set.HasFailure() {
		logger.Warn("some workers failed", "failed", len(set.Failed()))
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// OperationError converts an error from the operations layer into a CLI exit.
// An unknown worker ID lists the IDs that do exist.
func OperationError(ctx context.Context, sw *Swarm, err error) error {
	ctxlog.Debug(ctx, "operation failed", "error", err)

	if errors.Is(err, registry.ErrWorkerNotFound) && sw != nil {
		return cli.Exit(fmt.Sprintf("%s (known workers: %v)", err.Error(), sw.Registry.IDs()), 1)
	}

	return cli.Exit(err.Error(), 1)
}
