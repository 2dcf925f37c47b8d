// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements the command that prints previously saved results.
package show

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/urfave/cli/v3"
)

const (
	fileArg = "file"
)

var (
	// ErrNoFile is returned when no results file is named.
	ErrNoFile = errors.New("no results file given")
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteResults is returned when the results cannot be written.
	ErrWriteResults = errors.New("failed to write results")
)

// NewShowCmd returns the command that prints results saved with --out.
func NewShowCmd() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show previously saved results",
		Description: "Show results saved by a previous run with --out.",
		ArgsUsage:   "<file>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: fileArg,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			name := cmd.StringArg(fileArg)
			if name == "" {
				return cli.Exit(ErrNoFile.Error(), 1)
			}

			file, err := os.Open(name)
			if err != nil {
				return errors.Join(ErrReadFile, err)
			}
			defer file.Close() //nolint:errcheck

			set, err := result.ReadBinary(file)
			if err != nil {
				return err //nolint:wrapcheck
			}

			opts := result.DefaultOutputOptions()
			opts.IncludeOutput = true
			opts.ShowSuccessDetails = cmd.Bool(cmdstate.OutputSuccessDetailsFlag)

			if err := result.WriteText(cmd.Root().Writer, set, opts); err != nil {
				return errors.Join(ErrWriteResults, err)
			}

			return nil
		},
	}
}
