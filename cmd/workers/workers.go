// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workers implements the command that lists the fleet.
package workers

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/urfave/cli/v3"
)

const detailsFlag = "details"

// NewWorkersCmd returns the command that lists the configured workers.
func NewWorkersCmd() *cli.Command {
	return &cli.Command{
		Name:    "workers",
		Aliases: []string{"ls"},
		Usage:   "List the configured workers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        detailsFlag,
				Aliases:     []string{"d"},
				Usage:       "Include the login user, key and working directory",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg, err := cmdstate.Config(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	w := cmd.Root().Writer

	if !cmd.Bool(detailsFlag) {
		_, _ = fmt.Fprintln(w, "Worker Configuration:")
		for _, wk := range reg.All() {
			_, _ = fmt.Fprintf(w, "  %s\n", wk)
		}

		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd
	_, _ = fmt.Fprintln(tw, "ID\tADDRESS\tROLE\tUSER\tKEY\tDIR")

	for _, wk := range reg.All() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			wk.ID, wk.Address, wk.Role.Key(), wk.User, wk.CredentialRef, wk.RemoteWorkingDir)
	}

	_, _ = fmt.Fprintf(tw, "\ntransport: %s\n", cfg.TransportKind())

	return tw.Flush() //nolint:wrapcheck
}
