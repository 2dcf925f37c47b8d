// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the state shared by every subcommand: the global flags,
// the loaded worker table and the wiring from configuration to operations.
package cmdstate

import (
	"github.com/urfave/cli/v3"
)

// Global flag names.
const (
	ConfigFlag               = "config"
	TransportFlag            = "transport"
	TimeoutFlag              = "timeout"
	ConnectTimeoutFlag       = "connect-timeout"
	OutFlag                  = "out"
	OutputSuccessDetailsFlag = "output-success-details"
	OutputStdOutFlag         = "output-stdout"
	NoColorFlag              = "no-color"
	TUIFlag                  = "tui"
)

// ConfigEnvVar may hold the worker table URL instead of --config.
const ConfigEnvVar = "SWARM_CONFIG"

// cliExitStr is the message for cli.Exit when the error has already been logged.
const cliExitStr = ""

// GlobalFlags returns the flags accepted by every subcommand.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage: "URL of the worker table (YAML, HCL or TOML). " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"The built-in fleet is used when empty.",
			Sources:   cli.EnvVars(ConfigEnvVar),
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     TransportFlag,
			Usage:    "Remote execution channel: openssh (system ssh client), native (built-in client) or local",
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     TimeoutFlag,
			Usage:    "Per-worker timeout, e.g. 10m. Zero waits indefinitely.",
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     ConnectTimeoutFlag,
			Usage:    "Bound on establishing each connection. Zero uses the transport default.",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      OutFlag,
			Usage:     "Write the results to this file, to be viewed later with 'swarm show'",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:        OutputSuccessDetailsFlag,
			Aliases:     []string{"success"},
			Usage:       "Include successful workers' output in the summary",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        OutputStdOutFlag,
			Aliases:     []string{"stdout"},
			Usage:       "Repeat each worker's output in the summary",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        NoColorFlag,
			Usage:       "Disable coloured output",
			DefaultText: "false",
			OnlyOnce:    true,
		},
	}
}

// NewTUIFlag returns the flag that enables the live dashboard on broadcasts.
func NewTUIFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        TUIFlag,
		Aliases:     []string{"t"},
		Usage:       "Show a live dashboard instead of streaming every line",
		DefaultText: "false",
		OnlyOnce:    true,
	}
}
