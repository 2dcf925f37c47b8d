// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package configcmd implements the command that prints the effective worker table.
package configcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/config"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag = "format"
	formatYAML = "yaml"
	formatTOML = "toml"
)

var (
	// ErrUnknownFormat is returned for an output format other than yaml or toml.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrEncode is returned when the table cannot be encoded.
	ErrEncode = errors.New("failed to encode configuration")
)

// NewConfigCmd returns the config command.
func NewConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective worker table, after defaults and flag overrides",
		Description: fmt.Sprintf(`Print the worker table in use. The output can be saved and passed back with --config.
Accepted input formats: %s.`, strings.Join(config.Formats(), ", ")),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     formatFlag,
				Aliases:  []string{"f"},
				Usage:    "Output format: yaml or toml",
				Value:    formatYAML,
				OnlyOnce: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := cmdstate.Config(ctx)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if err := Write(cmd.Root().Writer, cfg, cmd.String(formatFlag)); err != nil {
				return cli.Exit(err.Error(), 1)
			}

			return nil
		},
	}
}

// Write encodes cfg to w in the named format.
func Write(w io.Writer, cfg *config.Config, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))

	switch format {
	case formatYAML, "yml":
		b, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2), yaml.IndentSequence(true)) //nolint:mnd
		if err != nil {
			return errors.Join(ErrEncode, err)
		}

		_, err = w.Write(b)

		return err //nolint:wrapcheck
	case formatTOML:
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return errors.Join(ErrEncode, err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownFormat, format, formatYAML, formatTOML)
}
