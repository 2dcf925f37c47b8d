// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/color"
	"github.com/matt-FFFFFF/swarm/internal/config"
	"github.com/matt-FFFFFF/swarm/internal/console"
	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/dispatch"
	"github.com/matt-FFFFFF/swarm/internal/executor"
	"github.com/matt-FFFFFF/swarm/internal/operations"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/transport"
	"github.com/urfave/cli/v3"
)

const configLoadTimeout = 60 * time.Second

// ErrNoConfig is returned when a command runs without a loaded configuration.
var ErrNoConfig = errors.New("configuration not loaded")

// TransportFactory creates the transport used by Build.
var TransportFactory = transport.New

type configKey struct{}

// Before loads the worker table, applies flag overrides, and stores it in the context.
func Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool(NoColorFlag) {
		color.SetEnabled(false)
	}

	loadCtx, cancel := context.WithTimeout(ctx, configLoadTimeout)
	defer cancel()

	cfg, err := config.Load(loadCtx, cmd.String(ConfigFlag))
	if err != nil {
		ctxlog.Error(ctx, "failed to load worker table", "url", cmd.String(ConfigFlag), "error", err)
		return ctx, cli.Exit(err.Error(), 1)
	}

	if cmd.IsSet(TransportFlag) {
		cfg.Defaults.Transport = cmd.String(TransportFlag)
	}

	if cmd.IsSet(TimeoutFlag) {
		cfg.Defaults.Timeout = cmd.Duration(TimeoutFlag).String()
	}

	if cmd.IsSet(ConnectTimeoutFlag) {
		cfg.Defaults.ConnectTimeout = cmd.Duration(ConnectTimeoutFlag).String()
	}

	if err := cfg.Validate(); err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}

	return WithConfig(ctx, cfg), nil
}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// Config returns the configuration stored by Before.
func Config(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, ErrNoConfig
	}

	return cfg, nil
}

// Swarm is everything a subcommand needs to run work on the fleet.
type Swarm struct {
	Config     *config.Config
	Registry   *registry.Registry
	Console    *console.Console
	Executor   *executor.Executor
	Dispatcher *dispatch.Dispatcher
	Operations *operations.Operations
}

// Build wires the configuration in ctx into a Swarm whose streamed output goes to out.
func Build(ctx context.Context, out io.Writer) (*Swarm, error) {
	cfg, err := Config(ctx)
	if err != nil {
		return nil, err
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	tr, err := TransportFactory(cfg.TransportKind(), transport.Options{
		ConnectTimeout: cfg.ConnectTimeout(),
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	con := console.New(out)
	exec := executor.New(tr, con, executor.WithTimeout(cfg.Timeout()))
	disp := dispatch.New(exec)

	ctxlog.Debug(ctx, "swarm ready",
		"workers", reg.Len(),
		"transport", cfg.TransportKind(),
		"timeout", exec.Timeout())

	return &Swarm{
		Config:     cfg,
		Registry:   reg,
		Console:    con,
		Executor:   exec,
		Dispatcher: disp,
		Operations: operations.New(reg, exec, disp, cfg.OperationCommands(), operations.WithConsole(con)),
	}, nil
}
