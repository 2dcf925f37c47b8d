// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package operations binds the fleet's routine commands to workers.
package operations

import (
	"context"
	"errors"
	"strings"

	"github.com/matt-FFFFFF/swarm/internal/console"
	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/dispatch"
	"github.com/matt-FFFFFF/swarm/internal/executor"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/result"
)

// ErrEmptyCommand is returned when a custom command is blank.
var ErrEmptyCommand = errors.New("empty command")

// Default commands.
const (
	DefaultSyncCommand   = "git pull origin dev"
	DefaultStatusCommand = "git status && echo '---' && git branch"
	DefaultBuildCommand  = "npm run build"
	DefaultLintCommand   = "npm run lint"
	DefaultTestCommand   = "npm test"
)

// Commands are the shell commands behind each routine operation.
type Commands struct {
	Sync   string
	Status string
	Build  string
	Lint   string
	Test   string
}

// DefaultCommands returns the built-in commands.
func DefaultCommands() Commands {
	return Commands{
		Sync:   DefaultSyncCommand,
		Status: DefaultStatusCommand,
		Build:  DefaultBuildCommand,
		Lint:   DefaultLintCommand,
		Test:   DefaultTestCommand,
	}
}

// WithDefaults fills every empty command from DefaultCommands.
func (c Commands) WithDefaults() Commands {
	d := DefaultCommands()

	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}

	fill(&c.Sync, d.Sync)
	fill(&c.Status, d.Status)
	fill(&c.Build, d.Build)
	fill(&c.Lint, d.Lint)
	fill(&c.Test, d.Test)

	return c
}

// Broadcaster runs a command on many workers.
type Broadcaster interface {
	Dispatch(ctx context.Context, workers []registry.Worker, command string, mode executor.Mode) result.Set
}

// Operations runs routine and custom commands against a registry.
type Operations struct {
	reg      *registry.Registry
	exec     dispatch.Executor
	dispatch Broadcaster
	commands Commands
	console  *console.Console
}

// Option configures Operations.
type Option func(*Operations)

// WithConsole prints a short header before each operation.
func WithConsole(c *console.Console) Option {
	return func(o *Operations) {
		o.console = c
	}
}

// New creates Operations. Empty commands take their default.
func New(reg *registry.Registry, exec dispatch.Executor, b Broadcaster, commands Commands, opts ...Option) *Operations {
	o := &Operations{
		reg:      reg,
		exec:     exec,
		dispatch: b,
		commands: commands.WithDefaults(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Registry returns the registry operations run against.
func (o *Operations) Registry() *registry.Registry {
	return o.reg
}

// Commands returns the effective commands.
func (o *Operations) Commands() Commands {
	return o.commands
}

// SyncAll pulls the latest code on every worker.
func (o *Operations) SyncAll(ctx context.Context) (result.Set, error) {
	o.header("\nSyncing all workers with dev branch...\n")
	return o.broadcast(ctx, o.commands.Sync), nil
}

// StatusAll reports the repository status of every worker.
func (o *Operations) StatusAll(ctx context.Context) (result.Set, error) {
	o.header("\nChecking swarm status...\n")
	return o.broadcast(ctx, o.commands.Status), nil
}

// BuildOn runs the build on one worker.
func (o *Operations) BuildOn(ctx context.Context, id int) (result.Set, error) {
	return o.runOn(ctx, id, o.commands.Build)
}

// LintOn runs the linter on one worker.
func (o *Operations) LintOn(ctx context.Context, id int) (result.Set, error) {
	return o.runOn(ctx, id, o.commands.Lint)
}

// TestOn runs the tests on one worker.
func (o *Operations) TestOn(ctx context.Context, id int) (result.Set, error) {
	return o.runOn(ctx, id, o.commands.Test)
}

// RunCustom runs command on the worker with the given ID, or on every worker when id is nil.
func (o *Operations) RunCustom(ctx context.Context, command string, id *int) (result.Set, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}

	if id == nil {
		return o.broadcast(ctx, command), nil
	}

	return o.runOn(ctx, *id, command)
}

func (o *Operations) broadcast(ctx context.Context, command string) result.Set {
	workers := o.reg.All()
	o.header("\nDispatching to %d workers in parallel...\n\n", len(workers))
	ctxlog.Info(ctx, "broadcasting", "command", command, "workers", len(workers))

	return o.dispatch.Dispatch(ctx, workers, command, executor.ModeStreaming)
}

func (o *Operations) runOn(ctx context.Context, id int, command string) (result.Set, error) {
	w, err := o.reg.Lookup(id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	ctxlog.Info(ctx, "running on worker", "workerID", id, "command", command)

	return result.Single(o.exec.Execute(ctx, w, command, executor.ModeStreaming)), nil
}

func (o *Operations) header(format string, args ...any) {
	if o.console == nil {
		return
	}

	o.console.Printf(format, args...)
}
