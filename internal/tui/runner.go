// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/result"
)

var _ progress.Reporter = (*TUIReporter)(nil)

// TUIReporter implements progress.Reporter and forwards events to the TUI.
type TUIReporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewTUIReporter creates a new TUI progress reporter.
func NewTUIReporter(program *tea.Program) *TUIReporter {
	return &TUIReporter{
		program: program,
	}
}

// Report implements progress.Reporter.
func (tr *TUIReporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(ProgressEventMsg{Event: event})
}

// Close implements progress.Reporter.
func (tr *TUIReporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	tr.closed = true
}

// Runner manages the TUI application and progress event integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *TUIReporter
	mutex    sync.Mutex
}

// Option configures a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	programOpts []tea.ProgramOption
	autoQuit    bool
}

// WithProgramOptions replaces the default bubbletea program options.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *runnerOptions) {
		o.programOpts = opts
	}
}

// WithAutoQuit exits the TUI as soon as every worker has finished.
func WithAutoQuit() Option {
	return func(o *runnerOptions) {
		o.autoQuit = true
	}
}

// NewRunner creates a new TUI runner showing one row per worker.
func NewRunner(title, command string, workers []registry.Worker, opts ...Option) *Runner {
	o := &runnerOptions{
		programOpts: []tea.ProgramOption{tea.WithAltScreen()},
	}

	for _, opt := range opts {
		opt(o)
	}

	model := NewModel(title, command, workers)
	model.autoQuit = o.autoQuit
	program := tea.NewProgram(model, o.programOpts...)

	return &Runner{
		model:    model,
		program:  program,
		reporter: NewTUIReporter(program),
	}
}

// Run starts the TUI and calls fn with a context that reports to it.
// Quitting the TUI early cancels that context. Run returns once both fn and the TUI have finished.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) result.Set) (result.Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	runCtx, cancel := context.WithCancel(progress.WithReporter(ctx, r.reporter))
	defer cancel()

	resultChan := make(chan result.Set, 1)

	go func() {
		resultChan <- fn(runCtx)
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	var (
		set    result.Set
		tuiErr error
	)

	select {
	case set = <-resultChan:
		r.reporter.Close()
		r.program.Send(CompletedMsg{Results: set})

		if ctx.Err() != nil {
			r.program.Quit()
		}

		tuiErr = <-tuiDone

	case tuiErr = <-tuiDone:
		// The operator quit before the workers finished; stop them.
		r.reporter.Close()
		cancel()

		set = <-resultChan

	case <-ctx.Done():
		r.reporter.Close()
		r.program.Quit()

		set = <-resultChan
		tuiErr = <-tuiDone
	}

	return set, tuiErr
}
