// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package transporttest provides a scripted transport for tests.
package transporttest

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/transport"
)

// Script describes how the fake behaves for one worker.
type Script struct {
	Lines     []string      // Written to the output, each followed by a newline
	Raw       string        // Written verbatim after Lines
	LineDelay time.Duration // Pause before each line
	Delay     time.Duration // Pause after the output, before returning
	Hang      bool          // Block until the context ends
	ExitCode  int           // Returned exit code
	Err       error         // Returned error
}

// Call records one invocation of the fake.
type Call struct {
	Worker  registry.Worker
	Command string
	Start   time.Time
}

var _ transport.Transport = (*Fake)(nil)

// Fake is a transport.Transport that follows per-worker scripts.
// Workers with no script use Default.
type Fake struct {
	Scripts map[int]Script
	Default Script

	mu    sync.Mutex
	calls []Call
}

// New creates a Fake with the given per-worker scripts.
func New(scripts map[int]Script) *Fake {
	return &Fake{Scripts: scripts}
}

// Run implements transport.Transport.
func (f *Fake) Run(ctx context.Context, w registry.Worker, command string, out io.Writer) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Worker: w, Command: command, Start: time.Now()})
	s, ok := f.Scripts[w.ID]
	f.mu.Unlock()

	if !ok {
		s = f.Default
	}

	for _, line := range s.Lines {
		if !sleep(ctx, s.LineDelay) {
			return transport.ExitCodeUnknown, transport.ContextError(ctx)
		}

		_, _ = io.WriteString(out, line+"\n")
	}

	if s.Raw != "" {
		_, _ = io.WriteString(out, s.Raw)
	}

	if s.Hang {
		<-ctx.Done()
		return transport.ExitCodeUnknown, transport.ContextError(ctx)
	}

	if !sleep(ctx, s.Delay) {
		return transport.ExitCodeUnknown, transport.ContextError(ctx)
	}

	return s.ExitCode, s.Err
}

// Calls returns the invocations so far, in the order they started.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

// Commands returns the command each worker was sent, keyed by worker ID.
func (f *Fake) Commands() map[int]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := make(map[int]string, len(f.calls))
	for _, c := range f.calls {
		m[c.Worker.ID] = c.Command
	}

	return m
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
