// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor runs one command on one worker and turns every outcome,
// including transport failures and timeouts, into a result.ExecutionResult.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/console"
	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/matt-FFFFFF/swarm/internal/teereader"
	"github.com/matt-FFFFFF/swarm/internal/transport"
)

// Mode selects how output is handled while the command runs.
type Mode int

const (
	// ModeStreaming forwards every line to the console as it arrives and also keeps it.
	ModeStreaming Mode = iota
	// ModeCaptured keeps the output silently and returns it at completion.
	ModeCaptured
)

// String implements the Stringer interface for Mode.
func (m Mode) String() string {
	switch m {
	case ModeStreaming:
		return "streaming"
	case ModeCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// Executor runs commands on workers through a transport.
type Executor struct {
	transport transport.Transport
	console   *console.Console
	timeout   time.Duration
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout bounds every invocation. Zero, the default, waits for as long as
// the caller's context allows.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// New creates an Executor. If con is nil, streaming output is discarded.
func New(t transport.Transport, con *console.Console, opts ...Option) *Executor {
	if con == nil {
		con = console.New(io.Discard, console.WithColour(false))
	}

	e := &Executor{
		transport: t,
		console:   con,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Timeout returns the per-invocation timeout, zero when unbounded.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// RemoteCommand returns the shell invocation that runs command inside dir.
func RemoteCommand(dir, command string) string {
	return "cd " + dir + " && " + command
}

// Execute runs command in w's working directory and waits for it to finish.
// It never fails: a non-zero remote exit keeps its code, and a transport failure
// or timeout yields a non-zero code with a diagnostic line appended to the output.
func (e *Executor) Execute(ctx context.Context, w registry.Worker, command string, mode Mode) result.ExecutionResult {
	logger := ctxlog.Logger(ctx).With("component", "executor", "workerID", w.ID, "mode", mode.String())
	reporter := progress.FromContext(ctx)

	var onLine func(string)

	if mode == ModeStreaming {
		e.console.Banner(w.String(), command)

		onLine = func(line string) {
			e.console.WriteLine(w.ID, line)
			reporter.Report(progress.Event{
				WorkerID:  w.ID,
				Type:      progress.EventOutput,
				Line:      line,
				Timestamp: time.Now(),
			})
		}
	}

	sink := teereader.NewLineWriter(onLine)

	runCtx := ctx

	if e.timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	reporter.Report(progress.Event{
		WorkerID:  w.ID,
		Type:      progress.EventStarted,
		Command:   command,
		Timestamp: time.Now(),
	})

	logger.Debug("executing", "command", command, "address", w.Address)

	start := time.Now()
	code, err := e.transport.Run(runCtx, w, RemoteCommand(w.RemoteWorkingDir, command), sink)
	duration := time.Since(start)

	res := result.ExecutionResult{
		WorkerID: w.ID,
		ExitCode: code,
		Duration: duration,
	}

	if err != nil {
		if res.ExitCode == 0 {
			res.ExitCode = transport.ExitCodeUnknown
		}

		res.Err = err

		if sink.Partial() != "" {
			_, _ = io.WriteString(sink, "\n")
		}

		_, _ = io.WriteString(sink, e.diagnostic(err, duration)+"\n")

		logger.Warn("transport failure", "exitCode", res.ExitCode, "error", err)
	}

	sink.Flush()
	res.Output = sink.String()

	logger.Debug("finished", "exitCode", res.ExitCode, "duration", duration)

	ev := progress.Event{
		WorkerID:  w.ID,
		Type:      progress.EventCompleted,
		ExitCode:  res.ExitCode,
		Err:       res.Err,
		Timestamp: time.Now(),
	}
	if !res.Success() {
		ev.Type = progress.EventFailed
	}

	reporter.Report(ev)

	return res
}

func (e *Executor) diagnostic(err error, elapsed time.Duration) string {
	if errors.Is(err, transport.ErrTimeout) {
		d := e.timeout
		if d <= 0 {
			d = elapsed.Round(time.Millisecond)
		}

		return fmt.Sprintf("timed out after %s", d)
	}

	return "transport failure: " + describe(err)
}

// describe flattens err onto one line, dropping the redundant transport failure prefix.
func describe(err error) string {
	prefix := transport.ErrTransport.Error()
	parts := strings.Split(err.Error(), "\n")
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimPrefix(p, prefix+": ")
		if p == "" || p == prefix {
			continue
		}

		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return "unknown error"
	}

	return strings.Join(kept, ": ")
}
