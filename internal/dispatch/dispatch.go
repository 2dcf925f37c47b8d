// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dispatch fans one command out to many workers concurrently and
// collects exactly one result per worker.
package dispatch

import (
	"context"
	"sync"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/executor"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/result"
)

// Executor runs a command on a single worker.
type Executor interface {
	Execute(ctx context.Context, w registry.Worker, command string, mode executor.Mode) result.ExecutionResult
}

// Dispatcher runs a command on a set of workers in parallel.
type Dispatcher struct {
	exec Executor
}

// New creates a Dispatcher that uses exec for each worker.
func New(exec Executor) *Dispatcher {
	return &Dispatcher{exec: exec}
}

// DispatchAll runs command on every worker in streaming mode.
func (d *Dispatcher) DispatchAll(ctx context.Context, workers []registry.Worker, command string) result.Set {
	return d.Dispatch(ctx, workers, command, executor.ModeStreaming)
}

// Dispatch runs command on every worker concurrently and waits for all of them.
// A worker listed more than once runs once. One worker's failure never affects
// another; only ctx cancels the whole dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, workers []registry.Worker, command string, mode executor.Mode) result.Set {
	targets := Unique(workers)
	logger := ctxlog.Logger(ctx).With("component", "dispatch")
	logger.Debug("dispatching", "workers", len(targets), "command", command, "mode", mode.String())

	slots := make([]result.ExecutionResult, len(targets))
	wg := &sync.WaitGroup{}

	for i, w := range targets {
		wg.Add(1)

		go func(i int, w registry.Worker) {
			defer wg.Done()

			slots[i] = d.exec.Execute(ctx, w, command, mode)
		}(i, w)
	}

	wg.Wait()

	set := result.Collect(slots...)
	logger.Debug("dispatch complete", "results", len(set), "failed", len(set.Failed()))

	return set
}

// Unique returns workers with repeated IDs removed, keeping the first occurrence.
func Unique(workers []registry.Worker) []registry.Worker {
	seen := make(map[int]struct{}, len(workers))
	out := make([]registry.Worker, 0, len(workers))

	for _, w := range workers {
		if _, ok := seen[w.ID]; ok {
			continue
		}

		seen[w.ID] = struct{}{}
		out = append(out, w)
	}

	return out
}
