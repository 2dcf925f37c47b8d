// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package result

import (
	"maps"
	"slices"
	"time"
)

// ExecutionResult is the outcome of running one command on one worker.
type ExecutionResult struct {
	WorkerID int           // ID of the worker that produced the result
	ExitCode int           // 0 on success, non-zero for any failure
	Output   string        // Combined stdout and stderr, in the order produced
	Duration time.Duration // Wall time of the invocation
	Err      error         // Transport or timeout error, nil when the command ran to completion
}

// Success reports whether the command completed with exit code 0.
func (r ExecutionResult) Success() bool {
	return r.ExitCode == 0
}

// Set maps worker IDs to their execution results.
type Set map[int]ExecutionResult

// Collect merges per-worker results into a Set.
// Callers are expected to pass at most one result per worker; if an ID repeats, the first result is kept.
func Collect(results ...ExecutionResult) Set {
	set := make(Set, len(results))

	for _, r := range results {
		if _, ok := set[r.WorkerID]; ok {
			continue
		}

		set[r.WorkerID] = r
	}

	return set
}

// Single wraps one result in a Set so single-worker callers share the broadcast shape.
func Single(r ExecutionResult) Set {
	return Collect(r)
}

// IDs returns the worker IDs in the set in ascending order.
func (s Set) IDs() []int {
	return slices.Sorted(maps.Keys(s))
}

// HasFailure reports whether any result in the set has a non-zero exit code.
func (s Set) HasFailure() bool {
	for _, r := range s {
		if !r.Success() {
			return true
		}
	}

	return false
}

// Failed returns the results with a non-zero exit code, ordered by worker ID.
func (s Set) Failed() []ExecutionResult {
	var out []ExecutionResult

	for _, id := range s.IDs() {
		if r := s[id]; !r.Success() {
			out = append(out, r)
		}
	}

	return out
}
