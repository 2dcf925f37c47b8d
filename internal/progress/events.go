// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"time"
)

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted indicates a command has begun on a worker.
	EventStarted EventType = iota
	// EventOutput carries one line of output from a worker.
	EventOutput
	// EventCompleted indicates the command exited with code 0.
	EventCompleted
	// EventFailed indicates a non-zero exit, a transport failure or a timeout.
	EventFailed
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventOutput:
		return "output"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a real-time update about one worker's execution.
type Event struct {
	WorkerID  int       // Worker the event is about
	Type      EventType // What happened
	Command   string    // Command being run, set on EventStarted
	Line      string    // Output line, set on EventOutput
	ExitCode  int       // Exit code, set on EventCompleted and EventFailed
	Err       error     // Transport error, if any, set on EventFailed
	Timestamp time.Time // When the event occurred
}

// Reporter receives progress events.
type Reporter interface {
	// Report sends an event. Implementations must not block the caller.
	Report(event Event)
	// Close signals that no more events will be sent.
	Close()
}

// NullReporter discards every event.
type NullReporter struct{}

// Report implements Reporter by doing nothing.
func (NullReporter) Report(Event) {}

// Close implements Reporter by doing nothing.
func (NullReporter) Close() {}

type reporterKey struct{}

// WithReporter returns a copy of ctx that carries r.
func WithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, reporterKey{}, r)
}

// FromContext returns the reporter in ctx, or a NullReporter if there is none.
func FromContext(ctx context.Context) Reporter {
	r, ok := ctx.Value(reporterKey{}).(Reporter)
	if !ok || r == nil {
		return NullReporter{}
	}

	return r
}
