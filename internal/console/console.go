// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console is the operator-visible sink that streaming executions write to.
//
// Every line is written with a single call to the underlying writer while a mutex
// is held, so output from concurrent workers interleaves only at line boundaries.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/swarm/internal/color"
)

const bannerWidth = 80

// Console serializes writes from many workers to one writer.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	colour bool
}

// Option configures a Console.
type Option func(*Console)

// WithColour forces colour on or off. By default it follows color.Enabled.
func WithColour(on bool) Option {
	return func(c *Console) {
		c.colour = on
	}
}

// New creates a Console writing to w.
func New(w io.Writer, opts ...Option) *Console {
	c := &Console{
		w:      w,
		colour: color.Enabled(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WriteLine writes one line of worker output, prefixed with the worker label.
// Write errors are ignored: the console is best-effort and must never fail an execution.
func (c *Console) WriteLine(workerID int, line string) {
	prefix := fmt.Sprintf("[Worker %d]", workerID)
	if c.colour {
		prefix = color.ControlString(color.ForWorker(workerID)) + prefix + color.ControlString(color.Reset)
	}

	c.write(prefix + " " + line + "\n")
}

// Banner writes a framed header announcing a command on a worker.
func (c *Console) Banner(title, command string) {
	rule := strings.Repeat("=", bannerWidth)
	c.write(fmt.Sprintf("\n%s\n%s\nCommand: %s\n%s\n\n", rule, title, command, rule))
}

// Printf writes a formatted message as-is.
func (c *Console) Printf(format string, args ...any) {
	c.write(fmt.Sprintf(format, args...))
}

func (c *Console) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.w, s)
}
