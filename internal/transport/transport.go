// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package transport runs a command on a worker over a remote-execution channel.
//
// A Transport writes the combined stdout and stderr of the remote command to the
// given writer as it arrives and returns the remote exit code. It returns a non-nil
// error only when the channel itself failed: the host was unreachable, authentication
// was rejected, the connection dropped, or the context ended first. Such errors
// always match ErrTransport.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/spf13/afero"
)

// ExitCodeUnknown is returned alongside an error when no remote exit code is available.
const ExitCodeUnknown = -1

// Transport kinds accepted by New.
const (
	KindOpenSSH = "openssh"
	KindNative  = "native"
	KindLocal   = "local"
)

var (
	// ErrTransport is matched by every channel failure.
	ErrTransport = errors.New("transport failure")
	// ErrTimeout is matched when the context deadline expired before the command finished.
	ErrTimeout = errors.New("timed out")
	// ErrCancelled is matched when the context was cancelled before the command finished.
	ErrCancelled = errors.New("cancelled")
	// ErrUnknownTransport is returned by New for an unsupported kind.
	ErrUnknownTransport = errors.New("unknown transport")
)

// Transport executes one command on one worker.
type Transport interface {
	Run(ctx context.Context, w registry.Worker, command string, out io.Writer) (int, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, w registry.Worker, command string, out io.Writer) (int, error)

// Run implements Transport.
func (f Func) Run(ctx context.Context, w registry.Worker, command string, out io.Writer) (int, error) {
	return f(ctx, w, command, out)
}

// Options configures the transports created by New.
type Options struct {
	ConnectTimeout time.Duration // Bound on establishing the channel, 0 for none
	SSHBinary      string        // OpenSSH client binary, defaults to "ssh"
	Fs             afero.Fs      // Filesystem private keys are read from by the native transport
}

// New creates a transport of the given kind. An empty kind selects KindOpenSSH.
func New(kind string, opts Options) (Transport, error) {
	switch kind {
	case "", KindOpenSSH:
		return &OpenSSH{Binary: opts.SSHBinary, ConnectTimeout: opts.ConnectTimeout}, nil
	case KindNative:
		return &Native{ConnectTimeout: opts.ConnectTimeout, Fs: opts.Fs}, nil
	case KindLocal:
		return &Local{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, kind)
	}
}

// ContextError describes why ctx ended as a transport failure.
// It returns nil if ctx is still live.
func ContextError(ctx context.Context) error {
	switch {
	case ctx.Err() == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.Join(ErrTransport, ErrTimeout)
	default:
		return errors.Join(ErrTransport, ErrCancelled)
	}
}
