// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transport

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/swarm/internal/registry"
)

const (
	defaultShellUnix    = "/bin/sh"
	defaultShellWindows = "cmd.exe"
)

var _ Transport = (*Local)(nil)

// Local runs the command in a shell on this machine, ignoring the worker's address.
// It is used to rehearse a fleet configuration without any remote hosts.
type Local struct {
	Shell string // Shell binary, $SHELL or the platform default if empty
}

// Run implements Transport.
func (l *Local) Run(ctx context.Context, _ registry.Worker, command string, out io.Writer) (int, error) {
	shell, flag := l.shell()
	return runProcess(ctx, shell, []string{flag, command}, out)
}

func (l *Local) shell() (string, string) {
	if runtime.GOOS == "windows" {
		return defaultShellWindows, "/C"
	}

	if l.Shell != "" {
		return l.Shell, "-c"
	}

	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, "-c"
	}

	return defaultShellUnix, "-c"
}
