// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transport

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/registry"
)

const (
	defaultSSHBinary = "ssh"
	// sshFailureExitCode is what the OpenSSH client exits with when it could not
	// connect or authenticate.
	sshFailureExitCode = 255
)

var _ Transport = (*OpenSSH)(nil)

// OpenSSH runs commands by invoking the system ssh client.
// Host key checking is disabled and the client never prompts.
type OpenSSH struct {
	Binary         string        // Client binary, "ssh" if empty
	ConnectTimeout time.Duration // Passed as ConnectTimeout, rounded up to whole seconds
	ExtraOptions   []string      // Appended before the target
}

// Args returns the client arguments used to run command on w.
func (o *OpenSSH) Args(w registry.Worker, command string) []string {
	args := make([]string, 0, 12) //nolint:mnd

	if w.CredentialRef != "" {
		args = append(args, "-i", w.CredentialRef)
	}

	args = append(args, "-n", "-o", "StrictHostKeyChecking=no", "-o", "BatchMode=yes")

	if o.ConnectTimeout > 0 {
		secs := int(math.Ceil(o.ConnectTimeout.Seconds()))
		args = append(args, "-o", "ConnectTimeout="+strconv.Itoa(secs))
	}

	if port := w.Port(); port != "" {
		args = append(args, "-p", port)
	}

	args = append(args, o.ExtraOptions...)

	return append(args, w.Target(), command)
}

// Run implements Transport.
func (o *OpenSSH) Run(ctx context.Context, w registry.Worker, command string, out io.Writer) (int, error) {
	bin := o.Binary
	if bin == "" {
		bin = defaultSSHBinary
	}

	ctxlog.Debug(ctx, "openssh run", "worker", w.ID, "target", w.Target())

	code, err := runProcess(ctx, bin, o.Args(w, command), out)
	if err != nil {
		return code, err
	}

	if code == sshFailureExitCode {
		return code, fmt.Errorf("%w: ssh exited with status %d", ErrTransport, code)
	}

	return code, nil
}
