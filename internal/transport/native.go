// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

const defaultSSHPort = "22"

var (
	// ErrReadKey is returned when the private key file cannot be read.
	ErrReadKey = errors.New("cannot read private key")
	// ErrParseKey is returned when the private key cannot be parsed.
	ErrParseKey = errors.New("cannot parse private key")
	// ErrDial is returned when the TCP connection cannot be established.
	ErrDial = errors.New("cannot connect")
	// ErrHandshake is returned when the SSH handshake or authentication fails.
	ErrHandshake = errors.New("ssh handshake failed")
	// ErrSession is returned when a session cannot be opened or the command cannot be started.
	ErrSession = errors.New("ssh session failed")
)

var _ Transport = (*Native)(nil)

// Native runs commands over an in-process SSH client.
// Host keys are not verified.
type Native struct {
	ConnectTimeout time.Duration // Bound on dial plus handshake, 0 for none
	Fs             afero.Fs      // Where private keys are read from, the OS filesystem if nil
}

// Run implements Transport.
func (n *Native) Run(ctx context.Context, w registry.Worker, command string, out io.Writer) (int, error) {
	logger := ctxlog.Logger(ctx).With("component", "native-ssh", "worker", w.ID)

	cfg, err := n.clientConfig(w)
	if err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, err)
	}

	client, err := n.connect(ctx, w, cfg)
	if err != nil {
		return ExitCodeUnknown, err
	}
	defer client.Close() //nolint:errcheck

	session, err := client.NewSession()
	if err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, ErrSession, err)
	}
	defer session.Close() //nolint:errcheck

	session.Stdout = out
	session.Stderr = out

	if err := session.Start(command); err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, ErrSession, err)
	}

	logger.Debug("command started")

	waitCh := make(chan error, 1)

	go func() {
		waitCh <- session.Wait()
	}()

	select {
	case err = <-waitCh:
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = client.Close()
		<-waitCh

		logger.Debug("command abandoned", "error", ctx.Err())

		return ExitCodeUnknown, ContextError(ctx)
	}

	if err == nil {
		return 0, nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus(), nil
	}

	// Includes *ssh.ExitMissingError: the channel closed without a status.
	return ExitCodeUnknown, errors.Join(ErrTransport, err)
}

func (n *Native) connect(ctx context.Context, w registry.Worker, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	addr := w.Address
	if w.Port() == "" {
		addr = net.JoinHostPort(w.Host(), defaultSSHPort)
	}

	dialCtx := ctx

	if n.ConnectTimeout > 0 {
		var cancel context.CancelFunc

		dialCtx, cancel = context.WithTimeout(ctx, n.ConnectTimeout)
		defer cancel()
	}

	var d net.Dialer

	conn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		if ctxErr := ContextError(ctx); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, errors.Join(ErrTransport, ErrDial, err)
	}

	if dl, ok := dialCtx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	// The handshake has no deadline without a connect timeout; closing the
	// connection is the only way to abort it when ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if !stop() {
		if err == nil {
			_ = c.Close()
		}

		_ = conn.Close()

		return nil, ContextError(ctx)
	}

	if err != nil {
		_ = conn.Close()
		return nil, errors.Join(ErrTransport, ErrHandshake, err)
	}

	_ = conn.SetDeadline(time.Time{})

	return ssh.NewClient(c, chans, reqs), nil
}

func (n *Native) clientConfig(w registry.Worker) (*ssh.ClientConfig, error) {
	fs := n.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	key, err := afero.ReadFile(fs, w.CredentialRef)
	if err != nil {
		return nil, errors.Join(ErrReadKey, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.Join(ErrParseKey, fmt.Errorf("%s: %w", w.CredentialRef, err))
	}

	return &ssh.ClientConfig{
		User:            w.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         n.ConnectTimeout,
	}, nil
}
