// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transport

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
)

var (
	// ErrCouldNotStartProcess is returned when the local process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrFailedToReadOutput is returned when copying the process output failed.
	ErrFailedToReadOutput = errors.New("failed to read process output")
)

// copyGrace bounds how long output is still read after the context ends.
const copyGrace = 250 * time.Millisecond

// runProcess starts name with args, copies its combined stdout and stderr to out
// while it runs, and returns its exit code. Stdout and stderr share one pipe so
// their relative order is the order the process wrote them.
// The process is killed if ctx ends first.
func runProcess(ctx context.Context, name string, args []string, out io.Writer) (int, error) {
	logger := ctxlog.Logger(ctx).With("component", "process")

	path, err := exec.LookPath(name)
	if err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, ErrCouldNotStartProcess, err)
	}

	stdin, err := os.Open(os.DevNull)
	if err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, ErrCouldNotStartProcess, err)
	}
	defer stdin.Close() //nolint:errcheck

	r, w, err := os.Pipe()
	if err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, ErrFailedToCreatePipe, err)
	}
	defer r.Close() //nolint:errcheck

	argv := slices.Concat([]string{filepath.Base(path)}, args)

	logger.Debug("starting process", "path", path, "args", args)

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{stdin, w, w},
	})

	// The child holds its own copy of the write end; ours must go so that
	// the reader sees EOF when the child exits.
	_ = w.Close()

	if err != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, ErrCouldNotStartProcess, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	copyDone := make(chan error, 1)

	go func() {
		_, err := io.Copy(out, r)
		copyDone <- err
	}()

	done := make(chan struct{})
	killed := make(chan error, 1)

	// The watchdog sends exactly once: the context error if it killed the
	// process, nil otherwise.
	go func() {
		select {
		case <-ctx.Done():
			if killPs(ctx, ps) {
				killed <- ContextError(ctx)
				return
			}
		case <-done:
		}
		killed <- nil
	}()

	state, waitErr := ps.Wait()
	close(done)

	killErr := <-killed
	copyErr := drainOutput(ctx, r, copyDone)

	if killErr != nil {
		logger.Debug("process killed", "pid", ps.Pid, "error", killErr)
		return ExitCodeUnknown, killErr
	}

	if waitErr != nil {
		return ExitCodeUnknown, errors.Join(ErrTransport, waitErr)
	}

	code := state.ExitCode()
	logger.Debug("process finished", "pid", ps.Pid, "exitCode", code)

	if copyErr != nil && !errors.Is(copyErr, os.ErrClosed) {
		return code, errors.Join(ErrTransport, ErrFailedToReadOutput, copyErr)
	}

	return code, nil
}

// drainOutput waits for the copy of the process output to finish. Once ctx has
// ended it allows copyGrace for buffered output to arrive, then closes r so a
// grandchild still holding the pipe cannot block the return.
func drainOutput(ctx context.Context, r *os.File, copyDone <-chan error) error {
	select {
	case err := <-copyDone:
		return err
	case <-ctx.Done():
	}

	t := time.NewTimer(copyGrace)
	defer t.Stop()

	select {
	case err := <-copyDone:
		return err
	case <-t.C:
	}

	_ = r.Close()

	return <-copyDone
}

// killPs kills the process and reports whether it was still running.
func killPs(ctx context.Context, ps *os.Process) bool {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return false
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return false
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)

	return true
}
