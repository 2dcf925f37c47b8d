// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/console"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/transport"
	"github.com/matt-FFFFFF/swarm/internal/transport/transporttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recorder) Report(e progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *recorder) Close() {}

func (r *recorder) types() []progress.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]progress.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}

	return out
}

var testWorker = registry.Worker{
	ID:               1,
	Address:          "10.0.0.1",
	User:             "root",
	Role:             registry.RoleBuild,
	CredentialRef:    "/k",
	RemoteWorkingDir: "~/worktree-1",
}

func newTestExecutor(f *transporttest.Fake, opts ...Option) (*Executor, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(f, console.New(buf, console.WithColour(false)), opts...), buf
}

func TestRemoteCommand(t *testing.T) {
	assert.Equal(t, "cd ~/worktree-1 && npm test", RemoteCommand("~/worktree-1", "npm test"))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "streaming", ModeStreaming.String())
	assert.Equal(t, "captured", ModeCaptured.String())
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestExecute_Streaming(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := transporttest.New(map[int]transporttest.Script{
		1: {Lines: []string{"first", "second"}},
	})
	e, buf := newTestExecutor(f)
	rec := &recorder{}
	ctx := progress.WithReporter(context.Background(), rec)

	res := e.Execute(ctx, testWorker, "npm test", ModeStreaming)

	assert.Equal(t, 1, res.WorkerID)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "first\nsecond\n", res.Output)
	assert.NoError(t, res.Err)
	assert.True(t, res.Success())
	assert.Equal(t, "cd ~/worktree-1 && npm test", f.Commands()[1])

	out := buf.String()
	assert.Contains(t, out, "Worker 1 (10.0.0.1) - Build/Error Resolution")
	assert.Contains(t, out, "Command: npm test")
	assert.Less(t, strings.Index(out, "[Worker 1] first\n"), strings.Index(out, "[Worker 1] second\n"))

	assert.Equal(t, []progress.EventType{
		progress.EventStarted, progress.EventOutput, progress.EventOutput, progress.EventCompleted,
	}, rec.types())
}

func TestExecute_Captured(t *testing.T) {
	f := transporttest.New(map[int]transporttest.Script{
		1: {Lines: []string{"quiet"}},
	})
	e, buf := newTestExecutor(f)

	res := e.Execute(context.Background(), testWorker, "ls", ModeCaptured)

	assert.Equal(t, "quiet\n", res.Output)
	assert.Empty(t, buf.String())
}

func TestExecute_NonZeroExit(t *testing.T) {
	f := transporttest.New(map[int]transporttest.Script{
		1: {Lines: []string{"error TS2304"}, Raw: "no newline", ExitCode: 2},
	})
	e, buf := newTestExecutor(f)
	rec := &recorder{}

	res := e.Execute(progress.WithReporter(context.Background(), rec), testWorker, "npm run build", ModeStreaming)

	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "error TS2304\nno newline", res.Output)
	assert.NoError(t, res.Err)
	assert.Contains(t, buf.String(), "[Worker 1] no newline\n")
	assert.Equal(t, progress.EventFailed, rec.types()[len(rec.types())-1])
}

func TestExecute_TransportFailure(t *testing.T) {
	tests := []struct {
		name     string
		script   transporttest.Script
		wantCode int
		wantOut  string
	}{
		{
			name: "ssh exit status",
			script: transporttest.Script{
				Raw:      "ssh: connect to host 10.0.0.1 port 22: Connection refused\n",
				ExitCode: 255,
				Err:      fmt.Errorf("%w: ssh exited with status 255", transport.ErrTransport),
			},
			wantCode: 255,
			wantOut: "ssh: connect to host 10.0.0.1 port 22: Connection refused\n" +
				"transport failure: ssh exited with status 255\n",
		},
		{
			name: "no exit code",
			script: transporttest.Script{
				Raw:      "partial",
				ExitCode: 0,
				Err:      errors.Join(transport.ErrTransport, transport.ErrDial, errors.New("connection refused")),
			},
			wantCode: transport.ExitCodeUnknown,
			wantOut:  "partial\ntransport failure: cannot connect: connection refused\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := transporttest.New(map[int]transporttest.Script{1: tt.script})
			e, buf := newTestExecutor(f)

			res := e.Execute(context.Background(), testWorker, "true", ModeStreaming)

			assert.Equal(t, tt.wantCode, res.ExitCode)
			assert.Equal(t, tt.wantOut, res.Output)
			require.ErrorIs(t, res.Err, transport.ErrTransport)
			assert.False(t, res.Success())
			assert.Contains(t, buf.String(), "[Worker 1] transport failure: ")
		})
	}
}

func TestExecute_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := transporttest.New(map[int]transporttest.Script{
		1: {Lines: []string{"starting"}, Hang: true},
	})
	e, _ := newTestExecutor(f, WithTimeout(50*time.Millisecond))
	rec := &recorder{}

	start := time.Now()
	res := e.Execute(progress.WithReporter(context.Background(), rec), testWorker, "sleep 100", ModeCaptured)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, transport.ExitCodeUnknown, res.ExitCode)
	assert.Equal(t, "starting\ntimed out after 50ms\n", res.Output)
	require.ErrorIs(t, res.Err, transport.ErrTimeout)
	assert.Equal(t, progress.EventFailed, rec.types()[len(rec.types())-1])
	assert.Equal(t, 50*time.Millisecond, e.Timeout())
}

func TestExecute_CallerCancel(t *testing.T) {
	f := transporttest.New(map[int]transporttest.Script{1: {Hang: true}})
	e, _ := newTestExecutor(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Execute(ctx, testWorker, "true", ModeCaptured)
	assert.Equal(t, transport.ExitCodeUnknown, res.ExitCode)
	assert.Equal(t, "transport failure: cancelled\n", res.Output)
	require.ErrorIs(t, res.Err, transport.ErrCancelled)
}

func TestNew_NilConsole(t *testing.T) {
	f := transporttest.New(map[int]transporttest.Script{1: {Lines: []string{"x"}}})
	e := New(f, nil)

	res := e.Execute(context.Background(), testWorker, "true", ModeStreaming)
	assert.Equal(t, "x\n", res.Output)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: transport.ErrTransport, want: "unknown error"},
		{err: errors.Join(transport.ErrTransport, transport.ErrTimeout), want: "timed out"},
		{err: fmt.Errorf("%w: ssh exited with status 255", transport.ErrTransport), want: "ssh exited with status 255"},
		{err: errors.New("plain"), want: "plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.err))
	}
}

func TestExecute_LocalTimeoutHasDiagnostic(t *testing.T) {
	defer goleak.VerifyNone(t)

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	w := testWorker
	w.RemoteWorkingDir = t.TempDir()

	e := New(&transport.Local{Shell: "/bin/sh"}, nil, WithTimeout(50*time.Millisecond))

	for i := range 20 {
		res := e.Execute(context.Background(), w, "echo started; exec sleep 10", ModeCaptured)

		require.ErrorIs(t, res.Err, transport.ErrTimeout, "run %d", i)
		assert.Equal(t, transport.ExitCodeUnknown, res.ExitCode, "run %d", i)
		assert.Equal(t, "started\ntimed out after 50ms\n", res.Output, "run %d", i)
	}
}

func TestExecute_LocalCancelHasDiagnostic(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	w := testWorker
	w.RemoteWorkingDir = t.TempDir()

	e := New(&transport.Local{Shell: "/bin/sh"}, nil)

	for i := range 10 {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(30*time.Millisecond, cancel)

		res := e.Execute(ctx, w, "exec sleep 10", ModeCaptured)

		require.ErrorIs(t, res.Err, transport.ErrCancelled, "run %d", i)
		assert.Equal(t, "transport failure: cancelled\n", res.Output, "run %d", i)
	}
}
