// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transport

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/teereader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("posix shell required")
	}
}

func TestLocal_Run(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	tests := []struct {
		name     string
		command  string
		wantCode int
		wantOut  string
	}{
		{name: "success", command: "echo ok", wantCode: 0, wantOut: "ok\n"},
		{name: "exit code", command: "exit 3", wantCode: 3, wantOut: ""},
		{name: "stderr interleaved", command: "echo a; echo b >&2; echo c", wantCode: 0, wantOut: "a\nb\nc\n"},
		{name: "no trailing newline", command: "printf 'x\\ny'", wantCode: 0, wantOut: "x\ny"},
	}

	l := &Local{Shell: "/bin/sh"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lw := teereader.NewLineWriter(nil)
			code, err := l.Run(context.Background(), registry.Worker{ID: 1}, tt.command, lw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, lw.String())
		})
	}
}

func TestLocal_Run_Streams(t *testing.T) {
	skipOnWindows(t)

	var (
		lines []string
		first time.Time
	)

	lw := teereader.NewLineWriter(func(line string) {
		if first.IsZero() {
			first = time.Now()
		}

		lines = append(lines, line)
	})

	start := time.Now()
	l := &Local{Shell: "/bin/sh"}
	code, err := l.Run(context.Background(), registry.Worker{ID: 1}, "echo one; sleep 0.5; echo two", lw)
	end := time.Now()

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"one", "two"}, lines)
	assert.Less(t, first.Sub(start), end.Sub(start)-200*time.Millisecond, "first line should arrive before the process exits")
}

func TestLocal_Run_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	lw := teereader.NewLineWriter(nil)
	start := time.Now()
	code, err := (&Local{Shell: "/bin/sh"}).Run(ctx, registry.Worker{ID: 1}, "echo before; exec sleep 10", lw)

	require.ErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, ExitCodeUnknown, code)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, strings.HasPrefix(lw.String(), "before"))
}

func TestLocal_Run_Cancelled(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := (&Local{Shell: "/bin/sh"}).Run(ctx, registry.Worker{ID: 1}, "exec sleep 10", teereader.NewLineWriter(nil))
	require.ErrorIs(t, err, ErrCancelled)
}

func TestLocal_Run_KillAlwaysReported(t *testing.T) {
	defer goleak.VerifyNone(t)
	skipOnWindows(t)

	for i := range 25 {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		code, err := (&Local{Shell: "/bin/sh"}).Run(ctx, registry.Worker{ID: 1}, "exec sleep 10", teereader.NewLineWriter(nil))

		cancel()
		require.ErrorIs(t, err, ErrTimeout, "run %d", i)
		assert.Equal(t, ExitCodeUnknown, code, "run %d", i)
	}
}

func TestLocal_Run_BackgroundChildKeepsOutput(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	lw := teereader.NewLineWriter(nil)
	start := time.Now()
	code, err := (&Local{Shell: "/bin/sh"}).Run(ctx, registry.Worker{ID: 1}, "(sleep 10) & echo done", lw)

	require.NoError(t, err, "the shell itself exited before the deadline")
	assert.Equal(t, 0, code)
	assert.Equal(t, "done\n", lw.String())
	assert.Less(t, time.Since(start), 5*time.Second)
}
