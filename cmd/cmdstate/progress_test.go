// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCompletionLog(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer

	ctx := ctxlog.New(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	ctx = ctxlog.With(ctx, "command", "sync")

	rep := progress.NewChannelReporter(ctx, progressBuffer)
	rep.Listen(completionLog(ctx))

	rep.Report(progress.Event{WorkerID: 1, Type: progress.EventStarted})
	rep.Report(progress.Event{WorkerID: 2, Type: progress.EventStarted})
	rep.Report(progress.Event{WorkerID: 1, Type: progress.EventOutput, Line: "Already up to date."})
	rep.Report(progress.Event{WorkerID: 1, Type: progress.EventCompleted})
	rep.Report(progress.Event{WorkerID: 2, Type: progress.EventFailed, ExitCode: -1, Err: transport.ErrTimeout})
	rep.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], `msg="worker finished"`)
	assert.Contains(t, lines[0], "command=sync")
	assert.Contains(t, lines[0], "workerID=1 exitCode=0 finished=1 started=2")

	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], `msg="worker failed"`)
	assert.Contains(t, lines[1], "workerID=2 exitCode=-1 finished=2 started=2")
	assert.Contains(t, lines[1], "error=")
}
