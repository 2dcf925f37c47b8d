// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/progress"
)

// progressBuffer is how many events the completion log can fall behind by before
// the reporter starts dropping them.
const progressBuffer = 256

// completionLog logs each worker as it finishes, with a tally of how many have
// finished out of those started. It must be attached to a single Listen call.
func completionLog(ctx context.Context) progress.Listener {
	var started, finished int

	return progress.ListenerFunc(func(e progress.Event) {
		switch e.Type {
		case progress.EventStarted:
			started++
		case progress.EventCompleted:
			finished++
			ctxlog.Info(ctx, "worker finished",
				"workerID", e.WorkerID, "exitCode", e.ExitCode, "finished", finished, "started", started)
		case progress.EventFailed:
			finished++

			args := []any{"workerID", e.WorkerID, "exitCode", e.ExitCode, "finished", finished, "started", started}
			if e.Err != nil {
				args = append(args, "error", e.Err)
			}

			ctxlog.Warn(ctx, "worker failed", args...)
		case progress.EventOutput:
		}
	})
}
