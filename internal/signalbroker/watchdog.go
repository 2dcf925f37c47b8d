// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
)

// Watch cancels the context on the second signal of a given type.
// It returns when that happens, when sigCh is closed, or when ctx is done.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Warn(ctx, "received second signal, aborting all workers", "signal", sig.String())
				cancel()

				return
			}

			ctxlog.Warn(ctx, "received signal, press again to abort all workers", "signal", sig.String())

			seen[sig] = struct{}{}
		}
	}
}
