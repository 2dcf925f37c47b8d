// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog.Logger in a context.Context.
//
// The default logger writes human-readable lines to stderr using PrettyHandler,
// so that it does not mix with the worker output swarm streams to stdout.
// The level is read from SWARM_LOG_LEVEL (DEBUG, INFO, WARN or ERROR; default WARN).
package ctxlog
