// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a live Terminal User Interface (TUI) for monitoring a
// broadcast. It shows one row per worker with a status indicator, elapsed time,
// and the last line of output the worker produced.
//
// The TUI is driven by progress events, so it works with any execution that
// reports through a progress.Reporter carried in the context.
package tui
