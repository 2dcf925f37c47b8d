// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for terminal output.
//
// Colour is enabled when stdout is a terminal, unless NO_COLOR is set.
// FORCE_COLOR enables it even when stdout is not a terminal.
// Each worker gets a stable colour from a small palette so that interleaved
// console output from a broadcast is easy to tell apart.
package color
