// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader splits a byte stream two ways: every byte is kept in a full
// buffer, and every complete line is handed to a callback as soon as its newline
// arrives. The executor uses it to stream remote output to the console while still
// returning the complete output once the command finishes.
package teereader
