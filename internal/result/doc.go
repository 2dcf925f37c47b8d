// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package result contains the outcome of running a command on one or more workers,
// the aggregation of per-worker outcomes into a keyed set, and writers that render
// a set for the operator or persist it to a file.
package result
