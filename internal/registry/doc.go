// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package registry holds the fixed table of workers that swarm can dispatch to.
//
// A Registry is built once at startup and never changes afterwards, so it is safe
// for concurrent reads from every dispatch goroutine.
package registry
