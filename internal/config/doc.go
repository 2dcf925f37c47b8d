// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the worker table.
//
// A table may be written in YAML, HCL or TOML; the format is chosen by file extension.
// Tables can be local files or anything go-getter can retrieve (git, http, s3...).
// Without a table the built-in three-worker fleet is used.
//
// YAML:
//
//	defaults:
//	  user: root
//	  credential: ~/.ssh/ai_swarm_key
//	  working_dir: ~/worktree-1
//	  timeout: 10m
//	workers:
//	  - id: 1
//	    address: 164.92.118.130
//	    role: build
//
// HCL, where env.NAME and home are available to expressions:
//
//	defaults {
//	  credential = "${home}/.ssh/ai_swarm_key"
//	}
//	worker {
//	  id      = 1
//	  address = "164.92.118.130"
//	  role    = "build"
//	}
package config
