// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries real-time execution events from the executor to
// whoever is watching, such as the terminal dashboard.
//
// The reporter travels in the context, so the executor and dispatcher do not
// need to know whether anything is listening. Reporting never blocks an execution.
package progress
