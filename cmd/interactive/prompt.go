// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package interactive

import (
	"github.com/peterh/liner"
)

// Prompter reads operator input one line at a time.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

var _ Prompter = (*liner.State)(nil)

// NewPrompter creates the prompter used by the menu. Tests replace it with a scripted one.
var NewPrompter = func() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return line
}
