// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package result

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/swarm/internal/color"
)

const durationRounding = 10 * time.Millisecond

// OutputOptions controls what is included in the text summary.
type OutputOptions struct {
	IncludeOutput      bool // Whether to include the captured output of each worker
	ShowSuccessDetails bool // Whether to show output for successful workers too
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeOutput:      true,
		ShowSuccessDetails: false,
	}
}

// WriteText writes a one-line summary per worker, in worker ID order, followed by
// the output of failed workers (and successful ones if requested).
func WriteText(w io.Writer, s Set, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, id := range s.IDs() {
		if err := writeResult(w, s[id], options); err != nil {
			return err
		}
	}

	return nil
}

func writeResult(w io.Writer, r ExecutionResult, options *OutputOptions) error {
	status, fg := "✓", color.FgGreen
	if !r.Success() {
		status, fg = "✗", color.FgRed
	}

	line := fmt.Sprintf("%s %s", color.Colorize(status, fg), color.Colorize(fmt.Sprintf("Worker %d", r.WorkerID), color.Bold, fg))
	if r.ExitCode != 0 {
		line += fmt.Sprintf(" (exit code: %d)", r.ExitCode)
	}

	if r.Duration > 0 {
		line += fmt.Sprintf(" [%s]", r.Duration.Round(durationRounding))
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err //nolint:wrapcheck
	}

	if r.Err != nil {
		if _, err := fmt.Fprintf(w, "  %s %s\n", color.Colorize("➜ Error:", color.FgRed), oneLine(r.Err)); err != nil {
			return err //nolint:wrapcheck
		}
	}

	if !options.IncludeOutput || r.Output == "" {
		return nil
	}

	if r.Success() && !options.ShowSuccessDetails {
		return nil
	}

	if _, err := fmt.Fprintf(w, "  %s\n", color.Colorize("➜ Output:", color.FgCyan)); err != nil {
		return err //nolint:wrapcheck
	}

	for _, l := range strings.Split(strings.TrimRight(r.Output, "\n"), "\n") {
		if _, err := fmt.Fprintf(w, "    %s\n", l); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

// oneLine joins the lines of a multi-line (joined) error with ": ".
func oneLine(err error) string {
	fields := strings.FieldsFunc(err.Error(), func(r rune) bool { return r == '\n' })

	return strings.Join(fields, ": ")
}
