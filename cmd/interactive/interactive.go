// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package interactive implements the operator menu, which is also what runs when
// swarm is invoked with no subcommand.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/result"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
)

const (
	ruleWidth       = 80
	defaultBuildID  = 1
	promptChoice    = "\nEnter command: "
	promptWorkerID  = "Worker ID (%s): "
	promptCommand   = "Command: "
	promptContinue  = "\nPress Enter to continue..."
	exitMessage     = "\nExiting swarm orchestrator..."
	menuTitle       = "SWARM ORCHESTRATOR"
	invalidChoice   = "Invalid choice"
	choiceQuit      = "q"
	choiceSync      = "1"
	choiceStatus    = "2"
	choiceBuild     = "3"
	choiceLint      = "4"
	choiceTest      = "5"
	choiceCustomOne = "6"
	choiceCustomAll = "7"
)

// errInvalidWorkerID is printed when the operator enters something that is not a worker ID.
var errInvalidWorkerID = errors.New("invalid worker id")

// NewInteractiveCmd returns the interactive menu command.
func NewInteractiveCmd() *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Choose operations from a menu until you quit",
		Action:  Action,
	}
}

// Action runs the menu until the operator quits, input ends, or ctx is cancelled.
func Action(ctx context.Context, cmd *cli.Command) error {
	sw, err := cmdstate.Build(ctx, cmd.Root().Writer)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	p := NewPrompter()
	defer p.Close() //nolint:errcheck

	m := &menu{
		sw:     sw,
		p:      p,
		w:      cmd.Root().Writer,
		logger: ctxlog.Logger(ctx).With("command", cmd.Name),
	}

	return m.loop(ctx)
}

type menu struct {
	sw     *cmdstate.Swarm
	p      Prompter
	w      io.Writer
	logger *slog.Logger
}

func (m *menu) loop(ctx context.Context) error {
	for ctx.Err() == nil {
		m.show()

		choice, err := m.p.Prompt(promptChoice)
		if err != nil {
			return m.endOfInput(err)
		}

		choice = strings.TrimSpace(choice)
		if choice == "" {
			continue
		}

		m.p.AppendHistory(choice)

		if choice == choiceQuit {
			m.println(exitMessage)
			return nil
		}

		set, err := m.run(ctx, choice)

		switch {
		case isEndOfInput(err):
			return m.endOfInput(err)
		case err != nil:
			m.println(err.Error())
		case set != nil:
			m.println("")

			if werr := result.WriteText(m.w, set, result.DefaultOutputOptions()); werr != nil {
				m.logger.Debug("failed to write results", "error", werr)
			}
		}

		if _, err := m.p.Prompt(promptContinue); err != nil {
			return m.endOfInput(err)
		}
	}

	return nil
}

// run performs one menu choice. A nil set with a nil error means there was nothing to summarise.
func (m *menu) run(ctx context.Context, choice string) (result.Set, error) {
	ops := m.sw.Operations

	switch choice {
	case choiceSync:
		return ops.SyncAll(ctx)
	case choiceStatus:
		return ops.StatusAll(ctx)
	case choiceBuild:
		return ops.BuildOn(ctx, defaultBuildID)
	case choiceLint:
		id, err := m.askWorkerID()
		if err != nil {
			return nil, err
		}

		return ops.LintOn(ctx, id)
	case choiceTest:
		id, err := m.askWorkerID()
		if err != nil {
			return nil, err
		}

		return ops.TestOn(ctx, id)
	case choiceCustomOne:
		id, err := m.askWorkerID()
		if err != nil {
			return nil, err
		}

		command, err := m.p.Prompt(promptCommand)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return ops.RunCustom(ctx, command, &id)
	case choiceCustomAll:
		command, err := m.p.Prompt(promptCommand)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return ops.RunCustom(ctx, command, nil)
	}

	m.println(invalidChoice)

	return nil, nil
}

func (m *menu) askWorkerID() (int, error) {
	ids := m.sw.Registry.IDs()
	hint := fmt.Sprintf("%d-%d", ids[0], ids[len(ids)-1])

	s, err := m.p.Prompt(fmt.Sprintf(promptWorkerID, hint))
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidWorkerID, s)
	}

	return id, nil
}

func (m *menu) show() {
	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", ruleWidth)

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n%s\n%s\n", rule, menuTitle, rule)
	b.WriteString("\nWorker Configuration:\n")

	for _, w := range m.sw.Registry.All() {
		fmt.Fprintf(&b, "  %s\n", w)
	}

	fmt.Fprintf(&b, "\n%s\n\nCommands:\n", thin)
	b.WriteString("  1. Sync All Workers (git pull)\n")
	b.WriteString("  2. Status Check (all workers)\n")
	fmt.Fprintf(&b, "  3. Build on Worker %d\n", defaultBuildID)
	b.WriteString("  4. Lint on Worker (choose)\n")
	b.WriteString("  5. Test on Worker (choose)\n")
	b.WriteString("  6. Custom Command on Worker\n")
	b.WriteString("  7. Custom Command on All Workers\n")
	b.WriteString("  q. Quit\n")
	b.WriteString(thin)

	m.println(b.String())
}

func (m *menu) println(s string) {
	_, _ = fmt.Fprintln(m.w, s)
}

func (m *menu) endOfInput(err error) error {
	if isEndOfInput(err) {
		m.println(exitMessage)
		return nil
	}

	return cli.Exit(fmt.Sprintf("error reading input: %s", err.Error()), 1)
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}
