// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package interactive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/matt-FFFFFF/swarm/cmd/cmdstate"
	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/matt-FFFFFF/swarm/internal/transport"
	"github.com/matt-FFFFFF/swarm/internal/transport/transporttest"
	"github.com/peterh/liner"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// scriptedPrompter answers prompts from a fixed list, then returns end.
type scriptedPrompter struct {
	inputs  []string
	end     error
	prompts []string
	history []string
	closed  bool
}

func (s *scriptedPrompter) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)

	if len(s.inputs) == 0 {
		return "", s.end
	}

	v := s.inputs[0]
	s.inputs = s.inputs[1:]

	return v, nil
}

func (s *scriptedPrompter) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func (s *scriptedPrompter) Close() error {
	s.closed = true
	return nil
}

func runMenu(t *testing.T, fake *transporttest.Fake, p *scriptedPrompter) (string, error) {
	t.Helper()

	if p.end == nil {
		p.end = io.EOF
	}

	stubs := gostub.Stub(&NewPrompter, func() Prompter { return p })
	stubs.Stub(&cmdstate.TransportFactory, func(string, transport.Options) (transport.Transport, error) {
		return fake, nil
	})
	defer stubs.Reset()

	var out bytes.Buffer

	root := &cli.Command{
		Name:           "swarm",
		Flags:          cmdstate.GlobalFlags(),
		Before:         cmdstate.Before,
		Action:         Action,
		Writer:         &out,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	ctx := ctxlog.New(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := root.Run(ctx, []string{"swarm", "--no-color"})

	return out.String(), err
}

func TestMenuLintOnChosenWorker(t *testing.T) {
	fake := transporttest.New(nil)
	p := &scriptedPrompter{inputs: []string{"4", "2", "", "q"}}

	out, err := runMenu(t, fake, p)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{2: "cd ~/worktree-1 && npm run lint"}, fake.Commands())
	assert.Contains(t, out, "SWARM ORCHESTRATOR")
	assert.Contains(t, out, "Worker 1 (164.92.118.130)")
	assert.Contains(t, out, "Exiting swarm orchestrator...")
	assert.Contains(t, p.prompts, "Worker ID (1-3): ")
	assert.Contains(t, p.prompts, promptContinue)
	assert.Equal(t, []string{"4", "q"}, p.history)
	assert.True(t, p.closed)
}

func TestMenuCustomCommands(t *testing.T) {
	fake := transporttest.New(nil)
	p := &scriptedPrompter{inputs: []string{"6", "3", "uptime", "", "7", "df -h", ""}}

	_, err := runMenu(t, fake, p)
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, 3, calls[0].Worker.ID)
	assert.Equal(t, "cd ~/worktree-1 && uptime", calls[0].Command)

	for _, c := range calls[1:] {
		assert.Equal(t, "cd ~/worktree-1 && df -h", c.Command)
	}
}

func TestMenuRoutineOperations(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  map[int]string
	}{
		{
			name:  "sync",
			input: []string{"1", ""},
			want: map[int]string{
				1: "cd ~/worktree-1 && git pull origin dev",
				2: "cd ~/worktree-1 && git pull origin dev",
				3: "cd ~/worktree-1 && git pull origin dev",
			},
		},
		{
			name:  "build on worker one",
			input: []string{"3", ""},
			want:  map[int]string{1: "cd ~/worktree-1 && npm run build"},
		},
		{
			name:  "test on chosen worker",
			input: []string{"5", "3", ""},
			want:  map[int]string{3: "cd ~/worktree-1 && npm test"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := transporttest.New(nil)

			_, err := runMenu(t, fake, &scriptedPrompter{inputs: tc.input})
			require.NoError(t, err)
			assert.Equal(t, tc.want, fake.Commands())
		})
	}
}

func TestMenuBadInputKeepsRunning(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  string
	}{
		{name: "unknown choice", input: []string{"9", "", "q"}, want: invalidChoice},
		{name: "non-numeric worker", input: []string{"4", "abc", "", "q"}, want: "invalid worker id"},
		{name: "unknown worker", input: []string{"6", "9", "ls", "", "q"}, want: "worker not found: 9"},
		{name: "empty command", input: []string{"7", "  ", "", "q"}, want: "empty command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := transporttest.New(nil)

			out, err := runMenu(t, fake, &scriptedPrompter{inputs: tc.input})
			require.NoError(t, err)
			assert.Contains(t, out, tc.want)
			assert.Contains(t, out, "Exiting swarm orchestrator...")
			assert.Empty(t, fake.Calls())
		})
	}
}

func TestMenuFailedWorkerShowsSummary(t *testing.T) {
	fake := transporttest.New(map[int]transporttest.Script{
		2: {Lines: []string{"lint error"}, ExitCode: 2},
	})

	out, err := runMenu(t, fake, &scriptedPrompter{inputs: []string{"4", "2", "", "q"}})
	require.NoError(t, err, "a failed worker does not end the menu")
	assert.Contains(t, out, "[Worker 2] lint error")
	assert.Contains(t, out, "Worker 2 (exit code: 2)")
}

func TestMenuInputEnd(t *testing.T) {
	testCases := []struct {
		name    string
		end     error
		wantErr bool
	}{
		{name: "eof", end: io.EOF},
		{name: "ctrl+c", end: liner.ErrPromptAborted},
		{name: "read failure", end: errors.New("tty gone"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runMenu(t, transporttest.New(nil), &scriptedPrompter{end: tc.end})
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "tty gone")

				return
			}

			require.NoError(t, err)
			assert.Contains(t, out, "Exiting swarm orchestrator...")
		})
	}
}
