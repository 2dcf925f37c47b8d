// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/result"
)

const (
	defaultWidth                = 100
	defaultHeight               = 20
	minViewportWidth            = 40
	reservedLines               = 8 // title, command, border and footer
	minStatusBarAvailableHeight = 10
	durationRounding            = 100 * time.Millisecond
	ellipsis                    = "..."
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// CompletedMsg indicates that every worker has finished.
type CompletedMsg struct {
	Results result.Set
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSize()

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case ProgressEventMsg:
		m.processProgressEvent(msg.Event)
		return m, nil

	case CompletedMsg:
		m.completed = true
		m.results = msg.Results
		m.applyResults(msg.Results)

		if m.autoQuit {
			return m, tea.Quit
		}

		return m, nil
	}

	return m, nil
}

func (m *Model) updateViewportSize() {
	w := m.width - 2 //nolint:mnd // border
	if w < minViewportWidth {
		w = minViewportWidth
	}

	h := m.height - reservedLines
	if h < 1 {
		h = 1
	}

	m.viewport.Width = w
	m.viewport.Height = h
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var content strings.Builder

	for _, row := range m.rows {
		m.renderRow(&content, row.Info())
	}

	if m.completed {
		content.WriteString("\n")

		if m.results.HasFailure() {
			content.WriteString(m.styles.Failed.Render(fmt.Sprintf("✗ %d of %d workers failed", len(m.results.Failed()), len(m.results))))
		} else {
			content.WriteString(m.styles.Success.Render(fmt.Sprintf("✓ All %d workers succeeded", len(m.results))))
		}

		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())

	var view strings.Builder

	view.WriteString(m.styles.Title.Render(m.title))
	view.WriteString("\n")
	view.WriteString(m.styles.Command.Render("Command: " + m.command))
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height == 0 || m.height > minStatusBarAvailableHeight {
		view.WriteString("\n")
		view.WriteString(m.renderStatusBar())
		view.WriteString("\n")

		helpText := "↑/↓ or j/k to scroll, 'q' to stop and quit"
		if m.completed {
			helpText = "↑/↓ or j/k to scroll, 'q' to quit and return to terminal"
		}

		view.WriteString(m.styles.Help.Render(helpText))
	}

	return view.String()
}

func (m *Model) renderRow(b *strings.Builder, info RowInfo) {
	var icon, name string

	switch info.Status {
	case StatusPending:
		icon = "…"
		name = m.styles.Pending.Render(info.Name)
	case StatusRunning:
		icon = m.spinner.View()
		name = m.styles.Running.Render(info.Name)
	case StatusSuccess:
		icon = m.styles.Success.Render("✓")
		name = m.styles.Success.Render(info.Name)
	case StatusFailed:
		icon = m.styles.Failed.Render("✗")
		name = m.styles.Failed.Render(info.Name)
	}

	left := fmt.Sprintf("%s %s", icon, name)

	if info.StartTime != nil {
		elapsed := time.Since(*info.StartTime)
		if info.EndTime != nil {
			elapsed = info.EndTime.Sub(*info.StartTime)
		}

		left += m.styles.Output.Render(fmt.Sprintf(" (%v)", elapsed.Round(durationRounding)))
	}

	var right string

	switch {
	case info.Status == StatusFailed && info.ErrorMsg != "":
		right = m.styles.Error.Render(truncate("Error: "+info.ErrorMsg, m.rightWidth()))
	case info.Status == StatusFailed:
		right = m.styles.Error.Render(fmt.Sprintf("exit code %d", info.ExitCode))
	case info.LastOutput != "":
		right = m.styles.Output.Render(truncate(info.LastOutput, m.rightWidth()))
	}

	b.WriteString(left)

	if right != "" {
		pad := m.viewport.Width/2 - lipgloss.Width(left) //nolint:mnd
		if pad < 1 {
			pad = 1
		}

		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(right)
	}

	b.WriteString("\n")
}

func (m *Model) rightWidth() int {
	w := m.viewport.Width / 2 //nolint:mnd
	if w < len(ellipsis)+1 {
		return len(ellipsis) + 1
	}

	return w
}

func (m *Model) renderStatusBar() string {
	var pending, running, succeeded, failed int

	for _, row := range m.rows {
		switch row.Info().Status {
		case StatusPending:
			pending++
		case StatusRunning:
			running++
		case StatusSuccess:
			succeeded++
		case StatusFailed:
			failed++
		}
	}

	return fmt.Sprintf("%s  %s  %s  %s",
		m.styles.Pending.Render(fmt.Sprintf("pending %d", pending)),
		m.styles.Running.Render(fmt.Sprintf("running %d", running)),
		m.styles.Success.Render(fmt.Sprintf("ok %d", succeeded)),
		m.styles.Failed.Render(fmt.Sprintf("failed %d", failed)),
	)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}

	return string(r[:width-len(ellipsis)]) + ellipsis
}
