// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/swarm/internal/progress"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/result"
)

// WorkerStatus represents the current state of a worker in the TUI.
type WorkerStatus int

const (
	StatusPending WorkerStatus = iota
	StatusRunning
	StatusSuccess
	StatusFailed
)

// String returns a string representation of the worker status.
func (s WorkerStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WorkerRow is the live state of one worker's execution.
type WorkerRow struct {
	ID         int          // Worker ID
	Name       string       // Display name of the worker
	Status     WorkerStatus // Current execution status
	StartTime  *time.Time   // When execution started
	EndTime    *time.Time   // When execution completed
	LastOutput string       // Last line of output from the worker
	Lines      int          // Number of output lines seen
	ExitCode   int          // Exit code once finished
	ErrorMsg   string       // Transport error, if any
	mutex      sync.RWMutex // Protects concurrent access to fields
}

// RowInfo is a consistent snapshot of a WorkerRow.
type RowInfo struct {
	ID         int
	Name       string
	Status     WorkerStatus
	StartTime  *time.Time
	EndTime    *time.Time
	LastOutput string
	Lines      int
	ExitCode   int
	ErrorMsg   string
}

// NewWorkerRow creates a pending row for w.
func NewWorkerRow(w registry.Worker) *WorkerRow {
	return &WorkerRow{
		ID:     w.ID,
		Name:   w.String(),
		Status: StatusPending,
	}
}

// UpdateStatus safely updates the worker status.
func (wr *WorkerRow) UpdateStatus(status WorkerStatus) {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	wr.Status = status
	now := time.Now()

	switch status {
	case StatusRunning:
		if wr.StartTime == nil {
			wr.StartTime = &now
		}
	case StatusSuccess, StatusFailed:
		if wr.EndTime == nil {
			wr.EndTime = &now
		}
	}
}

// UpdateOutput records a new output line.
func (wr *WorkerRow) UpdateOutput(line string) {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	wr.Lines++

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		wr.LastOutput = trimmed
	}
}

// Finish records the outcome of the execution.
func (wr *WorkerRow) Finish(exitCode int, err error) {
	wr.mutex.Lock()
	wr.ExitCode = exitCode

	if err != nil {
		wr.ErrorMsg = strings.ReplaceAll(err.Error(), "\n", ": ")
	}
	wr.mutex.Unlock()

	if exitCode == 0 && err == nil {
		wr.UpdateStatus(StatusSuccess)
		return
	}

	wr.UpdateStatus(StatusFailed)
}

// Info safely retrieves display information.
func (wr *WorkerRow) Info() RowInfo {
	wr.mutex.RLock()
	defer wr.mutex.RUnlock()

	return RowInfo{
		ID:         wr.ID,
		Name:       wr.Name,
		Status:     wr.Status,
		StartTime:  wr.StartTime,
		EndTime:    wr.EndTime,
		LastOutput: wr.LastOutput,
		Lines:      wr.Lines,
		ExitCode:   wr.ExitCode,
		ErrorMsg:   wr.ErrorMsg,
	}
}

// Model represents the TUI application state.
type Model struct {
	title     string
	command   string
	rows      []*WorkerRow
	index     map[int]*WorkerRow
	width     int
	height    int
	quitting  bool
	completed bool
	autoQuit  bool
	results   result.Set

	viewport viewport.Model
	spinner  spinner.Model
	styles   *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Command lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Output  lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			MarginBottom(1),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// NewModel creates a model with one pending row per worker.
func NewModel(title, command string, workers []registry.Worker) *Model {
	styles := NewStyles()

	m := &Model{
		title:    title,
		command:  command,
		rows:     make([]*WorkerRow, 0, len(workers)),
		index:    make(map[int]*WorkerRow, len(workers)),
		viewport: viewport.New(defaultWidth, defaultHeight),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Running)),
		styles:   styles,
	}

	for _, w := range workers {
		if _, ok := m.index[w.ID]; ok {
			continue
		}

		row := NewWorkerRow(w)
		m.rows = append(m.rows, row)
		m.index[w.ID] = row
	}

	return m
}

// Rows returns a snapshot of every row in worker order.
func (m *Model) Rows() []RowInfo {
	out := make([]RowInfo, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r.Info())
	}

	return out
}

// Completed reports whether the final results have arrived.
func (m *Model) Completed() bool {
	return m.completed
}

// processProgressEvent applies an event to the matching row.
// Events for unknown workers add a row so nothing is silently lost.
func (m *Model) processProgressEvent(event progress.Event) {
	row, ok := m.index[event.WorkerID]
	if !ok {
		row = NewWorkerRow(registry.Worker{ID: event.WorkerID})
		m.rows = append(m.rows, row)
		m.index[event.WorkerID] = row
	}

	switch event.Type {
	case progress.EventStarted:
		row.UpdateStatus(StatusRunning)
	case progress.EventOutput:
		row.UpdateOutput(event.Line)
	case progress.EventCompleted, progress.EventFailed:
		row.Finish(event.ExitCode, event.Err)
	}
}

// applyResults reconciles rows with the final results, in case events were dropped.
func (m *Model) applyResults(set result.Set) {
	for _, id := range set.IDs() {
		r := set[id]

		row, ok := m.index[id]
		if !ok {
			continue
		}

		if info := row.Info(); info.Status == StatusSuccess || info.Status == StatusFailed {
			continue
		}

		row.UpdateStatus(StatusRunning)
		row.Finish(r.ExitCode, r.Err)
	}
}
