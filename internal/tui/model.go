// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

// Package tui renders flow progress in interactive terminals.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/prlink/internal/core/pipeline"
)

var (
	primaryColor = lipgloss.Color("#f06a6a")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	prStyle = lipgloss.NewStyle().
			Foreground(subtleColor).
			MarginBottom(1)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	activeStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(successColor)

	failedStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	detailStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)

// activityTimeout bounds the wait between step updates.
const activityTimeout = 60 * time.Second

// Step statuses.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// StepUpdate reports a step transition. Detail is what the step resolved
// (a workspace, an email, a task), or the reason it skipped or failed.
type StepUpdate struct {
	Step   string
	Status string
	Detail string
}

// FlowDone ends the view with the flow's outcome.
type FlowDone struct {
	Result *pipeline.Result
	Err    error
}

type stepRow struct {
	name   string
	status string
	detail string
}

// Model shows one row per step of the selected flow.
type Model struct {
	spinner spinner.Model
	method  string
	prURL   string
	rows    []stepRow
	active  int
	done    *FlowDone
	aborted bool
	updates <-chan tea.Msg
}

// NewModel creates a view for the steps of method. updates carries StepUpdate
// values followed by one FlowDone.
func NewModel(method, prURL string, steps []string, updates <-chan tea.Msg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	rows := make([]stepRow, len(steps))
	for i, name := range steps {
		rows[i] = stepRow{name: name}
	}

	return Model{
		spinner: s,
		method:  method,
		prURL:   prURL,
		rows:    rows,
		active:  -1,
		updates: updates,
	}
}

// Init starts the spinner and the update listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StepUpdate:
		for i := range m.rows {
			if m.rows[i].name == msg.Step {
				m.rows[i].status = msg.Status
				m.rows[i].detail = msg.Detail
				m.active = i
				break
			}
		}
		return m, m.next()

	case FlowDone:
		m.done = &msg
		m.active = -1
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-m.updates:
			if !ok {
				return FlowDone{}
			}
			return msg
		case <-time.After(activityTimeout):
			return FlowDone{Err: fmt.Errorf("no step update for %s", activityTimeout)}
		}
	}
}

// View renders the step list, and the outcome once the flow is done. The
// final frame stays on screen after the program exits.
func (m Model) View() string {
	if m.aborted {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("prlink · "+m.method) + "\n")
	if m.prURL != "" {
		s.WriteString(prStyle.Render(m.prURL))
	}
	s.WriteString("\n")

	halted := false
	for i, row := range m.rows {
		s.WriteString(m.renderRow(i, row, halted) + "\n")
		if row.status == StatusSkipped || row.status == StatusError {
			halted = true
		}
	}

	if m.done != nil {
		s.WriteString("\n" + outcome(m.done) + "\n")
		return s.String()
	}

	s.WriteString(detailStyle.Render("\nPress q to quit\n"))
	return s.String()
}

func (m Model) renderRow(i int, row stepRow, halted bool) string {
	prefix, style := "  ", pendingStyle
	switch row.status {
	case StatusSuccess:
		prefix, style = "✓ ", doneStyle
	case StatusError:
		prefix, style = "✗ ", failedStyle
	case StatusSkipped:
		prefix, style = "○ ", pendingStyle.Faint(true)
	case StatusStarted:
		if i == m.active && m.done == nil {
			prefix, style = m.spinner.View()+" ", activeStyle
		}
	default:
		if halted {
			return pendingStyle.Faint(true).Render("· " + row.name + " (not run)")
		}
	}

	line := style.Render(prefix + row.name)
	if row.detail != "" {
		line += "  " + detailStyle.Render(row.detail)
	}
	return line
}

// outcome renders the terminal state of the flow.
func outcome(d *FlowDone) string {
	r := d.Result
	switch {
	case d.Err != nil:
		return failedStyle.Render("✗ " + d.Err.Error())
	case r == nil:
		return pendingStyle.Render("Flow finished")
	case r.Skipped:
		return pendingStyle.Render("○ Nothing to do: " + r.SkipReason)
	case r.Assigned:
		line := fmt.Sprintf("✓ Assigned task %s to %s", r.TaskID, r.AssigneeName)
		if r.MatchedBy != "" {
			line += fmt.Sprintf(" (matched by %s)", r.MatchedBy)
		}
		return doneStyle.Render(line)
	case r.TaskID != "":
		return doneStyle.Render("✓ Created task "+r.TaskID) + "\n  " + detailStyle.Render(r.TaskURL)
	default:
		return pendingStyle.Render("No changes")
	}
}
