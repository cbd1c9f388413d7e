// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/core/pipeline"
	"github.com/similigh/prlink/internal/logger"
	"github.com/similigh/prlink/internal/tui"
)

// statusReportingStep forwards step transitions to the progress view.
type statusReportingStep struct {
	inner   pipeline.Step
	updates chan<- tea.Msg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.updates <- tui.StepUpdate{Step: s.Name(), Status: tui.StatusStarted}

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.updates <- tui.StepUpdate{Step: s.Name(), Status: tui.StatusSkipped, Detail: ctx.Result.SkipReason}
			return err
		}
		s.updates <- tui.StepUpdate{Step: s.Name(), Status: tui.StatusError, Detail: err.Error()}
		return err
	}

	s.updates <- tui.StepUpdate{Step: s.Name(), Status: tui.StatusSuccess, Detail: stepDetail(s.Name(), ctx)}
	return nil
}

// stepDetail describes what a successful step resolved.
func stepDetail(step string, ctx *pipeline.Context) string {
	switch step {
	case "workspace":
		return "workspace " + ctx.WorkspaceID
	case "assignee_lookup", "assignee_required":
		if ctx.Assignee != nil {
			return ctx.Assignee.Name
		}
		return "unassigned"
	case "reviewer_email":
		return ctx.AssigneeEmail
	case "task_matcher":
		if ctx.Result.MatchedBy != "" {
			return fmt.Sprintf("task %s (%s)", ctx.TaskID, ctx.Result.MatchedBy)
		}
		return "task " + ctx.TaskID
	case "task_composer":
		if ctx.Draft != nil {
			return ctx.Draft.Name
		}
	case "task_creator":
		return ctx.Result.TaskURL
	case "task_assigner":
		return "assigned to " + ctx.Result.AssigneeName
	}
	return ""
}

// interactive reports whether the progress view should be shown.
func interactive() bool {
	return !logger.IsCI() && isatty.IsTerminal(os.Stdout.Fd())
}

// runFlow runs the flow, with the progress view in interactive terminals.
func runFlow(ctx context.Context, runner *pipeline.Runner, in config.Inputs, pr *pipeline.PullRequest) (*pipeline.Context, error) {
	if !interactive() {
		return runner.Run(ctx, in, pr)
	}

	updates := make(chan tea.Msg)
	model := tui.NewModel(in.Method, pr.URL, pipeline.ResolveSteps(in.Method), updates)
	p := tea.NewProgram(model)

	// Step logs would tear the view; keep warnings and errors only.
	r := *runner
	r.Log = runner.Log.Level(zerolog.WarnLevel)
	r.Wrap = func(step pipeline.Step) pipeline.Step {
		return &statusReportingStep{inner: step, updates: updates}
	}

	var (
		pCtx   *pipeline.Context
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(updates)
		pCtx, runErr = r.Run(ctx, in, pr)
		var result *pipeline.Result
		if pCtx != nil {
			result = pCtx.Result
		}
		updates <- tui.FlowDone{Result: result, Err: runErr}
	}()

	_, tuiErr := p.Run()

	// The view may quit early; keep draining so steps never block.
	go func() {
		for range updates {
		}
	}()
	<-done

	if tuiErr != nil && runErr == nil {
		return pCtx, fmt.Errorf("failed to run TUI: %w", tuiErr)
	}
	return pCtx, runErr
}
