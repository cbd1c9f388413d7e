// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"github.com/similigh/prlink/internal/core/pipeline"
)

// TaskMatcher finds the task tracking the pull request when no task id was given.
type TaskMatcher struct {
	tasks pipeline.TaskFinder
}

// NewTaskMatcher creates a new task matcher step.
func NewTaskMatcher(deps *pipeline.Dependencies) *TaskMatcher {
	return &TaskMatcher{tasks: deps.Tasks}
}

// Name returns the step name.
func (s *TaskMatcher) Name() string {
	return "task_matcher"
}

// Run fills ctx.TaskID or skips the flow.
func (s *TaskMatcher) Run(ctx *pipeline.Context) error {
	if ctx.TaskID != "" {
		return nil
	}
	log := ctx.Log.With().Str("step", s.Name()).Logger()

	if ctx.PR.URL == "" {
		log.Info().Msg("Neither Task ID nor PR Url provided, skipping task assignment")
		return ctx.Skip("no task id or pull request url")
	}

	match, ok := s.tasks.Find(ctx.Ctx, ctx.PR.URL, ctx.Inputs.ProjectID)
	if !ok {
		log.Warn().Str("pr_url", ctx.PR.URL).Msg("Could not find Asana task for PR")
		return ctx.Skip("no task found for pull request")
	}

	ctx.TaskID = match.TaskID
	ctx.Result.MatchedBy = match.Strategy
	log.Info().Str("task", match.TaskID).Str("strategy", match.Strategy).Msg("Task ID retrieved from Asana tasks")
	return nil
}
