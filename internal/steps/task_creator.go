// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"errors"
	"fmt"

	"github.com/similigh/prlink/internal/core/pipeline"
	"github.com/similigh/prlink/internal/integrations/asana"
)

// TaskCreator submits the composed task to the tracker.
type TaskCreator struct {
	tracker pipeline.Tracker
	dryRun  bool
}

// NewTaskCreator creates a new task creator step.
func NewTaskCreator(deps *pipeline.Dependencies) *TaskCreator {
	return &TaskCreator{tracker: deps.Tracker, dryRun: deps.DryRun}
}

// Name returns the step name.
func (s *TaskCreator) Name() string {
	return "task_creator"
}

// Run creates the task and records the taskId and taskUrl outputs.
func (s *TaskCreator) Run(ctx *pipeline.Context) error {
	if ctx.Draft == nil {
		return errors.New("no task composed")
	}
	log := ctx.Log.With().Str("step", s.Name()).Logger()

	if s.dryRun {
		log.Info().Str("title", ctx.Draft.Name).Str("assignee", ctx.Draft.Assignee).Msg("[DRY RUN] Would create task")
		return ctx.Skip("dry run")
	}

	task, err := s.tracker.CreateTask(ctx.Ctx, *ctx.Draft)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	ctx.Result.TaskID = task.GID
	ctx.Result.TaskURL = asana.TaskURL(ctx.Inputs.ProjectID, task.GID)
	log.Info().Str("task", task.GID).Msgf("✅ Created task: %s", task.GID)
	return nil
}
