// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"errors"

	"github.com/similigh/prlink/internal/core/pipeline"
)

// TaskAssigner assigns the matched task to the resolved user.
type TaskAssigner struct {
	tracker pipeline.Tracker
	dryRun  bool
}

// NewTaskAssigner creates a new task assigner step.
func NewTaskAssigner(deps *pipeline.Dependencies) *TaskAssigner {
	return &TaskAssigner{tracker: deps.Tracker, dryRun: deps.DryRun}
}

// Name returns the step name.
func (s *TaskAssigner) Name() string {
	return "task_assigner"
}

// Run performs the assignment and records the assigned and assignee outputs.
func (s *TaskAssigner) Run(ctx *pipeline.Context) error {
	if ctx.TaskID == "" || ctx.Assignee == nil {
		return errors.New("task or assignee not resolved")
	}
	log := ctx.Log.With().Str("step", s.Name()).Logger()
	ctx.Result.TaskID = ctx.TaskID

	if s.dryRun {
		log.Info().Str("task", ctx.TaskID).Str("assignee", ctx.Assignee.Name).Msg("[DRY RUN] Would assign task")
		return ctx.Skip("dry run")
	}

	if !s.tracker.AssignTask(ctx.Ctx, ctx.TaskID, ctx.Assignee.GID) {
		return &pipeline.AssignmentError{Assignee: ctx.Assignee.Name}
	}

	ctx.Result.Assigned = true
	ctx.Result.AssigneeName = ctx.Assignee.Name
	log.Info().Str("task", ctx.TaskID).Msgf("✅ Successfully assigned task to %s", ctx.Assignee.Name)
	return nil
}
