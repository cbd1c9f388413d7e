// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"github.com/similigh/prlink/internal/core/pipeline"
)

// AssigneeLookup resolves the optional assignee of a new task. A miss is not
// an error; the task is created unassigned.
type AssigneeLookup struct {
	tracker pipeline.Tracker
}

// NewAssigneeLookup creates a new assignee lookup step.
func NewAssigneeLookup(deps *pipeline.Dependencies) *AssigneeLookup {
	return &AssigneeLookup{tracker: deps.Tracker}
}

// Name returns the step name.
func (s *AssigneeLookup) Name() string {
	return "assignee_lookup"
}

// Run looks up the assignee email when one was given.
func (s *AssigneeLookup) Run(ctx *pipeline.Context) error {
	if ctx.AssigneeEmail == "" {
		return nil
	}
	log := ctx.Log.With().Str("step", s.Name()).Logger()

	user := s.tracker.FindUserByEmail(ctx.Ctx, ctx.AssigneeEmail, ctx.WorkspaceID)
	switch {
	case user != nil:
		log.Info().Str("name", user.Name).Str("email", user.Email).Msg("Found Asana user")
		ctx.Assignee = user
	case ctx.PR.Author == "":
		log.Info().Msg("Could not find Asana user for author. The task will not be assigned to anyone")
	default:
		log.Info().Str("pr_author", ctx.PR.Author).Msg("Could not find Asana user for author, using plain text")
	}
	return nil
}

// AssigneeRequired resolves the assignee of an existing task. A miss ends
// the flow without changes.
type AssigneeRequired struct {
	tracker pipeline.Tracker
}

// NewAssigneeRequired creates a new required assignee step.
func NewAssigneeRequired(deps *pipeline.Dependencies) *AssigneeRequired {
	return &AssigneeRequired{tracker: deps.Tracker}
}

// Name returns the step name.
func (s *AssigneeRequired) Name() string {
	return "assignee_required"
}

// Run looks up the assignee and skips the rest of the flow when absent.
func (s *AssigneeRequired) Run(ctx *pipeline.Context) error {
	log := ctx.Log.With().Str("step", s.Name()).Logger()
	if ctx.AssigneeEmail == "" {
		log.Info().Msg("No assignee email provided, skipping task assignment")
		return ctx.Skip("no assignee email")
	}

	user := s.tracker.FindUserByEmail(ctx.Ctx, ctx.AssigneeEmail, ctx.WorkspaceID)
	if user == nil {
		log.Warn().Str("email", ctx.AssigneeEmail).Msg("Could not find Asana user with email")
		return ctx.Skip("assignee not found in workspace")
	}
	ctx.Assignee = user
	return nil
}
