// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package steps contains the modular "Lego block" pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"github.com/similigh/prlink/internal/core/pipeline"
)

// Gatekeeper checks that a pull request is present and the method is runnable.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run validates the invocation context.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	if ctx.PR == nil {
		return pipeline.ErrNoPullRequest
	}

	log := ctx.Log.With().Str("step", s.Name()).Logger()
	log.Info().
		Str("method", ctx.Result.Method).
		Str("pr_url", ctx.PR.URL).
		Str("title", ctx.PR.Title).
		Str("pr_author", ctx.PR.Author).
		Str("github_user", ctx.PR.GitHubUser).
		Str("branch", ctx.PR.Branch).
		Str("repository", ctx.PR.Repository).
		Str("project_id", ctx.Inputs.ProjectID).
		Str("assignee_email", ctx.Inputs.AssigneeEmail).
		Str("task_id", ctx.Inputs.TaskID).
		Int("description_length", len(ctx.PR.Description)).
		Msg("Processing pull request")

	if ctx.Result.Method == pipeline.MethodComplete {
		log.Info().Msg("Not implemented yet")
		return ctx.Skip("method not implemented yet")
	}

	return nil
}
