// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"github.com/similigh/prlink/internal/core/pipeline"
)

// ReviewerEmail resolves the requested reviewer's email when no assignee
// email was given.
type ReviewerEmail struct {
	reviewers pipeline.ReviewerResolver
}

// NewReviewerEmail creates a new reviewer email step.
func NewReviewerEmail(deps *pipeline.Dependencies) *ReviewerEmail {
	return &ReviewerEmail{reviewers: deps.Reviewers}
}

// Name returns the step name.
func (s *ReviewerEmail) Name() string {
	return "reviewer_email"
}

// Run fills ctx.AssigneeEmail or skips the flow.
func (s *ReviewerEmail) Run(ctx *pipeline.Context) error {
	if ctx.AssigneeEmail != "" {
		return nil
	}
	log := ctx.Log.With().Str("step", s.Name()).Logger()

	login := ctx.Inputs.ReviewerLogin
	if login == "" {
		login = ctx.PR.Reviewer
	}
	if login == "" || ctx.PR.Repository == "" {
		log.Info().Msg("Insufficient information provided to determine reviewer username")
	}

	res := s.reviewers.Resolve(ctx.Ctx, login, ctx.PR.Repository)
	if res.Skip || res.Email == "" {
		log.Info().Str("reviewer", login).Msg("No assignee email provided, skipping task assignment")
		return ctx.Skip("reviewer email not resolved")
	}

	ctx.AssigneeEmail = res.Email
	log.Info().Str("reviewer", login).Str("email", res.Email).Msg("Resolved reviewer email")
	return nil
}
