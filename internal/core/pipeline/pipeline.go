// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package pipeline provides the core pipeline engine for prlink.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/integrations/asana"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., automated reviewer, no task found).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// PullRequest is the triggering pull request. It is populated once per
// invocation and not modified by steps.
type PullRequest struct {
	URL         string
	Description string
	Author      string
	GitHubUser  string
	Branch      string
	Title       string
	Number      int
	Repository  string // owner/repo
	Reviewer    string // requested reviewer, review_requested events only
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	Method       string `json:"method"`
	Skipped      bool   `json:"skipped"`
	SkipReason   string `json:"skip_reason,omitempty"`
	TaskID       string `json:"task_id,omitempty"`
	TaskURL      string `json:"task_url,omitempty"`
	MatchedBy    string `json:"matched_by,omitempty"`
	Assigned     bool   `json:"assigned"`
	AssigneeName string `json:"assignee,omitempty"`
}

// Outputs returns the action outputs produced so far.
func (r *Result) Outputs() map[string]string {
	out := make(map[string]string)
	if r.TaskID != "" && r.TaskURL != "" {
		out["taskId"] = r.TaskID
		out["taskUrl"] = r.TaskURL
	}
	if r.Assigned {
		out["assigned"] = strconv.FormatBool(r.Assigned)
		out["assignee"] = r.AssigneeName
	}
	return out
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// PR is the pull request being processed.
	PR *PullRequest

	// Inputs are the action inputs after config overlay.
	Inputs config.Inputs

	// Config is the loaded configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result

	// Log is the invocation logger.
	Log zerolog.Logger

	// WorkspaceID is resolved by the workspace step.
	WorkspaceID string

	// AssigneeEmail starts as the input and may be filled by reviewer resolution.
	AssigneeEmail string

	// Assignee is the tracker user resolved from AssigneeEmail.
	Assignee *asana.User

	// TaskID is the task to assign; from input or the task matcher.
	TaskID string

	// Draft is the task payload built by the composer.
	Draft *asana.TaskCreate
}

// NewContext creates a new pipeline context for a pull request.
func NewContext(ctx context.Context, pr *PullRequest, in config.Inputs, cfg *config.Config, log zerolog.Logger) *Context {
	return &Context{
		Ctx:           ctx,
		PR:            pr,
		Inputs:        in,
		Config:        cfg,
		Result:        &Result{Method: in.Method},
		Log:           log,
		AssigneeEmail: in.AssigneeEmail,
		TaskID:        in.TaskID,
	}
}

// Skip records the reason and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
