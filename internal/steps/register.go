// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package steps

import (
	"fmt"

	"github.com/similigh/prlink/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("workspace", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Tracker == nil {
			return nil, fmt.Errorf("tracker client is required")
		}
		return NewWorkspace(deps), nil
	})

	r.Register("assignee_lookup", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Tracker == nil {
			return nil, fmt.Errorf("tracker client is required")
		}
		return NewAssigneeLookup(deps), nil
	})

	r.Register("assignee_required", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Tracker == nil {
			return nil, fmt.Errorf("tracker client is required")
		}
		return NewAssigneeRequired(deps), nil
	})

	r.Register("task_composer", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewTaskComposer(deps), nil
	})

	r.Register("task_creator", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Tracker == nil {
			return nil, fmt.Errorf("tracker client is required")
		}
		return NewTaskCreator(deps), nil
	})

	r.Register("reviewer_email", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Reviewers == nil {
			return nil, fmt.Errorf("reviewer resolver is required")
		}
		return NewReviewerEmail(deps), nil
	})

	r.Register("task_matcher", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Tasks == nil {
			return nil, fmt.Errorf("task finder is required")
		}
		return NewTaskMatcher(deps), nil
	})

	r.Register("task_assigner", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps.Tracker == nil {
			return nil, fmt.Errorf("tracker client is required")
		}
		return NewTaskAssigner(deps), nil
	})
}
