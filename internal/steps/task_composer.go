// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"github.com/similigh/prlink/internal/core/pipeline"
	"github.com/similigh/prlink/internal/integrations/asana"
	"github.com/similigh/prlink/internal/utils/text"
)

// TaskComposer builds the creation payload for a review task.
type TaskComposer struct{}

// NewTaskComposer creates a new task composer step.
func NewTaskComposer(deps *pipeline.Dependencies) *TaskComposer {
	return &TaskComposer{}
}

// Name returns the step name.
func (s *TaskComposer) Name() string {
	return "task_composer"
}

// Run composes title, notes and routing for the new task.
func (s *TaskComposer) Run(ctx *pipeline.Context) error {
	pr := ctx.PR

	authorName := pr.Author
	var assigneeID string
	if ctx.Assignee != nil {
		authorName = ctx.Assignee.Name
		assigneeID = ctx.Assignee.GID
	}

	title := text.BuildTaskTitle(pr.Branch, pr.URL, pr.Title)
	draft := &asana.TaskCreate{
		Name:      title,
		Notes:     text.BuildTaskNotes(title, authorName, pr.Description, pr.URL),
		Projects:  []string{ctx.Inputs.ProjectID},
		Workspace: ctx.WorkspaceID,
		Assignee:  assigneeID,
	}
	if ctx.Inputs.TagID != "" {
		draft.Tags = []string{ctx.Inputs.TagID}
	}

	ctx.Draft = draft
	ctx.Log.Debug().Str("step", s.Name()).Str("title", title).Msg("Composed task")
	return nil
}
