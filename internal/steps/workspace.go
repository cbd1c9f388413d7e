// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"fmt"

	"github.com/similigh/prlink/internal/core/pipeline"
)

// Workspace resolves the tracker workspace the flow operates in.
type Workspace struct {
	tracker pipeline.Tracker
}

// NewWorkspace creates a new workspace step.
func NewWorkspace(deps *pipeline.Dependencies) *Workspace {
	return &Workspace{tracker: deps.Tracker}
}

// Name returns the step name.
func (s *Workspace) Name() string {
	return "workspace"
}

// Run resolves the workspace id. A configured id skips the lookup.
func (s *Workspace) Run(ctx *pipeline.Context) error {
	if id := ctx.Config.Asana.WorkspaceID; id != "" {
		ctx.WorkspaceID = id
		return nil
	}

	id, err := s.tracker.WorkspaceID(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}
	ctx.WorkspaceID = id
	ctx.Log.Debug().Str("step", s.Name()).Str("workspace", id).Msg("Resolved workspace")
	return nil
}
