// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-18

package asana

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const taskSearchFields = "gid,name,notes"

type taskResponse struct {
	Data *Task `json:"data"`
}

// CreateTask creates a task with a single request; it is never retried. Any
// failure is returned to the caller.
func (c *Client) CreateTask(ctx context.Context, task TaskCreate) (*Task, error) {
	if len(task.Projects) != 1 {
		return nil, fmt.Errorf("task must target exactly one project, got %d", len(task.Projects))
	}
	if task.Workspace == "" {
		return nil, fmt.Errorf("task workspace cannot be empty")
	}

	var resp taskResponse
	if err := c.doOnce(ctx, "POST", "/tasks", nil, task, &resp); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if resp.Data == nil || resp.Data.GID == "" {
		return nil, fmt.Errorf("failed to create task: invalid data returned on task creation")
	}
	return resp.Data, nil
}

// AssignTask sets the assignee of a task. It reports success as a bool; failures
// are logged rather than returned.
func (c *Client) AssignTask(ctx context.Context, taskID, assigneeID string) bool {
	c.log.Info().Str("task", taskID).Str("assignee", assigneeID).Msg("Assigning task")

	var resp taskResponse
	body := map[string]string{"assignee": assigneeID}
	if err := c.doJSON(ctx, "PUT", "/tasks/"+url.PathEscape(taskID), nil, body, &resp); err != nil {
		c.log.Warn().Err(err).Str("task", taskID).Msg("Failed to assign task")
		return false
	}

	name := ""
	if resp.Data != nil {
		name = resp.Data.Name
	}
	c.log.Info().Str("task", taskID).Str("name", name).Msg("Task assigned successfully")
	return true
}

// ListProjectTasks returns one page of a project's tasks, most recently
// modified first. A failed page is not retried; the matcher falls back instead.
func (c *Client) ListProjectTasks(ctx context.Context, projectID string, opts ListOptions) (*TaskPage, error) {
	q := listQuery(opts.Limit)
	if opts.Offset != "" {
		q.Set("offset", opts.Offset)
	}

	var page TaskPage
	if err := c.doOnce(ctx, "GET", "/projects/"+url.PathEscape(projectID)+"/tasks", q, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch project tasks: %w", err)
	}
	return &page, nil
}

// ListRecentTasks returns up to limit recently modified tasks from the global
// task listing endpoint in a single, unretried request. The listing endpoint requires a
// scoping filter, so projectID is passed as the "project" filter.
func (c *Client) ListRecentTasks(ctx context.Context, projectID string, limit int) ([]Task, error) {
	q := listQuery(limit)
	q.Set("project", projectID)

	var page TaskPage
	if err := c.doOnce(ctx, "GET", "/tasks", q, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch recent tasks: %w", err)
	}
	return page.Tasks, nil
}

func listQuery(limit int) url.Values {
	q := url.Values{}
	q.Set("opt_fields", taskSearchFields)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	q.Set("sort_by", "modified_at")
	q.Set("sort_ascending", "false")
	return q
}

// TaskURL builds the web URL of a task inside a project.
func TaskURL(projectID, taskID string) string {
	return fmt.Sprintf("https://app.asana.com/0/%s/%s", projectID, taskID)
}
