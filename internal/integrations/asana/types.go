// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-12

package asana

import (
	"encoding/json"
	"fmt"
	"strings"
)

// User is an Asana workspace member.
type User struct {
	GID   string `json:"gid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Workspace is an Asana workspace reference.
type Workspace struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Project is an Asana project reference.
type Project struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// Task is the task projection returned by list and create calls.
// Notes conventionally embed the pull request URL.
type Task struct {
	GID      string    `json:"gid"`
	Name     string    `json:"name"`
	Notes    string    `json:"notes,omitempty"`
	Assignee *User     `json:"assignee,omitempty"`
	Projects []Project `json:"projects,omitempty"`
}

// TaskCreate is the payload for creating a task.
// It always targets exactly one project inside one workspace.
type TaskCreate struct {
	Name      string   `json:"name"`
	Notes     string   `json:"notes"`
	Projects  []string `json:"projects"`
	Workspace string   `json:"workspace"`
	Assignee  string   `json:"assignee,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// NextPage is the pagination cursor returned by list endpoints.
type NextPage struct {
	Offset string `json:"offset"`
	Path   string `json:"path"`
	URI    string `json:"uri"`
}

// TaskPage is one page of tasks. A nil NextPage marks the last page.
type TaskPage struct {
	Tasks    []Task    `json:"data"`
	NextPage *NextPage `json:"next_page"`
}

// Cursor returns the offset for the following page, or "" on the last page.
func (p *TaskPage) Cursor() string {
	if p == nil || p.NextPage == nil {
		return ""
	}
	return p.NextPage.Offset
}

// ListOptions controls task list requests.
type ListOptions struct {
	Limit  int
	Offset string
}

// apiErrorEntry is a single entry of Asana's "errors" array.
type apiErrorEntry struct {
	Message string `json:"message"`
	Help    string `json:"help,omitempty"`
}

// APIError is returned for any non-success HTTP status.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
	Errors     []apiErrorEntry
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, m := range e.Errors {
			msgs = append(msgs, m.Message)
		}
		return fmt.Sprintf("asana api status=%d: %s", e.StatusCode, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("asana api status=%d body=%s", e.StatusCode, strings.TrimSpace(e.Body))
}

// newAPIError builds an APIError and decodes the errors array when present.
func newAPIError(statusCode int, status string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     status,
		Body:       string(body),
	}
	var envelope struct {
		Errors []apiErrorEntry `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Errors = envelope.Errors
	}
	return apiErr
}
