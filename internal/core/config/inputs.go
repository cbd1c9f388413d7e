// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-18

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Inputs are the per-invocation action inputs. Empty strings mean absent.
type Inputs struct {
	Method        string
	Token         string
	ProjectID     string
	AssigneeEmail string
	TaskID        string
	ReviewerLogin string
	TagID         string

	// Manual overrides for pull request context.
	PRURL         string
	PRDescription string
	PRAuthor      string
	GitHubUser    string
	BranchName    string
	Title         string
}

// InputGetter returns a named action input, "" when unset.
type InputGetter func(name string) string

// ReadInputs collects action inputs. "projectId" is accepted as a legacy
// spelling of "project-id".
func ReadInputs(get InputGetter) Inputs {
	in := Inputs{
		Method:        get("method"),
		Token:         get("token"),
		ProjectID:     get("project-id"),
		AssigneeEmail: get("assignee-email"),
		TaskID:        get("task-id"),
		ReviewerLogin: get("reviewer-login"),
		TagID:         get("optional-tag"),
		PRURL:         get("pr-url"),
		PRDescription: get("pr-description"),
		PRAuthor:      get("pr-author"),
		GitHubUser:    get("github-user"),
		BranchName:    get("branch-name"),
		Title:         get("title"),
	}
	if in.ProjectID == "" {
		in.ProjectID = get("projectId")
	}
	return in
}

// ApplyInputs overlays non-empty inputs onto the config and fills empty
// inputs from it, so both views agree afterwards.
func ApplyInputs(cfg *Config, in *Inputs) {
	fill := func(input *string, target *string) {
		if *input != "" {
			*target = *input
		} else {
			*input = *target
		}
	}
	fill(&in.Method, &cfg.Method)
	fill(&in.Token, &cfg.Asana.Token)
	fill(&in.ProjectID, &cfg.Asana.ProjectID)
	fill(&in.TagID, &cfg.Asana.TagID)
}

type createRequirements struct {
	Token     string `validate:"required"`
	ProjectID string `validate:"required,numeric"`
	TagID     string `validate:"omitempty,numeric"`
}

type assignRequirements struct {
	Token     string `validate:"required"`
	ProjectID string `validate:"omitempty,numeric"`
	TaskID    string `validate:"omitempty,numeric"`
}

type serveRequirements struct {
	Addr          string `validate:"required"`
	WebhookSecret string `validate:"required"`
}

var inputValidator = validator.New()

// ValidateCreate checks the inputs needed to create a task.
func ValidateCreate(in Inputs) error {
	return validate(createRequirements{
		Token:     in.Token,
		ProjectID: in.ProjectID,
		TagID:     in.TagID,
	})
}

// ValidateAssign checks the inputs needed to assign a task.
func ValidateAssign(in Inputs) error {
	if in.ProjectID == "" && in.TaskID == "" {
		return fmt.Errorf("invalid inputs: one of project-id or task-id is required")
	}
	return validate(assignRequirements{
		Token:     in.Token,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
	})
}

// CheckAssigneeEmail reports a malformed assignee-email. It is advisory: the
// flows treat an email that matches no tracker user as unassigned.
func CheckAssigneeEmail(in Inputs) error {
	if in.AssigneeEmail == "" {
		return nil
	}
	if err := inputValidator.Var(in.AssigneeEmail, "email"); err != nil {
		return fmt.Errorf("assignee-email %q is not a valid email address", in.AssigneeEmail)
	}
	return nil
}

// ValidateServe checks the webhook server settings.
func ValidateServe(cfg *Config) error {
	return validate(serveRequirements{
		Addr:          cfg.Server.Addr,
		WebhookSecret: cfg.Server.WebhookSecret,
	})
}

func validate(v any) error {
	err := inputValidator.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", inputName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid inputs: %s", strings.Join(msgs, ", "))
}

// inputName maps requirement fields back to input names for error messages.
func inputName(field string) string {
	switch field {
	case "Token":
		return "token"
	case "ProjectID":
		return "project-id"
	case "TaskID":
		return "task-id"
	case "TagID":
		return "optional-tag"
	case "Addr":
		return "server.addr"
	case "WebhookSecret":
		return "server.webhook_secret"
	}
	return field
}
