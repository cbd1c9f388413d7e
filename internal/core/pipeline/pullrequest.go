// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-18

package pipeline

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/integrations/github"
	"github.com/similigh/prlink/internal/utils/text"
)

// ErrNoPullRequest is returned when an invocation has no pull request context.
var ErrNoPullRequest = errors.New("this action must be run in the context of a pull request")

// AssignmentError reports that the tracker refused an assignment.
type AssignmentError struct {
	Assignee string
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("Failed to assign task to %s", e.Assignee)
}

// NewPullRequest merges event context with manual input overrides. Non-empty
// inputs win. When info is nil the pr-url input must be set, otherwise
// ErrNoPullRequest is returned. repoSlug is used when the event carries no
// repository.
func NewPullRequest(info *github.PullRequestInfo, in config.Inputs, repoSlug string) (*PullRequest, error) {
	if info == nil {
		if in.PRURL == "" {
			return nil, ErrNoPullRequest
		}
		info = &github.PullRequestInfo{}
	}

	pick := func(override, fallback string) string {
		if override != "" {
			return override
		}
		return fallback
	}

	pr := &PullRequest{
		URL:         pick(in.PRURL, info.URL),
		Description: pick(in.PRDescription, info.Description),
		Author:      pick(in.PRAuthor, info.Author),
		GitHubUser:  pick(in.GitHubUser, info.Author),
		Branch:      pick(in.BranchName, info.Branch),
		Title:       pick(in.Title, info.Title),
		Number:      info.Number,
		Repository:  pick(info.Repository, repoSlug),
		Reviewer:    info.Reviewer,
	}

	if digits, ok := text.PullNumber(pr.URL); ok {
		if n, err := strconv.Atoi(digits); err == nil {
			pr.Number = n
		}
	}
	return pr, nil
}

// FailureMessage renders the single human-readable message for a fatal flow error.
func FailureMessage(method string, err error) string {
	var assignErr *AssignmentError
	if errors.As(err, &assignErr) {
		return "❌ " + assignErr.Error()
	}

	verb := "create"
	if ResolveMethod(method) == MethodAssign {
		verb = "assign"
	}
	return fmt.Sprintf("❌ Failed to %s Asana task: %v", verb, err)
}
