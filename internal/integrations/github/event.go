// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-13

package github

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-github/v60/github"
)

// PullRequestInfo is the subset of a pull_request event the flows consume.
type PullRequestInfo struct {
	URL         string
	Description string
	Author      string
	Branch      string
	Title       string
	Number      int
	Repository  string // owner/repo
	Action      string
	Reviewer    string // requested_reviewer.login, review_requested only
}

// PullRequestEventFromMap decodes an already-parsed event payload.
func PullRequestEventFromMap(event map[string]any) (*github.PullRequestEvent, error) {
	if len(event) == 0 {
		return nil, fmt.Errorf("event payload is empty")
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return PullRequestEventFromJSON(raw)
}

// PullRequestEventFromJSON decodes a raw pull_request event payload.
func PullRequestEventFromJSON(raw []byte) (*github.PullRequestEvent, error) {
	var ev github.PullRequestEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}
	return &ev, nil
}

// LoadPullRequestEvent reads a pull_request event from a file such as GITHUB_EVENT_PATH.
func LoadPullRequestEvent(path string) (*github.PullRequestEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return PullRequestEventFromJSON(data)
}

// PullRequestInfoFromEvent extracts flow inputs from a pull_request event.
// It fails when the event carries no pull request.
func PullRequestInfoFromEvent(ev *github.PullRequestEvent) (*PullRequestInfo, error) {
	if ev == nil || ev.PullRequest == nil {
		return nil, fmt.Errorf("this action must be run in the context of a pull request")
	}
	pr := ev.PullRequest

	info := &PullRequestInfo{
		URL:         pr.GetHTMLURL(),
		Description: pr.GetBody(),
		Author:      pr.GetUser().GetLogin(),
		Branch:      pr.GetHead().GetRef(),
		Title:       pr.GetTitle(),
		Number:      pr.GetNumber(),
		Repository:  ev.GetRepo().GetFullName(),
		Action:      ev.GetAction(),
		Reviewer:    ev.GetRequestedReviewer().GetLogin(),
	}
	if info.Number == 0 {
		info.Number = ev.GetNumber()
	}
	return info, nil
}
