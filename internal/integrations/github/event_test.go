// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-13

package github

import (
	"os"
	"path/filepath"
	"testing"
)

const reviewRequestedPayload = `{
	"action": "review_requested",
	"number": 42,
	"pull_request": {
		"html_url": "https://github.com/org/myrepo/pull/42",
		"body": "Adds the thing",
		"title": "Add thing",
		"number": 42,
		"user": {"login": "alice"},
		"head": {"ref": "feature/thing"}
	},
	"requested_reviewer": {"login": "bob"},
	"repository": {"full_name": "org/myrepo"}
}`

func TestPullRequestInfoFromEvent(t *testing.T) {
	ev, err := PullRequestEventFromJSON([]byte(reviewRequestedPayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	info, err := PullRequestInfoFromEvent(ev)
	if err != nil {
		t.Fatalf("info: %v", err)
	}

	want := PullRequestInfo{
		URL:         "https://github.com/org/myrepo/pull/42",
		Description: "Adds the thing",
		Author:      "alice",
		Branch:      "feature/thing",
		Title:       "Add thing",
		Number:      42,
		Repository:  "org/myrepo",
		Action:      "review_requested",
		Reviewer:    "bob",
	}
	if *info != want {
		t.Errorf("got %+v, want %+v", *info, want)
	}
}

func TestPullRequestInfoFromEvent_NoPullRequest(t *testing.T) {
	ev, err := PullRequestEventFromJSON([]byte(`{"action":"opened"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := PullRequestInfoFromEvent(ev); err == nil {
		t.Error("Expected error for event without pull_request")
	}
	if _, err := PullRequestInfoFromEvent(nil); err == nil {
		t.Error("Expected error for nil event")
	}
}

func TestPullRequestEventFromMap(t *testing.T) {
	ev, err := PullRequestEventFromMap(map[string]any{
		"action": "opened",
		"pull_request": map[string]any{
			"html_url": "https://github.com/org/repo/pull/7",
			"number":   7,
		},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.GetPullRequest().GetNumber() != 7 {
		t.Errorf("number = %d", ev.GetPullRequest().GetNumber())
	}

	if _, err := PullRequestEventFromMap(nil); err == nil {
		t.Error("Expected error for empty payload")
	}
}

func TestLoadPullRequestEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(reviewRequestedPayload), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ev, err := LoadPullRequestEvent(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ev.GetRequestedReviewer().GetLogin() != "bob" {
		t.Errorf("reviewer = %q", ev.GetRequestedReviewer().GetLogin())
	}

	if _, err := LoadPullRequestEvent(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
