// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-14

package taskmatch

import (
	"strings"

	"github.com/similigh/prlink/internal/integrations/asana"
)

// PRRef identifies a pull request by URL, lower-cased repository name and
// number as it appears in the URL.
type PRRef struct {
	URL    string
	Repo   string
	Number string
}

// ParsePRURL takes the trailing path segment as the PR number and the third
// from last as the repository. URLs with fewer than three segments or an
// empty repository segment are rejected.
func ParsePRURL(prURL string) (PRRef, bool) {
	parts := strings.Split(prURL, "/")
	if len(parts) < 3 || parts[len(parts)-3] == "" {
		return PRRef{}, false
	}
	return PRRef{
		URL:    prURL,
		Repo:   strings.ToLower(parts[len(parts)-3]),
		Number: parts[len(parts)-1],
	}, true
}

// Strategy is one match rule. Strategies are evaluated in slice order, each
// over a whole page, before the next one is tried.
type Strategy struct {
	Name  string
	Match func(ref PRRef, task *asana.Task) bool
}

// Exact matches tasks whose notes contain the PR URL.
var Exact = Strategy{
	Name: "exact",
	Match: func(ref PRRef, task *asana.Task) bool {
		return task.Notes != "" && strings.Contains(task.Notes, ref.URL)
	},
}

// RepoNumber matches tasks mentioning both the repository (case-insensitive)
// and the PR number in name or notes.
var RepoNumber = Strategy{
	Name: "repo_number",
	Match: func(ref PRRef, task *asana.Task) bool {
		hasRepo := containsFold(task.Name, ref.Repo) || containsFold(task.Notes, ref.Repo)
		return hasRepo && mentionsNumber(ref, task)
	},
}

// NumberOnly matches tasks mentioning the PR number anywhere. Numeric
// substrings collide ("12" inside "120"); the false positive is accepted.
var NumberOnly = Strategy{
	Name: "number_only",
	Match: func(ref PRRef, task *asana.Task) bool {
		return mentionsNumber(ref, task)
	},
}

// PrimaryStrategies is the precedence order used while paginating.
var PrimaryStrategies = []Strategy{Exact, RepoNumber, NumberOnly}

// FallbackStrategies is used against the recent-tasks fallback.
var FallbackStrategies = []Strategy{Exact}

func mentionsNumber(ref PRRef, task *asana.Task) bool {
	if ref.Number == "" {
		return false
	}
	return strings.Contains(task.Name, ref.Number) || strings.Contains(task.Notes, ref.Number)
}

func containsFold(text, sub string) bool {
	if text == "" || sub == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), sub)
}

// firstMatch applies strategies in order over tasks and returns the first hit.
func firstMatch(ref PRRef, tasks []asana.Task, strategies []Strategy) (*asana.Task, string, bool) {
	for _, s := range strategies {
		for i := range tasks {
			if s.Match(ref, &tasks[i]) {
				return &tasks[i], s.Name, true
			}
		}
	}
	return nil, "", false
}
