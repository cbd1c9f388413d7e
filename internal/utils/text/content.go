// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-13
// Last Modified: 2026-10-18

package text

import (
	"fmt"
	"regexp"
	"strings"
)

// ProvenanceFooter closes every generated task description.
const ProvenanceFooter = "This task was created via GitHub Actions"

var pullNumberPattern = regexp.MustCompile(`/pull/(\d+)$`)

// PullNumber returns the digits of a trailing "/pull/<n>" in prURL.
func PullNumber(prURL string) (string, bool) {
	m := pullNumberPattern.FindStringSubmatch(prURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TaskLabel picks the label shown in a review task title: the branch name,
// else "PR-<n>" from the pull request URL, else the pull request title.
func TaskLabel(branch, prURL, title string) string {
	if branch != "" {
		return branch
	}
	if n, ok := PullNumber(prURL); ok {
		return "PR-" + n
	}
	return title
}

// BuildTaskTitle returns the review task title.
func BuildTaskTitle(branch, prURL, title string) string {
	return fmt.Sprintf("Code Review: [%s]", TaskLabel(branch, prURL, title))
}

// BuildTaskNotes constructs the review task description. The author section
// is omitted when authorName is empty; the URL line when prURL is blank.
func BuildTaskNotes(taskTitle, authorName, description, prURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\\*Task Name:\\*\n %s\n\n", taskTitle)

	if authorName != "" {
		fmt.Fprintf(&sb, "\\*Branch Author:\\*\n %s\n\n", authorName)
	}

	sb.WriteString("\\*Changes:\\*\n\n")
	if d := strings.TrimSpace(description); d != "" {
		sb.WriteString(d)
	}

	if strings.TrimSpace(prURL) != "" {
		fmt.Fprintf(&sb, "\n\n\\*PR URL\\*: %s", prURL)
	}

	sb.WriteString("\n\n" + ProvenanceFooter)
	return sb.String()
}
