// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

// Package output publishes flow results as GitHub Action outputs.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/similigh/prlink/internal/core/pipeline"
)

// Sink receives outputs. *githubactions.Action satisfies it.
type Sink interface {
	SetOutput(name, value string)
	AddStepSummary(markdown string)
}

// Publish writes the result's outputs in a stable order and a short step
// summary. It returns the names written.
func Publish(sink Sink, r *pipeline.Result) []string {
	outputs := r.Outputs()
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sink.SetOutput(name, outputs[name])
	}

	sink.AddStepSummary(Summary(r))
	return names
}

// Summary renders a markdown summary of a flow result.
func Summary(r *pipeline.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### prlink: %s\n\n", r.Method)

	switch {
	case r.Skipped:
		fmt.Fprintf(&sb, "Skipped: %s\n", r.SkipReason)
	case r.Assigned:
		fmt.Fprintf(&sb, "Assigned task `%s` to **%s**", r.TaskID, r.AssigneeName)
		if r.MatchedBy != "" {
			fmt.Fprintf(&sb, " (matched by %s)", r.MatchedBy)
		}
		sb.WriteString("\n")
	case r.TaskURL != "":
		fmt.Fprintf(&sb, "Created task [%s](%s)\n", r.TaskID, r.TaskURL)
	default:
		sb.WriteString("No changes\n")
	}
	return sb.String()
}
