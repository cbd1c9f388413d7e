// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package commands

import (
	"github.com/spf13/cobra"
)

var inputUsage = map[string]string{
	"token":          "Asana personal access token",
	"project-id":     "Asana project id",
	"assignee-email": "email of the Asana user to assign",
	"task-id":        "Asana task id (skips the task search)",
	"reviewer-login": "GitHub login of the requested reviewer",
	"optional-tag":   "Asana tag id added to new tasks",
	"pr-url":         "pull request URL",
	"pr-description": "pull request description",
	"pr-author":      "pull request author shown in the task",
	"github-user":    "GitHub login of the pull request author",
	"branch-name":    "source branch name",
	"title":          "pull request title",
}

// inputFlags exposes action inputs as command flags.
type inputFlags map[string]*string

func addInputFlags(cmd *cobra.Command, names ...string) inputFlags {
	flags := make(inputFlags, len(names))
	for _, name := range names {
		flags[name] = cmd.Flags().String(name, "", inputUsage[name])
	}
	return flags
}

func (f inputFlags) values() map[string]string {
	values := make(map[string]string, len(f))
	for name, v := range f {
		if v != nil && *v != "" {
			values[name] = *v
		}
	}
	return values
}
