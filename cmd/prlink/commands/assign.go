// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package commands

import (
	"github.com/spf13/cobra"

	"github.com/similigh/prlink/internal/core/pipeline"
)

var assignFlags inputFlags

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a pull request's review task to a reviewer",
	Long: `Assign the Asana task tracking a pull request. Without --task-id the task is
searched in the project; without --assignee-email the reviewer's email is
looked up on GitHub.`,
	Example: `  prlink assign --project-id 1200 --reviewer-login octocat --pr-url https://github.com/acme/api/pull/17`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeFlow(cmd.Context(), pipeline.MethodAssign, assignFlags.values())
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
	assignFlags = addInputFlags(assignCmd,
		"token", "project-id", "assignee-email", "task-id", "reviewer-login",
		"pr-url", "branch-name",
	)
}
