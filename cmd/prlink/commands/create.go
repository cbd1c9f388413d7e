// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package commands

import (
	"github.com/spf13/cobra"

	"github.com/similigh/prlink/internal/core/pipeline"
)

var createFlags inputFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a review task for a pull request",
	Long: `Create an Asana review task for a pull request. Flags override action inputs;
the pull request comes from the workflow event or --pr-url and friends.`,
	Example: `  prlink create --project-id 1200 --pr-url https://github.com/acme/api/pull/17 --branch-name feat/login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeFlow(cmd.Context(), pipeline.MethodCreate, createFlags.values())
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createFlags = addInputFlags(createCmd,
		"token", "project-id", "assignee-email", "optional-tag",
		"pr-url", "pr-description", "pr-author", "github-user", "branch-name", "title",
	)
}
