// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/core/output"
	"github.com/similigh/prlink/internal/core/pipeline"
	"github.com/similigh/prlink/internal/logger"
)

var dryRun bool

// runCmd is the GitHub Action entrypoint.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the flow selected by the method input",
	Long: `Run reads the action inputs (INPUT_* variables) and the workflow event, then
runs create-task-pr-open (default), assign-task-pr-review or close-task-pr-merge.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeFlow(cmd.Context(), "", nil)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "resolve everything but do not create or assign tasks")
}

// executeFlow runs one invocation. method, when set, overrides the method
// input; overrides replace action inputs by name.
func executeFlow(ctx context.Context, method string, overrides map[string]string) error {
	action := newAction()

	cfg, cfgPath, cfgErr := loadConfig()
	if cfg == nil {
		return cfgErr
	}

	log, runID := logger.WithRunID(newLogger(cfg))
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Str("path", cfgPath).Msg("Failed to load config, proceeding with defaults and inputs")
	} else if cfgPath != "" {
		log.Debug().Str("path", cfgPath).Msg("Loaded config")
	}

	in := config.ReadInputs(inputGetter(action, overrides))
	if method != "" {
		in.Method = method
	}
	config.ApplyInputs(cfg, &in)
	in.Method = pipeline.ResolveMethod(in.Method)

	fail := func(err error) error {
		msg := pipeline.FailureMessage(in.Method, err)
		log.Error().Err(err).Msg(msg)
		action.Errorf("%s", msg)
		return errReported
	}

	if err := validateInputs(in); err != nil {
		return fail(err)
	}
	if err := config.CheckAssigneeEmail(in); err != nil {
		log.Warn().Err(err).Msg("Assignee lookup will not match; continuing")
	}

	pr, err := pullRequestFromAction(action, in)
	if err != nil {
		return fail(err)
	}

	deps, err := buildDependencies(ctx, cfg, log, dryRun)
	if err != nil {
		return fail(err)
	}

	pCtx, err := runFlow(ctx, newRunner(cfg, deps, log), in, pr)
	if err != nil {
		return fail(err)
	}

	names := output.Publish(action, pCtx.Result)
	log.Info().
		Str("run_id", runID).
		Str("method", in.Method).
		Bool("skipped", pCtx.Result.Skipped).
		Str("reason", pCtx.Result.SkipReason).
		Strs("outputs", names).
		Msg("Flow completed")
	return nil
}
