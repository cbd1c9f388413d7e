// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve GitHub pull_request webhooks",
	Long: `Serve runs the create flow for opened pull requests and the assign flow for
review requests delivered as GitHub webhooks. Deliveries are verified with
server.webhook_secret.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, cfgErr := loadConfig()
		if cfg == nil {
			return cfgErr
		}
		log := newLogger(cfg)
		if cfgErr != nil {
			log.Warn().Err(cfgErr).Str("path", cfgPath).Msg("Failed to load config, proceeding with defaults and inputs")
		}

		in := config.ReadInputs(inputGetter(newAction(), nil))
		config.ApplyInputs(cfg, &in)
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		if err := config.ValidateServe(cfg); err != nil {
			return err
		}
		if err := config.ValidateCreate(in); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps, err := buildDependencies(ctx, cfg, log, dryRun)
		if err != nil {
			return err
		}

		srv := server.New(cfg.Server.Addr, cfg.Server.WebhookSecret, newRunner(cfg, deps, log), in, log)
		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}
