package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"alphamastery/internal/content"
	"alphamastery/internal/logging"
	"alphamastery/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if trimmed := strings.TrimSpace(bind); trimmed != "" {
				cfg.Paths.APIBind = trimmed
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := content.Open(cfg)
			if err != nil {
				return fmt.Errorf("open content store: %w", err)
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps := server.NewDependencies(cfg, store, logger, version)
			srv, err := server.New(cfg, deps, logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			defer srv.Stop()

			if !deps.VisionEnabled {
				logging.WarnWithContext(logger, "vision api key not configured", "vision_disabled",
					logging.String(logging.FieldErrorHint, "set vision.api_key or GCV_API_KEY"),
					logging.String(logging.FieldImpact, "/alphabet_mastery answers 503"),
				)
			}
			if !deps.LLMEnabled {
				logging.WarnWithContext(logger, "llm api key not configured", "llm_disabled",
					logging.String(logging.FieldErrorHint, "set llm.api_key or OPENROUTER_API_KEY"),
					logging.String(logging.FieldImpact, "/parent_chat answers 503"),
				)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr())
			<-runCtx.Done()
			logger.Info("alphamastery shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind (host:port)")
	return cmd
}
