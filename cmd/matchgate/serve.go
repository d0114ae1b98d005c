package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lyfe05/matchgate/pkg/audit"
	"github.com/lyfe05/matchgate/pkg/cache"
	"github.com/lyfe05/matchgate/pkg/config"
	"github.com/lyfe05/matchgate/pkg/server"
	"github.com/lyfe05/matchgate/pkg/upstream"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the match gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			cfg.ApplyEnv()

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			var auditor *audit.Logger
			if cfg.Audit.DBPath != "" {
				auditor, err = audit.New(cfg.Audit, logger)
				if err != nil {
					return fmt.Errorf("init audit log: %w", err)
				}
				defer func() { _ = auditor.Close() }()
			}

			c := cache.New(upstream.New(cfg.Source, logger), logger)
			srv := server.New(cfg, c, auditor, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting matchgate",
				zap.String("source", cfg.Source),
				zap.Int("api_keys", len(cfg.APIKeys)),
				zap.Duration("cache_duration", cache.MaxAge),
				zap.Bool("audit", auditor != nil))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}
