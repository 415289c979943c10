package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codemate/internal/config"
	"codemate/internal/di"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and background scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			application, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}
