package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lville-gis/internal/web"
)

// createServeCmd starts the HTTP API
func createServeCmd() *cobra.Command {
	var (
		configFile string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve compose/decompose over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := loadLexicon()
			if err != nil {
				return err
			}

			cfg := web.ConfigFromEnv()
			if configFile != "" {
				if cfg, err = web.LoadConfig(configFile); err != nil {
					return fmt.Errorf("failed to load server config: %w", err)
				}
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			server, err := web.NewServer(cfg, lex, logger)
			if err != nil {
				return err
			}

			logger.Info("features",
				zap.Bool("batch", cfg.Features.BatchEnabled),
				zap.Bool("cors", cfg.Features.CORSEnabled),
				zap.Bool("auth", cfg.Auth.Enabled))

			return server.Start()
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON server config (overrides WEB_* variables)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Listen host (env WEB_HOST)")
	cmd.Flags().IntVar(&port, "port", 8080, "Listen port (env WEB_PORT)")

	return cmd
}
