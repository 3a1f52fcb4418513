package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/recommend"
	"github.com/sells-group/agrigrant-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Catalog endpoints work without a provider key; only
		// POST /api/recommend needs one.
		var rec server.Recommender
		if svc, err := recommend.NewServiceFromConfig(ctx, cat, cfg); err != nil {
			zap.L().Warn("serve: recommendations disabled", zap.Error(err))
		} else {
			rec = svc
		}

		srv := server.New(cat, rec, server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RecommendRPS:   cfg.Server.RecommendRPS,
			RecommendBurst: cfg.Server.RecommendBurst,
		})
		return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
