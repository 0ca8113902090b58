package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/dataset"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/observability"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/server"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive boundary-analysis web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(cfg.Server, st, observability.NewMetrics(),
			func(ctx context.Context) (*server.Snapshot, error) {
				ds, err := dataset.Load(ctx, cfg.Data)
				if err != nil {
					return nil, err
				}
				return server.NewSnapshot(ds), nil
			})

		// Load eagerly so the first request is fast; on failure the first
		// request retries the load.
		if ds, err := dataset.Load(ctx, cfg.Data); err != nil {
			zap.L().Error("initial dataset load failed", zap.Error(err))
		} else {
			srv.SetSnapshot(server.NewSnapshot(ds))
		}

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
