package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dcparcel",
	Short: "DC property parcel value analysis",
	Long:  "Joins tax-parcel attributes with address coordinates, filters parcels by region, aggregates assessed value, and serves an interactive boundary-analysis map.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
