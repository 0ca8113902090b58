package main

import (
	"github.com/spf13/cobra"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/export"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent boundary queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		queries, err := st.ListBoundaryQueries(ctx, store.QueryFilter{Limit: historyLimit})
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			cmd.Println("No boundary queries recorded.")
			return nil
		}

		cmd.Printf("%-36s %-25s %10s %18s\n", "ID", "REQUESTED", "PARCELS", "TOTAL VALUE")
		for _, q := range queries {
			cmd.Printf("%-36s %-25s %10d %18s\n",
				q.ID,
				q.RequestedAt.Format("2006-01-02 15:04:05 MST"),
				q.ParcelCount,
				export.FormatUSDPrecise(q.TotalValue),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum queries to list")
	rootCmd.AddCommand(historyCmd)
}
