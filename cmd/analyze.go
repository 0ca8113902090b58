package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/aggregate"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/dataset"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/export"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/region"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/spatial"
)

var (
	analyzeParcels   string
	analyzeAddresses string
	analyzeRegions   string
	analyzeOutDir    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the batch region analysis and write reports",
	Long:  "Loads the parcel and address tables, filters parcels within each configured region, prints per-use-code value statistics, and writes the unmatched-parcels CSV, the per-area details CSV, and the all-locations map.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if analyzeParcels != "" {
			cfg.Data.ParcelsPath = analyzeParcels
		}
		if analyzeAddresses != "" {
			cfg.Data.AddressesPath = analyzeAddresses
		}
		if analyzeRegions != "" {
			cfg.Regions.YAMLPath = analyzeRegions
		}
		if analyzeOutDir != "" {
			cfg.Export.OutDir = analyzeOutDir
		}

		ds, err := dataset.Load(ctx, cfg.Data)
		if err != nil {
			return err
		}

		regions, err := region.FromConfig(cfg.Regions)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Export.OutDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", cfg.Export.OutDir)
		}

		unmatchedPath := filepath.Join(cfg.Export.OutDir, cfg.Export.UnmatchedFile)
		if err := export.WriteUnmatched(unmatchedPath, ds.ParcelHeader, ds.Unmatched); err != nil {
			return err
		}
		zap.L().Info("unmatched parcels exported",
			zap.Int("rows", len(ds.Unmatched)),
			zap.String("path", unmatchedPath),
		)

		points := spatial.NewPointSet(ds.Parcels)

		var allDetails []model.ParcelDetail
		subsets := make([][]model.ParcelRecord, len(regions))
		for i, r := range regions {
			matched := points.Filter(r)
			subsets[i] = matched
			printSummary(cmd, aggregate.Summarize(r.Name, matched))
			allDetails = append(allDetails, aggregate.Details(r.Name, matched)...)
		}

		detailsPath := filepath.Join(cfg.Export.OutDir, cfg.Export.DetailsFile)
		if err := export.WriteAreaDetails(detailsPath, allDetails); err != nil {
			return err
		}
		zap.L().Info("area details exported",
			zap.Int("rows", len(allDetails)),
			zap.String("path", detailsPath),
		)

		lat, lng := export.MapCenter(ds.Parcels)
		mapPath := filepath.Join(cfg.Export.OutDir, cfg.Export.MapFile)
		err = export.WriteMapFile(mapPath, lat, lng,
			export.RegionMarkers(regions, subsets),
			export.RegionOverlays(regions),
		)
		if err != nil {
			return err
		}
		zap.L().Info("map exported", zap.String("path", mapPath))

		return nil
	},
}

func printSummary(cmd *cobra.Command, s model.RegionSummary) {
	cmd.Printf("\n--- %s ---\n", s.RegionName)
	cmd.Printf("Parcels: %d\n", s.ParcelCount)
	cmd.Printf("Total assessed value: %s\n", export.FormatUSDPrecise(s.TotalValue))
	if len(s.Groups) == 0 {
		return
	}
	cmd.Printf("%-10s %8s %18s %18s\n", "USECODE", "COUNT", "MEAN", "SUM")
	for _, g := range s.Groups {
		cmd.Printf("%-10s %8d %18s %18s\n",
			g.UseCode, g.Count,
			export.FormatUSDPrecise(g.Mean),
			export.FormatUSDPrecise(g.Sum),
		)
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeParcels, "parcels", "", "parcel attribute table path (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAddresses, "addresses", "", "address points table path (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeRegions, "regions", "", "regions YAML path (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "output directory (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
