package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/discovery"
	"github.com/scoutline/leadscout/internal/geogrid"
)

var (
	discoverCity      string
	discoverIndustry  string
	discoverLat       float64
	discoverLng       float64
	discoverRadiusKM  float64
	discoverStepKM    float64
	discoverDatasetID string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover businesses for an industry across a city grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		client, err := initPlaces()
		if err != nil {
			return err
		}
		resolver, err := initResolver()
		if err != nil {
			return err
		}

		svc := discovery.NewService(st, client, resolver, st, cfg.Discovery)

		result, err := svc.Run(ctx, discovery.Request{
			Industry:  discoverIndustry,
			City:      discoverCity,
			Center:    geogrid.Point{Lat: discoverLat, Lng: discoverLng},
			RadiusKM:  discoverRadiusKM,
			StepKM:    discoverStepKM,
			DatasetID: discoverDatasetID,
			UserID:    flagUserID,
		})
		if err != nil {
			return eris.Wrap(err, "discovery run")
		}

		zap.L().Info("discovery finished",
			zap.String("dataset", result.DatasetID),
			zap.Int("created", result.Created),
			zap.Int("duplicates", result.Duplicates),
			zap.Int("points", result.PointsSearched),
			zap.Bool("gated", result.Gated),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverCity, "city", "", "city name (required)")
	discoverCmd.Flags().StringVar(&discoverIndustry, "industry", "", "industry search term (required)")
	discoverCmd.Flags().Float64Var(&discoverLat, "lat", 0, "city center latitude (required)")
	discoverCmd.Flags().Float64Var(&discoverLng, "lng", 0, "city center longitude (required)")
	discoverCmd.Flags().Float64Var(&discoverRadiusKM, "radius", 0, "search radius in km (default from config)")
	discoverCmd.Flags().Float64Var(&discoverStepKM, "step", 0, "grid step in km (default from config)")
	discoverCmd.Flags().StringVar(&discoverDatasetID, "dataset", "", "append to an existing dataset")
	addUserFlags(discoverCmd)
	_ = discoverCmd.MarkFlagRequired("city")
	_ = discoverCmd.MarkFlagRequired("industry")
	_ = discoverCmd.MarkFlagRequired("lat")
	_ = discoverCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(discoverCmd)
}
