package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/export"
	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/pricing"
)

var (
	exportDatasetID string
	exportFormat    string
	exportOutDir    string
	exportMinRows   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a dataset to CSV or XLSX",
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

		resolver, err := initResolver()
		if err != nil {
			return err
		}

		// Fail fast before touching the dataset when the caller needs a
		// minimum row count the plan cannot deliver unwatermarked.
		if exportMinRows > 0 {
			perms, err := resolver.Resolve(ctx, flagUserID)
			if err != nil {
				return err
			}
			if err := pricing.AssertGate(perms, pricing.GateExportRows, exportMinRows); err != nil {
				return err
			}
		}

		builder := export.NewBuilder(st, resolver, st)

		result, err := builder.Export(ctx, export.Request{
			DatasetID: exportDatasetID,
			UserID:    flagUserID,
			Format:    model.ExportFormat(exportFormat),
		})
		if err != nil {
			return eris.Wrap(err, "export")
		}

		if !result.Success {
			zap.L().Warn("export denied",
				zap.String("reason", result.Reason),
				zap.String("upgrade_hint", result.UpgradeHint),
			)
			return nil
		}

		path := filepath.Join(exportOutDir, result.Filename)
		if err := os.WriteFile(path, result.Bytes, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", path)
		}

		zap.L().Info("export written",
			zap.String("path", path),
			zap.Int("rows_total", result.RowsTotal),
			zap.Int("rows_returned", result.RowsReturned),
			zap.Bool("gated", result.Gated),
		)
		if result.Watermark != "" {
			zap.L().Warn("export truncated", zap.String("watermark", result.Watermark))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDatasetID, "dataset", "", "dataset ID (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format (csv, xlsx)")
	exportCmd.Flags().StringVar(&exportOutDir, "out", ".", "output directory")
	exportCmd.Flags().IntVar(&exportMinRows, "min-rows", 0, "fail before exporting if the plan caps exports below this many rows")
	addUserFlags(exportCmd)
	_ = exportCmd.MarkFlagRequired("dataset")
	rootCmd.AddCommand(exportCmd)
}
