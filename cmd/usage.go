package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/scoutline/leadscout/internal/model"
)

var usageMonth string

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show monthly usage counters for a user",
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

		month := usageMonth
		if month == "" {
			month = model.UsageMonth(time.Now())
		}

		counters, err := st.Usage(ctx, flagUserID, month)
		if err != nil {
			return eris.Wrap(err, "get usage")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(counters)
	},
}

func init() {
	usageCmd.Flags().StringVar(&usageMonth, "month", "", `calendar month ("2026-08", default current)`)
	addUserFlags(usageCmd)
	rootCmd.AddCommand(usageCmd)
}
