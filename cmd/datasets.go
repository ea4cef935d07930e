package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets for a user",
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

		datasets, err := st.ListDatasets(ctx, flagUserID)
		if err != nil {
			return eris.Wrap(err, "list datasets")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCITY\tINDUSTRY\tCREATED\tREFRESHED")
		for _, ds := range datasets {
			refreshed := "-"
			if ds.LastRefreshedAt != nil {
				refreshed = ds.LastRefreshedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				ds.ID, ds.City, ds.Industry,
				ds.CreatedAt.Format("2006-01-02 15:04"), refreshed)
		}
		return w.Flush()
	},
}

func init() {
	addUserFlags(datasetsCmd)
	rootCmd.AddCommand(datasetsCmd)
}
