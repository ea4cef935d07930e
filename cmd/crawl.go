package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/crawl"
)

var (
	crawlDatasetID  string
	crawlBusinessID string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl business websites in a dataset for contacts",
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

		pool := crawl.NewPool(cfg.Crawl.MaxConcurrent)
		worker := crawl.NewWorker(st, resolver, st, pool, cfg.Crawl)

		websites, err := st.ListWebsites(ctx, crawlDatasetID)
		if err != nil {
			return eris.Wrap(err, "list websites")
		}

		var results []*crawl.Result
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, site := range websites {
			if crawlBusinessID != "" && site.BusinessID != crawlBusinessID {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := worker.Crawl(ctx, crawl.Request{
					BusinessID: site.BusinessID,
					DatasetID:  crawlDatasetID,
					WebsiteURL: site.URL,
					UserID:     flagUserID,
				})
				if err != nil {
					zap.L().Error("crawl failed",
						zap.String("business", site.BusinessID),
						zap.Error(err),
					)
					return
				}
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}()
		}
		wg.Wait()

		var crawled, gated int
		for _, r := range results {
			if r.Success {
				crawled++
			}
			if r.Gated {
				gated++
			}
		}
		zap.L().Info("crawl finished",
			zap.String("dataset", crawlDatasetID),
			zap.Int("websites", len(websites)),
			zap.Int("crawled", crawled),
			zap.Int("gated", gated),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlDatasetID, "dataset", "", "dataset ID (required)")
	crawlCmd.Flags().StringVar(&crawlBusinessID, "business", "", "crawl a single business")
	addUserFlags(crawlCmd)
	_ = crawlCmd.MarkFlagRequired("dataset")
	rootCmd.AddCommand(crawlCmd)
}
