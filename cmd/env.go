package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/pricing"
	"github.com/scoutline/leadscout/internal/store"
	"github.com/scoutline/leadscout/pkg/places"
)

// Flags shared by every gated command. CLI invocations have no subscription
// backend, so the plan is supplied explicitly and resolved statically.
var (
	flagUserID   string
	flagPlan     string
	flagInternal bool
)

func addUserFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagUserID, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&flagPlan, "plan", "demo", "subscription plan (demo, starter, pro)")
	cmd.Flags().BoolVar(&flagInternal, "internal", false, "bypass plan limits")
	_ = cmd.MarkFlagRequired("user")
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadscout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initResolver() (pricing.PermissionsResolver, error) {
	plan := model.Plan(flagPlan)
	switch plan {
	case model.PlanDemo, model.PlanStarter, model.PlanPro:
	default:
		return nil, eris.Errorf("unknown plan: %s", flagPlan)
	}
	return pricing.StaticResolver{Plan: plan, Internal: flagInternal}, nil
}

func initPlaces() (places.Client, error) {
	if cfg.Places.Key == "" {
		return nil, eris.New("places API key is required (LEADSCOUT_PLACES_KEY)")
	}

	opts := []places.Option{
		places.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Places.TimeoutSecs) * time.Second,
		}),
	}
	if cfg.Places.BaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	return places.NewClient(cfg.Places.Key, opts...), nil
}
