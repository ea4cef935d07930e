// Package store persists the discovery pipeline's entities. Two backends
// implement the same interface: Postgres via pgxpool for deployments, and
// SQLite via modernc.org/sqlite for single-binary CLI use.
package store

import (
	"context"
	"time"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/model"
)

// Store defines the persistence interface for the pipeline. It satisfies the
// narrow per-package interfaces declared by discovery, crawl, export and
// pricing.
type Store interface {
	// Datasets
	GetDataset(ctx context.Context, id string) (*model.Dataset, error)
	FindDataset(ctx context.Context, userID, city, industry string) (*model.Dataset, error)
	CreateDataset(ctx context.Context, dataset *model.Dataset) error
	TouchDatasetRefreshed(ctx context.Context, id string, at time.Time) error
	ListDatasets(ctx context.Context, userID string) ([]model.Dataset, error)
	DatasetCities(ctx context.Context, datasetID string) ([]string, error)

	// Businesses and websites
	CreateBusiness(ctx context.Context, business *model.Business, website *model.Website) (bool, error)
	GetBusiness(ctx context.Context, id string) (*model.Business, error)
	ListBusinesses(ctx context.Context, datasetID string) ([]model.Business, error)
	ListWebsites(ctx context.Context, datasetID string) ([]model.Website, error)
	TouchWebsite(ctx context.Context, businessID string, at time.Time) error

	// Contacts
	ListContacts(ctx context.Context, businessID string) ([]model.Contact, error)
	ApplyContactDiff(ctx context.Context, diff *changes.Diff) error

	// Crawl results
	UpsertCrawlResult(ctx context.Context, result *model.CrawlResult) error
	GetCrawlResult(ctx context.Context, businessID, datasetID string) (*model.CrawlResult, error)
	ListCrawlResults(ctx context.Context, datasetID string) (map[string]*model.CrawlResult, error)

	// Usage counters
	Usage(ctx context.Context, userID, month string) (model.UsageCounters, error)
	IncrementUsage(ctx context.Context, userID, month string, action model.Action) error

	// Export audit
	InsertExportAudit(ctx context.Context, audit *model.ExportAudit) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
