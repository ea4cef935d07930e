// Package export maps businesses and their crawl results into a canonical
// row schema and renders CSV or XLSX output, truncated and watermarked when
// the plan's row limit gates the result.
package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/pricing"
)

// RowSchemaVersion identifies the column layout. Columns never change within
// a version.
const RowSchemaVersion = 1

// columns is the ordered v1 row schema.
var columns = []string{
	"Business ID",
	"Name",
	"Address",
	"City",
	"Industry",
	"Website",
	"Crawl Status",
	"Pages Visited",
	"Emails",
	"Phones",
	"Facebook",
	"Instagram",
	"LinkedIn",
	"Twitter",
	"YouTube",
	"Contact Pages",
	"Crawled At",
}

// Store is the persistence surface the builder needs. ListBusinesses must
// return rows in creation order so gated truncation is deterministic.
type Store interface {
	GetDataset(ctx context.Context, id string) (*model.Dataset, error)
	ListBusinesses(ctx context.Context, datasetID string) ([]model.Business, error)
	ListCrawlResults(ctx context.Context, datasetID string) (map[string]*model.CrawlResult, error)
	InsertExportAudit(ctx context.Context, audit *model.ExportAudit) error
}

// Request identifies one export invocation.
type Request struct {
	DatasetID string             `json:"dataset_id"`
	UserID    string             `json:"user_id"`
	Format    model.ExportFormat `json:"format"`
}

// Result is the structured outcome. Bytes holds the rendered document.
type Result struct {
	Success      bool   `json:"success"`
	RowsTotal    int    `json:"rows_total"`
	RowsReturned int    `json:"rows_returned"`
	Gated        bool   `json:"gated"`
	Watermark    string `json:"watermark,omitempty"`
	Reason       string `json:"reason,omitempty"`
	UpgradeHint  string `json:"upgrade_hint,omitempty"`
	Filename     string `json:"filename"`
	Bytes        []byte `json:"-"`
}

// Builder renders dataset exports.
type Builder struct {
	store Store
	perms pricing.PermissionsResolver
	usage pricing.UsageStore
	now   func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(store Store, perms pricing.PermissionsResolver, usage pricing.UsageStore) *Builder {
	return &Builder{store: store, perms: perms, usage: usage, now: time.Now}
}

// Export renders one dataset. Row-limit gating truncates to the first N rows
// by creation order and embeds a watermark; it never fails the export.
func (b *Builder) Export(ctx context.Context, req Request) (*Result, error) {
	if _, err := uuid.Parse(req.DatasetID); err != nil {
		return nil, eris.Wrapf(err, "export: invalid dataset id %q", req.DatasetID)
	}
	switch req.Format {
	case model.ExportFormatCSV, model.ExportFormatXLSX:
	default:
		return nil, eris.Errorf("export: unsupported format %q", req.Format)
	}

	dataset, err := b.store.GetDataset(ctx, req.DatasetID)
	if err != nil {
		return nil, eris.Wrap(err, "export: load dataset")
	}
	if dataset.UserID != req.UserID {
		return nil, eris.Errorf("export: dataset %s is not owned by user %s", req.DatasetID, req.UserID)
	}

	perms, err := b.perms.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, eris.Wrap(err, "export: resolve permissions")
	}

	now := b.now().UTC()
	month := model.UsageMonth(now)
	counters, err := b.usage.Usage(ctx, req.UserID, month)
	if err != nil {
		return nil, eris.Wrap(err, "export: load usage")
	}
	if d := pricing.CheckUsage(perms, model.ActionExport, counters.Exports); !d.Allowed {
		return &Result{
			Gated:       true,
			Reason:      d.Reason,
			UpgradeHint: d.UpgradeHint,
		}, nil
	}

	businesses, err := b.store.ListBusinesses(ctx, req.DatasetID)
	if err != nil {
		return nil, eris.Wrap(err, "export: list businesses")
	}
	crawls, err := b.store.ListCrawlResults(ctx, req.DatasetID)
	if err != nil {
		return nil, eris.Wrap(err, "export: list crawl results")
	}

	result := &Result{
		RowsTotal:    len(businesses),
		RowsReturned: len(businesses),
	}

	if d := pricing.CheckGate(perms, pricing.GateExportRows, len(businesses)); !d.Allowed {
		result.RowsReturned = d.Limit
		result.Gated = true
		result.UpgradeHint = d.UpgradeHint
		result.Watermark = fmt.Sprintf(
			"Export truncated to %d of %d rows by the %s plan. %s",
			d.Limit, len(businesses), perms.Plan, d.UpgradeHint)
		businesses = businesses[:d.Limit]
	}

	rows := make([][]string, 0, len(businesses))
	for i := range businesses {
		rows = append(rows, buildRow(&businesses[i], crawls[businesses[i].ID]))
	}

	switch req.Format {
	case model.ExportFormatCSV:
		result.Bytes, err = renderCSV(rows, result.Watermark)
	case model.ExportFormatXLSX:
		result.Bytes, err = renderXLSX(rows, result.Watermark)
	}
	if err != nil {
		return nil, eris.Wrap(err, "export: render")
	}
	result.Filename = fmt.Sprintf("%s-%s-%s.%s",
		sanitizeName(dataset.City), sanitizeName(dataset.Industry),
		now.Format("2006-01-02"), req.Format)

	if err := b.usage.IncrementUsage(ctx, req.UserID, month, model.ActionExport); err != nil {
		return nil, eris.Wrap(err, "export: increment usage")
	}
	if err := b.store.InsertExportAudit(ctx, &model.ExportAudit{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		DatasetID:    req.DatasetID,
		Format:       req.Format,
		RowsTotal:    result.RowsTotal,
		RowsReturned: result.RowsReturned,
		Gated:        result.Gated,
		CreatedAt:    now,
	}); err != nil {
		return nil, eris.Wrap(err, "export: insert audit")
	}

	result.Success = true
	zap.L().Info("export finished",
		zap.String("dataset_id", req.DatasetID),
		zap.String("format", string(req.Format)),
		zap.Int("rows_total", result.RowsTotal),
		zap.Int("rows_returned", result.RowsReturned),
		zap.Bool("gated", result.Gated),
	)

	return result, nil
}

// buildRow maps one business into the v1 schema. A business with no crawl
// result still produces a full row with empty crawl columns.
func buildRow(b *model.Business, cr *model.CrawlResult) []string {
	row := []string{
		b.ID,
		b.Name,
		b.Address,
		b.City,
		b.Industry,
		"", // Website
		"", // Crawl Status
		"", // Pages Visited
		"", // Emails
		"", // Phones
		"", "", "", "", "", // socials
		"", // Contact Pages
		"", // Crawled At
	}
	if cr == nil {
		return row
	}

	row[5] = cr.WebsiteURL
	row[6] = string(cr.Status)
	row[7] = strconv.Itoa(cr.PagesVisited)
	row[8] = strings.Join(cr.Emails, "; ")
	row[9] = strings.Join(cr.Phones, "; ")
	row[10] = cr.Social.Facebook
	row[11] = cr.Social.Instagram
	row[12] = cr.Social.LinkedIn
	row[13] = cr.Social.Twitter
	row[14] = cr.Social.YouTube
	row[15] = strings.Join(cr.ContactPages, "; ")
	if !cr.FinishedAt.IsZero() {
		row[16] = cr.FinishedAt.UTC().Format(time.RFC3339)
	}
	return row
}

func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	if s == "" {
		return "dataset"
	}
	return s
}
