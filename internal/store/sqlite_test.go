package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/extract"
	"github.com/scoutline/leadscout/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedDataset(t *testing.T, s *SQLiteStore, id, userID string) *model.Dataset {
	t.Helper()
	ds := &model.Dataset{
		ID: id, UserID: userID, City: "Springfield", Industry: "plumbing",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateDataset(context.Background(), ds))
	return ds
}

func seedBusiness(t *testing.T, s *SQLiteStore, id, datasetID string, website *model.Website) *model.Business {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	b := &model.Business{
		ID: id, Name: "Ace Plumbing LLC", NormalizedName: "ACE PLUMBING",
		Address: "12 Main St", City: "Springfield", Industry: "plumbing",
		PlaceID: "place-" + id, DatasetID: datasetID, UserID: "user-1",
		Latitude: 39.78, Longitude: -89.65, CreatedAt: now, UpdatedAt: now,
	}
	created, err := s.CreateBusiness(context.Background(), b, website)
	require.NoError(t, err)
	require.True(t, created)
	return b
}

func TestSQLiteDatasetRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")

	ds, err := s.GetDataset(ctx, "ds-1")
	require.NoError(t, err)
	assert.Equal(t, "Springfield", ds.City)
	assert.Nil(t, ds.LastRefreshedAt)

	found, err := s.FindDataset(ctx, "user-1", "Springfield", "plumbing")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ds-1", found.ID)

	missing, err := s.FindDataset(ctx, "user-1", "Springfield", "roofing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	refreshed := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.TouchDatasetRefreshed(ctx, "ds-1", refreshed))
	ds, err = s.GetDataset(ctx, "ds-1")
	require.NoError(t, err)
	require.NotNil(t, ds.LastRefreshedAt)
	assert.True(t, ds.LastRefreshedAt.Equal(refreshed))

	list, err := s.ListDatasets(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLiteTouchDatasetMissing(t *testing.T) {
	s := newTestSQLite(t)
	err := s.TouchDatasetRefreshed(context.Background(), "ds-404", time.Now().UTC())
	assert.Error(t, err)
}

func TestSQLiteCreateBusinessIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")
	b := seedBusiness(t, s, "biz-1", "ds-1",
		&model.Website{ID: "web-1", BusinessID: "biz-1", URL: "https://aceplumbing.example"})

	// Same place id again under a new business id is a duplicate.
	dup := *b
	dup.ID = "biz-2"
	dup.PlaceID = "place-biz-1"
	created, err := s.CreateBusiness(ctx, &dup, nil)
	require.NoError(t, err)
	assert.False(t, created)

	list, err := s.ListBusinesses(ctx, "ds-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ACE PLUMBING", list[0].NormalizedName)

	sites, err := s.ListWebsites(ctx, "ds-1")
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "https://aceplumbing.example", sites[0].URL)
	assert.Nil(t, sites[0].LastCrawledAt)

	crawledAt := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.TouchWebsite(ctx, "biz-1", crawledAt))
	sites, err = s.ListWebsites(ctx, "ds-1")
	require.NoError(t, err)
	require.NotNil(t, sites[0].LastCrawledAt)
	assert.True(t, sites[0].LastCrawledAt.Equal(crawledAt))
}

func TestSQLiteDatasetCities(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")
	seedBusiness(t, s, "biz-1", "ds-1", nil)

	cities, err := s.DatasetCities(ctx, "ds-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Springfield"}, cities)
}

func TestSQLiteApplyContactDiff(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")
	seedBusiness(t, s, "biz-1", "ds-1", nil)

	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	added := model.Contact{
		ID: "ct-1", BusinessID: "biz-1", Type: model.ContactTypeEmail,
		Value: "info@aceplumbing.example", IsGeneric: true, IsActive: true,
		FirstSeenAt: now, LastVerifiedAt: now,
	}
	require.NoError(t, s.ApplyContactDiff(ctx, &changes.Diff{
		Added: []model.Contact{added},
		Sources: []model.ContactSource{{
			ID: "src-1", ContactID: "ct-1",
			SourceURL: "https://aceplumbing.example/contact",
			PageType:  model.PageTypeContact, ContentHash: "abc123", ObservedAt: now,
		}},
	}))

	contacts, err := s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "info@aceplumbing.example", contacts[0].Value)
	assert.True(t, contacts[0].IsActive)

	// A later crawl that no longer sees the email deactivates it.
	later := now.Add(48 * time.Hour)
	gone := added
	gone.IsActive = false
	require.NoError(t, s.ApplyContactDiff(ctx, &changes.Diff{
		Deactivated: []model.Contact{gone},
	}))
	contacts, err = s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	assert.False(t, contacts[0].IsActive)

	// Re-verification reactivates and bumps the timestamp.
	back := added
	back.LastVerifiedAt = later
	require.NoError(t, s.ApplyContactDiff(ctx, &changes.Diff{
		Verified: []model.Contact{back},
	}))
	contacts, err = s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	assert.True(t, contacts[0].IsActive)
	assert.True(t, contacts[0].LastVerifiedAt.Equal(later))
}

func TestSQLiteContactReactivationAcrossCrawls(t *testing.T) {
	// Crawl 1 finds an email, crawl 2 loses it, crawl 3 finds it again. The
	// third diff must land on the original row, not orphan its sources.
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")
	seedBusiness(t, s, "biz-1", "ds-1", nil)

	email := extract.Candidate{
		Type: model.ContactTypeEmail, Value: "info@aceplumbing.example",
		SourceURL: "https://aceplumbing.example/contact",
		PageType:  model.PageTypeContact, ContentHash: "h1",
	}
	t1 := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	stored, err := s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	diff1 := changes.Detect("biz-1", stored, []extract.Candidate{email}, t1)
	require.NoError(t, s.ApplyContactDiff(ctx, diff1))

	stored, err = s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	firstID := stored[0].ID

	diff2 := changes.Detect("biz-1", stored, nil, t1.Add(24*time.Hour))
	require.NoError(t, s.ApplyContactDiff(ctx, diff2))

	stored, err = s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsActive)

	t3 := t1.Add(48 * time.Hour)
	diff3 := changes.Detect("biz-1", stored, []extract.Candidate{email}, t3)
	require.NoError(t, s.ApplyContactDiff(ctx, diff3))

	stored, err = s.ListContacts(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, firstID, stored[0].ID)
	assert.True(t, stored[0].IsActive)
	assert.True(t, stored[0].LastVerifiedAt.Equal(t3))
}

func TestSQLiteCrawlResultUpsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")
	seedBusiness(t, s, "biz-1", "ds-1", nil)

	started := time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC)
	first := &model.CrawlResult{
		BusinessID: "biz-1", DatasetID: "ds-1",
		WebsiteURL: "https://aceplumbing.example",
		Status:     model.CrawlStatusPartial,
		StartedAt:  started, FinishedAt: started.Add(2 * time.Second),
		PagesVisited: 2,
		Emails:       []string{"info@aceplumbing.example"},
		Gated:        true,
		UpgradeHint:  "upgrade to starter for higher limits",
	}
	require.NoError(t, s.UpsertCrawlResult(ctx, first))

	got, err := s.GetCrawlResult(ctx, "biz-1", "ds-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.CrawlStatusPartial, got.Status)
	assert.True(t, got.Gated)
	assert.Equal(t, []string{"info@aceplumbing.example"}, got.Emails)

	second := *first
	second.Status = model.CrawlStatusCompleted
	second.PagesVisited = 5
	second.Gated = false
	second.UpgradeHint = ""
	second.Phones = []string{"+14155550100"}
	second.Social = model.SocialLinks{Facebook: "https://facebook.com/aceplumbing"}
	require.NoError(t, s.UpsertCrawlResult(ctx, &second))

	got, err = s.GetCrawlResult(ctx, "biz-1", "ds-1")
	require.NoError(t, err)
	assert.Equal(t, model.CrawlStatusCompleted, got.Status)
	assert.Equal(t, 5, got.PagesVisited)
	assert.False(t, got.Gated)
	assert.Equal(t, "https://facebook.com/aceplumbing", got.Social.Facebook)

	byBiz, err := s.ListCrawlResults(ctx, "ds-1")
	require.NoError(t, err)
	require.Contains(t, byBiz, "biz-1")
	assert.Equal(t, 5, byBiz["biz-1"].PagesVisited)

	missing, err := s.GetCrawlResult(ctx, "biz-404", "ds-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteUsageCounters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	u, err := s.Usage(ctx, "user-1", "2026-03")
	require.NoError(t, err)
	assert.Zero(t, u.Exports)
	assert.Zero(t, u.Crawls)
	assert.Zero(t, u.DatasetsCreated)

	require.NoError(t, s.IncrementUsage(ctx, "user-1", "2026-03", model.ActionCrawl))
	require.NoError(t, s.IncrementUsage(ctx, "user-1", "2026-03", model.ActionCrawl))
	require.NoError(t, s.IncrementUsage(ctx, "user-1", "2026-03", model.ActionExport))
	require.NoError(t, s.IncrementUsage(ctx, "user-1", "2026-03", model.ActionDiscover))
	require.NoError(t, s.IncrementUsage(ctx, "user-1", "2026-04", model.ActionCrawl))

	u, err = s.Usage(ctx, "user-1", "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Crawls)
	assert.Equal(t, 1, u.Exports)
	assert.Equal(t, 1, u.DatasetsCreated)

	next, err := s.Usage(ctx, "user-1", "2026-04")
	require.NoError(t, err)
	assert.Equal(t, 1, next.Crawls)
	assert.Zero(t, next.Exports)
}

func TestSQLiteInsertExportAudit(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDataset(t, s, "ds-1", "user-1")

	err := s.InsertExportAudit(ctx, &model.ExportAudit{
		ID: "audit-1", UserID: "user-1", DatasetID: "ds-1",
		Format: model.ExportFormatCSV, RowsTotal: 120, RowsReturned: 50,
		Gated: true, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}
