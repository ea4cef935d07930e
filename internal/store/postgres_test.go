package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresGetDataset(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets WHERE id`).
		WithArgs("ds-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "user_id", "city", "industry", "last_refreshed_at", "created_at"}).
			AddRow("ds-1", "user-1", "Springfield", "plumbing", &created, created))

	ds, err := s.GetDataset(context.Background(), "ds-1")
	require.NoError(t, err)
	assert.Equal(t, "Springfield", ds.City)
	assert.Equal(t, "plumbing", ds.Industry)
	require.NotNil(t, ds.LastRefreshedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindDatasetNoRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets`).
		WithArgs("user-1", "Springfield", "plumbing").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "user_id", "city", "industry", "last_refreshed_at", "created_at"}))

	ds, err := s.FindDataset(context.Background(), "user-1", "Springfield", "plumbing")
	require.NoError(t, err)
	assert.Nil(t, ds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateBusinessDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO businesses`).
		WithArgs("biz-1", "Ace Plumbing LLC", "ACE PLUMBING", "12 Main St", "Springfield",
			"plumbing", "place-1", "ds-1", "user-1", 39.78, -89.65,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectRollback()

	created, err := s.CreateBusiness(context.Background(), &model.Business{
		ID: "biz-1", Name: "Ace Plumbing LLC", NormalizedName: "ACE PLUMBING",
		Address: "12 Main St", City: "Springfield", Industry: "plumbing",
		PlaceID: "place-1", DatasetID: "ds-1", UserID: "user-1",
		Latitude: 39.78, Longitude: -89.65, CreatedAt: now, UpdatedAt: now,
	}, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateBusinessWithWebsite(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO businesses`).
		WithArgs("biz-1", "Ace Plumbing LLC", "ACE PLUMBING", "12 Main St", "Springfield",
			"plumbing", "place-1", "ds-1", "user-1", 39.78, -89.65,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO websites`).
		WithArgs("web-1", "biz-1", "https://aceplumbing.example", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	created, err := s.CreateBusiness(context.Background(), &model.Business{
		ID: "biz-1", Name: "Ace Plumbing LLC", NormalizedName: "ACE PLUMBING",
		Address: "12 Main St", City: "Springfield", Industry: "plumbing",
		PlaceID: "place-1", DatasetID: "ds-1", UserID: "user-1",
		Latitude: 39.78, Longitude: -89.65, CreatedAt: now, UpdatedAt: now,
	}, &model.Website{ID: "web-1", BusinessID: "biz-1", URL: "https://aceplumbing.example"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertCrawlResult(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO crawl_results`).
		WithArgs("biz-1", "ds-1", "https://aceplumbing.example", "completed",
			pgxmock.AnyArg(), pgxmock.AnyArg(), 4,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			false, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertCrawlResult(context.Background(), &model.CrawlResult{
		BusinessID: "biz-1", DatasetID: "ds-1",
		WebsiteURL: "https://aceplumbing.example",
		Status:     model.CrawlStatusCompleted,
		StartedAt:  now, FinishedAt: now.Add(3 * time.Second),
		PagesVisited: 4,
		Emails:       []string{"info@aceplumbing.example"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresApplyContactDiffReactivation(t *testing.T) {
	// An added contact carrying an existing row id hits the in-place update
	// path; no bulk insert runs and the source still references a live row.
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE contacts SET is_active`).
		WithArgs(true, pgxmock.AnyArg(), "ct-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"contact_sources"},
		[]string{"id", "contact_id", "source_url", "page_type", "content_hash", "observed_at"}).
		WillReturnResult(1)

	err := s.ApplyContactDiff(context.Background(), &changes.Diff{
		Added: []model.Contact{{
			ID: "ct-1", BusinessID: "biz-1", Type: model.ContactTypeEmail,
			Value: "info@aceplumbing.example", IsActive: true,
			FirstSeenAt: now.Add(-72 * time.Hour), LastVerifiedAt: now,
		}},
		Sources: []model.ContactSource{{
			ID: "src-2", ContactID: "ct-1",
			SourceURL: "https://aceplumbing.example/contact",
			PageType:  model.PageTypeContact, ContentHash: "h3", ObservedAt: now,
		}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsageNoRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT exports, crawls, datasets_created, updated_at FROM usage_counters`).
		WithArgs("user-1", "2026-03").
		WillReturnRows(pgxmock.NewRows([]string{"exports", "crawls", "datasets_created", "updated_at"}))

	u, err := s.Usage(context.Background(), "user-1", "2026-03")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.UserID)
	assert.Zero(t, u.Exports)
	assert.Zero(t, u.Crawls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIncrementUsage(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO usage_counters \(user_id, month, crawls, updated_at\)`).
		WithArgs("user-1", "2026-03", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.IncrementUsage(context.Background(), "user-1", "2026-03", model.ActionCrawl)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIncrementUsageUnknownAction(t *testing.T) {
	s, _ := newMockStore(t)

	err := s.IncrementUsage(context.Background(), "user-1", "2026-03", model.Action("audit"))
	assert.Error(t, err)
}

func TestPostgresTouchDatasetMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE datasets SET last_refreshed_at`).
		WithArgs(pgxmock.AnyArg(), "ds-404").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.TouchDatasetRefreshed(context.Background(), "ds-404", time.Now().UTC())
	assert.ErrorContains(t, err, "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
