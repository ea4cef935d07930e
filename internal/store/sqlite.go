package store

import (
	"context"
	"database/sql"
	"errors"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS datasets (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	city              TEXT NOT NULL,
	industry          TEXT NOT NULL,
	last_refreshed_at DATETIME,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS businesses (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	address         TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	industry        TEXT NOT NULL DEFAULT '',
	place_id        TEXT NOT NULL,
	dataset_id      TEXT NOT NULL REFERENCES datasets(id),
	user_id         TEXT NOT NULL,
	latitude        REAL NOT NULL DEFAULT 0,
	longitude       REAL NOT NULL DEFAULT 0,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (dataset_id, normalized_name),
	UNIQUE (dataset_id, place_id)
);

CREATE TABLE IF NOT EXISTS websites (
	id              TEXT PRIMARY KEY,
	business_id     TEXT NOT NULL UNIQUE REFERENCES businesses(id),
	url             TEXT NOT NULL,
	last_crawled_at DATETIME
);

CREATE TABLE IF NOT EXISTS contacts (
	id               TEXT PRIMARY KEY,
	business_id      TEXT NOT NULL REFERENCES businesses(id),
	contact_type     TEXT NOT NULL,
	value            TEXT NOT NULL,
	is_generic       INTEGER NOT NULL DEFAULT 0,
	is_active        INTEGER NOT NULL DEFAULT 1,
	first_seen_at    DATETIME NOT NULL,
	last_verified_at DATETIME NOT NULL,
	UNIQUE (business_id, contact_type, value)
);

CREATE TABLE IF NOT EXISTS contact_sources (
	id           TEXT PRIMARY KEY,
	contact_id   TEXT NOT NULL REFERENCES contacts(id),
	source_url   TEXT NOT NULL,
	page_type    TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	observed_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS crawl_results (
	business_id   TEXT NOT NULL REFERENCES businesses(id),
	dataset_id    TEXT NOT NULL REFERENCES datasets(id),
	website_url   TEXT NOT NULL,
	status        TEXT NOT NULL,
	started_at    DATETIME NOT NULL,
	finished_at   DATETIME NOT NULL,
	pages_visited INTEGER NOT NULL DEFAULT 0,
	emails        TEXT NOT NULL DEFAULT '[]',
	phones        TEXT NOT NULL DEFAULT '[]',
	contact_pages TEXT NOT NULL DEFAULT '[]',
	social        TEXT NOT NULL DEFAULT '{}',
	errors        TEXT NOT NULL DEFAULT '[]',
	gated         INTEGER NOT NULL DEFAULT 0,
	upgrade_hint  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (business_id, dataset_id)
);

CREATE TABLE IF NOT EXISTS usage_counters (
	user_id          TEXT NOT NULL,
	month            TEXT NOT NULL,
	exports          INTEGER NOT NULL DEFAULT 0,
	crawls           INTEGER NOT NULL DEFAULT 0,
	datasets_created INTEGER NOT NULL DEFAULT 0,
	updated_at       DATETIME NOT NULL,
	PRIMARY KEY (user_id, month)
);

CREATE TABLE IF NOT EXISTS export_audit (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	dataset_id    TEXT NOT NULL,
	format        TEXT NOT NULL,
	rows_total    INTEGER NOT NULL,
	rows_returned INTEGER NOT NULL,
	gated         INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_datasets_owner ON datasets(user_id, city, industry);
CREATE INDEX IF NOT EXISTS idx_businesses_dataset ON businesses(dataset_id, created_at);
CREATE INDEX IF NOT EXISTS idx_contacts_business ON contacts(business_id);
CREATE INDEX IF NOT EXISTS idx_contact_sources_contact ON contact_sources(contact_id);
CREATE INDEX IF NOT EXISTS idx_crawl_results_dataset ON crawl_results(dataset_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetDataset(ctx context.Context, id string) (*model.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets WHERE id = ?`, id)
	return scanDataset(row)
}

func (s *SQLiteStore) FindDataset(ctx context.Context, userID, city, industry string) (*model.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets
		 WHERE user_id = ? AND city = ? AND industry = ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, city, industry)
	ds, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ds, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*model.Dataset, error) {
	var ds model.Dataset
	var refreshed sql.NullTime
	if err := row.Scan(&ds.ID, &ds.UserID, &ds.City, &ds.Industry, &refreshed, &ds.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan dataset")
	}
	if refreshed.Valid {
		t := refreshed.Time
		ds.LastRefreshedAt = &t
	}
	return &ds, nil
}

func (s *SQLiteStore) CreateDataset(ctx context.Context, dataset *model.Dataset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, user_id, city, industry, last_refreshed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		dataset.ID, dataset.UserID, dataset.City, dataset.Industry,
		nullTime(dataset.LastRefreshedAt), dataset.CreatedAt)
	return eris.Wrap(err, "sqlite: insert dataset")
}

func (s *SQLiteStore) TouchDatasetRefreshed(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE datasets SET last_refreshed_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: touch dataset %s", id)
	}
	return checkRowsAffected(res, "dataset", id)
}

func (s *SQLiteStore) ListDatasets(ctx context.Context, userID string) ([]model.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list datasets")
	}
	defer rows.Close()

	var out []model.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ds)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list datasets")
}

func (s *SQLiteStore) DatasetCities(ctx context.Context, datasetID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT city FROM businesses WHERE dataset_id = ? ORDER BY city`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: dataset cities")
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan city")
		}
		cities = append(cities, c)
	}
	return cities, eris.Wrap(rows.Err(), "sqlite: dataset cities")
}

// CreateBusiness inserts a business and its website. Re-discovery of a place
// already in the dataset is a no-op reported as created=false.
func (s *SQLiteStore) CreateBusiness(ctx context.Context, business *model.Business, website *model.Website) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO businesses
		 (id, name, normalized_name, address, city, industry, place_id, dataset_id, user_id, latitude, longitude, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		business.ID, business.Name, business.NormalizedName, business.Address,
		business.City, business.Industry, business.PlaceID, business.DatasetID,
		business.UserID, business.Latitude, business.Longitude,
		business.CreatedAt, business.UpdatedAt)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: insert business")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return false, nil
	}

	if website != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO websites (id, business_id, url, last_crawled_at) VALUES (?, ?, ?, ?)`,
			website.ID, website.BusinessID, website.URL, nullTime(website.LastCrawledAt)); err != nil {
			return false, eris.Wrap(err, "sqlite: insert website")
		}
	}

	if err := tx.Commit(); err != nil {
		return false, eris.Wrap(err, "sqlite: commit")
	}
	return true, nil
}

func (s *SQLiteStore) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	var b model.Business
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, normalized_name, address, city, industry, place_id, dataset_id, user_id, latitude, longitude, created_at, updated_at
		 FROM businesses WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &b.NormalizedName, &b.Address, &b.City, &b.Industry,
			&b.PlaceID, &b.DatasetID, &b.UserID, &b.Latitude, &b.Longitude,
			&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get business %s", id)
	}
	return &b, nil
}

func (s *SQLiteStore) ListBusinesses(ctx context.Context, datasetID string) ([]model.Business, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, normalized_name, address, city, industry, place_id, dataset_id, user_id, latitude, longitude, created_at, updated_at
		 FROM businesses WHERE dataset_id = ? ORDER BY created_at, id`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list businesses")
	}
	defer rows.Close()

	var out []model.Business
	for rows.Next() {
		var b model.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.NormalizedName, &b.Address, &b.City,
			&b.Industry, &b.PlaceID, &b.DatasetID, &b.UserID, &b.Latitude,
			&b.Longitude, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan business")
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list businesses")
}

func (s *SQLiteStore) ListWebsites(ctx context.Context, datasetID string) ([]model.Website, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.id, w.business_id, w.url, w.last_crawled_at
		 FROM websites w JOIN businesses b ON b.id = w.business_id
		 WHERE b.dataset_id = ? ORDER BY b.created_at, b.id`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list websites")
	}
	defer rows.Close()

	var out []model.Website
	for rows.Next() {
		var w model.Website
		var crawled sql.NullTime
		if err := rows.Scan(&w.ID, &w.BusinessID, &w.URL, &crawled); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan website")
		}
		if crawled.Valid {
			t := crawled.Time
			w.LastCrawledAt = &t
		}
		out = append(out, w)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list websites")
}

func (s *SQLiteStore) TouchWebsite(ctx context.Context, businessID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE websites SET last_crawled_at = ? WHERE business_id = ?`, at, businessID)
	return eris.Wrapf(err, "sqlite: touch website for business %s", businessID)
}

func (s *SQLiteStore) ListContacts(ctx context.Context, businessID string) ([]model.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, business_id, contact_type, value, is_generic, is_active, first_seen_at, last_verified_at
		 FROM contacts WHERE business_id = ? ORDER BY first_seen_at, id`, businessID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Type, &c.Value, &c.IsGeneric,
			&c.IsActive, &c.FirstSeenAt, &c.LastVerifiedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list contacts")
}

// ApplyContactDiff persists one change-detector outcome atomically: inserts
// for added contacts and their sources, updates for verified and deactivated.
func (s *SQLiteStore) ApplyContactDiff(ctx context.Context, diff *changes.Diff) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, c := range diff.Added {
		// Reactivated contacts arrive with their stored row id; update in
		// place so the insert never trips the primary key.
		res, err := tx.ExecContext(ctx,
			`UPDATE contacts SET is_active = ?, last_verified_at = ? WHERE id = ?`,
			c.IsActive, c.LastVerifiedAt, c.ID)
		if err != nil {
			return eris.Wrap(err, "sqlite: reactivate contact")
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (id, business_id, contact_type, value, is_generic, is_active, first_seen_at, last_verified_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (business_id, contact_type, value) DO UPDATE SET
			   is_active = excluded.is_active,
			   last_verified_at = excluded.last_verified_at`,
			c.ID, c.BusinessID, c.Type, c.Value, c.IsGeneric, c.IsActive,
			c.FirstSeenAt, c.LastVerifiedAt); err != nil {
			return eris.Wrap(err, "sqlite: insert contact")
		}
	}
	for _, src := range diff.Sources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contact_sources (id, contact_id, source_url, page_type, content_hash, observed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			src.ID, src.ContactID, src.SourceURL, src.PageType, src.ContentHash, src.ObservedAt); err != nil {
			return eris.Wrap(err, "sqlite: insert contact source")
		}
	}
	for _, c := range diff.Verified {
		if _, err := tx.ExecContext(ctx,
			`UPDATE contacts SET is_active = 1, last_verified_at = ? WHERE id = ?`,
			c.LastVerifiedAt, c.ID); err != nil {
			return eris.Wrap(err, "sqlite: verify contact")
		}
	}
	for _, c := range diff.Deactivated {
		if _, err := tx.ExecContext(ctx,
			`UPDATE contacts SET is_active = 0 WHERE id = ?`, c.ID); err != nil {
			return eris.Wrap(err, "sqlite: deactivate contact")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit contact diff")
}

func (s *SQLiteStore) UpsertCrawlResult(ctx context.Context, result *model.CrawlResult) error {
	emails, phones, pages, social, errs, err := marshalCrawlFields(result)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO crawl_results
		 (business_id, dataset_id, website_url, status, started_at, finished_at, pages_visited, emails, phones, contact_pages, social, errors, gated, upgrade_hint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (business_id, dataset_id) DO UPDATE SET
		   website_url = excluded.website_url,
		   status = excluded.status,
		   started_at = excluded.started_at,
		   finished_at = excluded.finished_at,
		   pages_visited = excluded.pages_visited,
		   emails = excluded.emails,
		   phones = excluded.phones,
		   contact_pages = excluded.contact_pages,
		   social = excluded.social,
		   errors = excluded.errors,
		   gated = excluded.gated,
		   upgrade_hint = excluded.upgrade_hint`,
		result.BusinessID, result.DatasetID, result.WebsiteURL, result.Status,
		result.StartedAt, result.FinishedAt, result.PagesVisited,
		emails, phones, pages, social, errs, result.Gated, result.UpgradeHint)
	return eris.Wrap(err, "sqlite: upsert crawl result")
}

func (s *SQLiteStore) GetCrawlResult(ctx context.Context, businessID, datasetID string) (*model.CrawlResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT business_id, dataset_id, website_url, status, started_at, finished_at, pages_visited, emails, phones, contact_pages, social, errors, gated, upgrade_hint
		 FROM crawl_results WHERE business_id = ? AND dataset_id = ?`,
		businessID, datasetID)
	cr, err := scanCrawlResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return cr, err
}

func (s *SQLiteStore) ListCrawlResults(ctx context.Context, datasetID string) (map[string]*model.CrawlResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT business_id, dataset_id, website_url, status, started_at, finished_at, pages_visited, emails, phones, contact_pages, social, errors, gated, upgrade_hint
		 FROM crawl_results WHERE dataset_id = ?`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list crawl results")
	}
	defer rows.Close()

	out := map[string]*model.CrawlResult{}
	for rows.Next() {
		cr, err := scanCrawlResult(rows)
		if err != nil {
			return nil, err
		}
		out[cr.BusinessID] = cr
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list crawl results")
}

func scanCrawlResult(row rowScanner) (*model.CrawlResult, error) {
	var cr model.CrawlResult
	var emails, phones, pages, social, errs string
	if err := row.Scan(&cr.BusinessID, &cr.DatasetID, &cr.WebsiteURL, &cr.Status,
		&cr.StartedAt, &cr.FinishedAt, &cr.PagesVisited,
		&emails, &phones, &pages, &social, &errs, &cr.Gated, &cr.UpgradeHint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan crawl result")
	}
	if err := unmarshalCrawlFields(&cr, emails, phones, pages, social, errs); err != nil {
		return nil, err
	}
	return &cr, nil
}

func (s *SQLiteStore) Usage(ctx context.Context, userID, month string) (model.UsageCounters, error) {
	u := model.UsageCounters{UserID: userID, Month: month}
	err := s.db.QueryRowContext(ctx,
		`SELECT exports, crawls, datasets_created, updated_at FROM usage_counters
		 WHERE user_id = ? AND month = ?`, userID, month).
		Scan(&u.Exports, &u.Crawls, &u.DatasetsCreated, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, nil
	}
	return u, eris.Wrap(err, "sqlite: get usage")
}

func (s *SQLiteStore) IncrementUsage(ctx context.Context, userID, month string, action model.Action) error {
	col, err := usageColumn(action)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO usage_counters (user_id, month, `+col+`, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT (user_id, month) DO UPDATE SET
		   `+col+` = `+col+` + 1,
		   updated_at = excluded.updated_at`,
		userID, month, time.Now().UTC())
	return eris.Wrapf(err, "sqlite: increment %s usage", action)
}

func (s *SQLiteStore) InsertExportAudit(ctx context.Context, audit *model.ExportAudit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO export_audit (id, user_id, dataset_id, format, rows_total, rows_returned, gated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		audit.ID, audit.UserID, audit.DatasetID, audit.Format,
		audit.RowsTotal, audit.RowsReturned, audit.Gated, audit.CreatedAt)
	return eris.Wrap(err, "sqlite: insert export audit")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s %s not found", entity, id)
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func usageColumn(action model.Action) (string, error) {
	switch action {
	case model.ActionExport:
		return "exports", nil
	case model.ActionCrawl:
		return "crawls", nil
	case model.ActionDiscover:
		return "datasets_created", nil
	default:
		return "", eris.Errorf("store: unknown usage action %q", action)
	}
}

func marshalCrawlFields(cr *model.CrawlResult) (emails, phones, pages, social, errs string, err error) {
	parts := []struct {
		v    any
		dest *string
	}{
		{orEmpty(cr.Emails), &emails},
		{orEmpty(cr.Phones), &phones},
		{orEmpty(cr.ContactPages), &pages},
		{cr.Social, &social},
		{cr.Errors, &errs},
	}
	for _, p := range parts {
		b, mErr := json.Marshal(p.v)
		if mErr != nil {
			return "", "", "", "", "", eris.Wrap(mErr, "store: marshal crawl result")
		}
		*p.dest = string(b)
	}
	return emails, phones, pages, social, errs, nil
}

func unmarshalCrawlFields(cr *model.CrawlResult, emails, phones, pages, social, errs string) error {
	for _, p := range []struct {
		src  string
		dest any
	}{
		{emails, &cr.Emails},
		{phones, &cr.Phones},
		{pages, &cr.ContactPages},
		{social, &cr.Social},
		{errs, &cr.Errors},
	} {
		if p.src == "" {
			continue
		}
		if err := json.Unmarshal([]byte(p.src), p.dest); err != nil {
			return eris.Wrap(err, "store: unmarshal crawl result")
		}
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
