package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/db"
	"github.com/scoutline/leadscout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS datasets (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	city              TEXT NOT NULL,
	industry          TEXT NOT NULL,
	last_refreshed_at TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
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
	latitude        DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude       DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (dataset_id, normalized_name),
	UNIQUE (dataset_id, place_id)
);

CREATE TABLE IF NOT EXISTS websites (
	id              TEXT PRIMARY KEY,
	business_id     TEXT NOT NULL UNIQUE REFERENCES businesses(id),
	url             TEXT NOT NULL,
	last_crawled_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS contacts (
	id               TEXT PRIMARY KEY,
	business_id      TEXT NOT NULL REFERENCES businesses(id),
	contact_type     TEXT NOT NULL,
	value            TEXT NOT NULL,
	is_generic       BOOLEAN NOT NULL DEFAULT false,
	is_active        BOOLEAN NOT NULL DEFAULT true,
	first_seen_at    TIMESTAMPTZ NOT NULL,
	last_verified_at TIMESTAMPTZ NOT NULL,
	UNIQUE (business_id, contact_type, value)
);

CREATE TABLE IF NOT EXISTS contact_sources (
	id           TEXT PRIMARY KEY,
	contact_id   TEXT NOT NULL REFERENCES contacts(id),
	source_url   TEXT NOT NULL,
	page_type    TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	observed_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS crawl_results (
	business_id   TEXT NOT NULL REFERENCES businesses(id),
	dataset_id    TEXT NOT NULL REFERENCES datasets(id),
	website_url   TEXT NOT NULL,
	status        TEXT NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL,
	pages_visited INTEGER NOT NULL DEFAULT 0,
	emails        JSONB NOT NULL DEFAULT '[]',
	phones        JSONB NOT NULL DEFAULT '[]',
	contact_pages JSONB NOT NULL DEFAULT '[]',
	social        JSONB NOT NULL DEFAULT '{}',
	errors        JSONB NOT NULL DEFAULT '[]',
	gated         BOOLEAN NOT NULL DEFAULT false,
	upgrade_hint  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (business_id, dataset_id)
);

CREATE TABLE IF NOT EXISTS usage_counters (
	user_id          TEXT NOT NULL,
	month            TEXT NOT NULL,
	exports          INTEGER NOT NULL DEFAULT 0,
	crawls           INTEGER NOT NULL DEFAULT 0,
	datasets_created INTEGER NOT NULL DEFAULT 0,
	updated_at       TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, month)
);

CREATE TABLE IF NOT EXISTS export_audit (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	dataset_id    TEXT NOT NULL,
	format        TEXT NOT NULL,
	rows_total    INTEGER NOT NULL,
	rows_returned INTEGER NOT NULL,
	gated         BOOLEAN NOT NULL DEFAULT false,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_datasets_owner ON datasets(user_id, city, industry);
CREATE INDEX IF NOT EXISTS idx_businesses_dataset ON businesses(dataset_id, created_at);
CREATE INDEX IF NOT EXISTS idx_contacts_business ON contacts(business_id);
CREATE INDEX IF NOT EXISTS idx_contact_sources_contact ON contact_sources(contact_id);
CREATE INDEX IF NOT EXISTS idx_crawl_results_dataset ON crawl_results(dataset_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetDataset(ctx context.Context, id string) (*model.Dataset, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets WHERE id = $1`, id)
	ds, err := scanPgDataset(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get dataset %s", id)
	}
	return ds, nil
}

func (s *PostgresStore) FindDataset(ctx context.Context, userID, city, industry string) (*model.Dataset, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets
		 WHERE user_id = $1 AND city = $2 AND industry = $3
		 ORDER BY created_at DESC LIMIT 1`,
		userID, city, industry)
	ds, err := scanPgDataset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find dataset")
	}
	return ds, nil
}

func scanPgDataset(row pgx.Row) (*model.Dataset, error) {
	var ds model.Dataset
	if err := row.Scan(&ds.ID, &ds.UserID, &ds.City, &ds.Industry, &ds.LastRefreshedAt, &ds.CreatedAt); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *PostgresStore) CreateDataset(ctx context.Context, dataset *model.Dataset) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO datasets (id, user_id, city, industry, last_refreshed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		dataset.ID, dataset.UserID, dataset.City, dataset.Industry,
		dataset.LastRefreshedAt, dataset.CreatedAt)
	return eris.Wrap(err, "postgres: insert dataset")
}

func (s *PostgresStore) TouchDatasetRefreshed(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE datasets SET last_refreshed_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: touch dataset %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: dataset %s not found", id)
	}
	return nil
}

func (s *PostgresStore) ListDatasets(ctx context.Context, userID string) ([]model.Dataset, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, city, industry, last_refreshed_at, created_at FROM datasets
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list datasets")
	}
	defer rows.Close()

	var out []model.Dataset
	for rows.Next() {
		ds, err := scanPgDataset(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan dataset")
		}
		out = append(out, *ds)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list datasets")
}

func (s *PostgresStore) DatasetCities(ctx context.Context, datasetID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT city FROM businesses WHERE dataset_id = $1 ORDER BY city`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: dataset cities")
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, eris.Wrap(err, "postgres: scan city")
		}
		cities = append(cities, c)
	}
	return cities, eris.Wrap(rows.Err(), "postgres: dataset cities")
}

// CreateBusiness inserts a business and its website. Re-discovery of a place
// already in the dataset is a no-op reported as created=false.
func (s *PostgresStore) CreateBusiness(ctx context.Context, business *model.Business, website *model.Website) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`INSERT INTO businesses
		 (id, name, normalized_name, address, city, industry, place_id, dataset_id, user_id, latitude, longitude, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT DO NOTHING`,
		business.ID, business.Name, business.NormalizedName, business.Address,
		business.City, business.Industry, business.PlaceID, business.DatasetID,
		business.UserID, business.Latitude, business.Longitude,
		business.CreatedAt, business.UpdatedAt)
	if err != nil {
		return false, eris.Wrap(err, "postgres: insert business")
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if website != nil {
		if _, err := tx.Exec(ctx,
			`INSERT INTO websites (id, business_id, url, last_crawled_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (business_id) DO NOTHING`,
			website.ID, website.BusinessID, website.URL, website.LastCrawledAt); err != nil {
			return false, eris.Wrap(err, "postgres: insert website")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, eris.Wrap(err, "postgres: commit")
	}
	return true, nil
}

func (s *PostgresStore) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	var b model.Business
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, normalized_name, address, city, industry, place_id, dataset_id, user_id, latitude, longitude, created_at, updated_at
		 FROM businesses WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.NormalizedName, &b.Address, &b.City, &b.Industry,
			&b.PlaceID, &b.DatasetID, &b.UserID, &b.Latitude, &b.Longitude,
			&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get business %s", id)
	}
	return &b, nil
}

func (s *PostgresStore) ListBusinesses(ctx context.Context, datasetID string) ([]model.Business, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, normalized_name, address, city, industry, place_id, dataset_id, user_id, latitude, longitude, created_at, updated_at
		 FROM businesses WHERE dataset_id = $1 ORDER BY created_at, id`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list businesses")
	}
	defer rows.Close()

	var out []model.Business
	for rows.Next() {
		var b model.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.NormalizedName, &b.Address, &b.City,
			&b.Industry, &b.PlaceID, &b.DatasetID, &b.UserID, &b.Latitude,
			&b.Longitude, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan business")
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list businesses")
}

func (s *PostgresStore) ListWebsites(ctx context.Context, datasetID string) ([]model.Website, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT w.id, w.business_id, w.url, w.last_crawled_at
		 FROM websites w JOIN businesses b ON b.id = w.business_id
		 WHERE b.dataset_id = $1 ORDER BY b.created_at, b.id`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list websites")
	}
	defer rows.Close()

	var out []model.Website
	for rows.Next() {
		var w model.Website
		if err := rows.Scan(&w.ID, &w.BusinessID, &w.URL, &w.LastCrawledAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan website")
		}
		out = append(out, w)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list websites")
}

func (s *PostgresStore) TouchWebsite(ctx context.Context, businessID string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE websites SET last_crawled_at = $1 WHERE business_id = $2`, at, businessID)
	return eris.Wrapf(err, "postgres: touch website for business %s", businessID)
}

func (s *PostgresStore) ListContacts(ctx context.Context, businessID string) ([]model.Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, business_id, contact_type, value, is_generic, is_active, first_seen_at, last_verified_at
		 FROM contacts WHERE business_id = $1 ORDER BY first_seen_at, id`, businessID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Type, &c.Value, &c.IsGeneric,
			&c.IsActive, &c.FirstSeenAt, &c.LastVerifiedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list contacts")
}

// contactColumns is the column order used by the bulk contact upsert.
var contactColumns = []string{
	"id", "business_id", "contact_type", "value",
	"is_generic", "is_active", "first_seen_at", "last_verified_at",
}

// ApplyContactDiff persists one change-detector outcome. Reactivated contacts
// carry their stored row id and are updated in place; remaining added contacts
// go through a bulk upsert keyed on (business_id, contact_type, value); their
// sources are COPYed; verified and deactivated rows are updated in place.
func (s *PostgresStore) ApplyContactDiff(ctx context.Context, diff *changes.Diff) error {
	var fresh []model.Contact
	for _, c := range diff.Added {
		tag, err := s.pool.Exec(ctx,
			`UPDATE contacts SET is_active = $1, last_verified_at = $2 WHERE id = $3`,
			c.IsActive, c.LastVerifiedAt, c.ID)
		if err != nil {
			return eris.Wrap(err, "postgres: reactivate contact")
		}
		if tag.RowsAffected() == 0 {
			fresh = append(fresh, c)
		}
	}

	if len(fresh) > 0 {
		rows := make([][]any, 0, len(fresh))
		for _, c := range fresh {
			rows = append(rows, []any{
				c.ID, c.BusinessID, string(c.Type), c.Value,
				c.IsGeneric, c.IsActive, c.FirstSeenAt, c.LastVerifiedAt,
			})
		}
		if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        "contacts",
			Columns:      contactColumns,
			ConflictKeys: []string{"business_id", "contact_type", "value"},
			UpdateCols:   []string{"is_active", "last_verified_at"},
		}, rows); err != nil {
			return eris.Wrap(err, "postgres: upsert added contacts")
		}
	}

	if len(diff.Sources) > 0 {
		rows := make([][]any, 0, len(diff.Sources))
		for _, src := range diff.Sources {
			rows = append(rows, []any{
				src.ID, src.ContactID, src.SourceURL, string(src.PageType),
				src.ContentHash, src.ObservedAt,
			})
		}
		if _, err := db.CopyFrom(ctx, s.pool, "contact_sources",
			[]string{"id", "contact_id", "source_url", "page_type", "content_hash", "observed_at"},
			rows); err != nil {
			return eris.Wrap(err, "postgres: copy contact sources")
		}
	}

	for _, c := range diff.Verified {
		if _, err := s.pool.Exec(ctx,
			`UPDATE contacts SET is_active = true, last_verified_at = $1 WHERE id = $2`,
			c.LastVerifiedAt, c.ID); err != nil {
			return eris.Wrap(err, "postgres: verify contact")
		}
	}
	for _, c := range diff.Deactivated {
		if _, err := s.pool.Exec(ctx,
			`UPDATE contacts SET is_active = false WHERE id = $1`, c.ID); err != nil {
			return eris.Wrap(err, "postgres: deactivate contact")
		}
	}

	return nil
}

func (s *PostgresStore) UpsertCrawlResult(ctx context.Context, result *model.CrawlResult) error {
	emails, phones, pages, social, errs, err := marshalCrawlFields(result)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO crawl_results
		 (business_id, dataset_id, website_url, status, started_at, finished_at, pages_visited, emails, phones, contact_pages, social, errors, gated, upgrade_hint)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (business_id, dataset_id) DO UPDATE SET
		   website_url = EXCLUDED.website_url,
		   status = EXCLUDED.status,
		   started_at = EXCLUDED.started_at,
		   finished_at = EXCLUDED.finished_at,
		   pages_visited = EXCLUDED.pages_visited,
		   emails = EXCLUDED.emails,
		   phones = EXCLUDED.phones,
		   contact_pages = EXCLUDED.contact_pages,
		   social = EXCLUDED.social,
		   errors = EXCLUDED.errors,
		   gated = EXCLUDED.gated,
		   upgrade_hint = EXCLUDED.upgrade_hint`,
		result.BusinessID, result.DatasetID, result.WebsiteURL, string(result.Status),
		result.StartedAt, result.FinishedAt, result.PagesVisited,
		emails, phones, pages, social, errs, result.Gated, result.UpgradeHint)
	return eris.Wrap(err, "postgres: upsert crawl result")
}

func (s *PostgresStore) GetCrawlResult(ctx context.Context, businessID, datasetID string) (*model.CrawlResult, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT business_id, dataset_id, website_url, status, started_at, finished_at, pages_visited, emails, phones, contact_pages, social, errors, gated, upgrade_hint
		 FROM crawl_results WHERE business_id = $1 AND dataset_id = $2`,
		businessID, datasetID)
	cr, err := scanPgCrawlResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get crawl result")
	}
	return cr, nil
}

func (s *PostgresStore) ListCrawlResults(ctx context.Context, datasetID string) (map[string]*model.CrawlResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT business_id, dataset_id, website_url, status, started_at, finished_at, pages_visited, emails, phones, contact_pages, social, errors, gated, upgrade_hint
		 FROM crawl_results WHERE dataset_id = $1`, datasetID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list crawl results")
	}
	defer rows.Close()

	out := map[string]*model.CrawlResult{}
	for rows.Next() {
		cr, err := scanPgCrawlResult(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan crawl result")
		}
		out[cr.BusinessID] = cr
	}
	return out, eris.Wrap(rows.Err(), "postgres: list crawl results")
}

func scanPgCrawlResult(row pgx.Row) (*model.CrawlResult, error) {
	var cr model.CrawlResult
	var emails, phones, pages, social, errs string
	if err := row.Scan(&cr.BusinessID, &cr.DatasetID, &cr.WebsiteURL, &cr.Status,
		&cr.StartedAt, &cr.FinishedAt, &cr.PagesVisited,
		&emails, &phones, &pages, &social, &errs, &cr.Gated, &cr.UpgradeHint); err != nil {
		return nil, err
	}
	if err := unmarshalCrawlFields(&cr, emails, phones, pages, social, errs); err != nil {
		return nil, err
	}
	return &cr, nil
}

func (s *PostgresStore) Usage(ctx context.Context, userID, month string) (model.UsageCounters, error) {
	u := model.UsageCounters{UserID: userID, Month: month}
	err := s.pool.QueryRow(ctx,
		`SELECT exports, crawls, datasets_created, updated_at FROM usage_counters
		 WHERE user_id = $1 AND month = $2`, userID, month).
		Scan(&u.Exports, &u.Crawls, &u.DatasetsCreated, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, nil
	}
	return u, eris.Wrap(err, "postgres: get usage")
}

func (s *PostgresStore) IncrementUsage(ctx context.Context, userID, month string, action model.Action) error {
	col, err := usageColumn(action)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO usage_counters (user_id, month, `+col+`, updated_at) VALUES ($1, $2, 1, $3)
		 ON CONFLICT (user_id, month) DO UPDATE SET
		   `+col+` = usage_counters.`+col+` + 1,
		   updated_at = EXCLUDED.updated_at`,
		userID, month, time.Now().UTC())
	return eris.Wrapf(err, "postgres: increment %s usage", action)
}

func (s *PostgresStore) InsertExportAudit(ctx context.Context, audit *model.ExportAudit) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO export_audit (id, user_id, dataset_id, format, rows_total, rows_returned, gated, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		audit.ID, audit.UserID, audit.DatasetID, string(audit.Format),
		audit.RowsTotal, audit.RowsReturned, audit.Gated, audit.CreatedAt)
	return eris.Wrap(err, "postgres: insert export audit")
}
