// Package discovery fans places-search calls out over a geo grid, dedups the
// results by external place id, and persists unique business candidates into
// a dataset.
package discovery

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/scoutline/leadscout/internal/config"
	"github.com/scoutline/leadscout/internal/geogrid"
	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/pricing"
	"github.com/scoutline/leadscout/internal/resilience"
	"github.com/scoutline/leadscout/pkg/places"
)

// maxPagesPerPoint caps result pagination for a single grid point.
const maxPagesPerPoint = 3

// Store is the persistence surface discovery needs.
type Store interface {
	GetDataset(ctx context.Context, id string) (*model.Dataset, error)
	FindDataset(ctx context.Context, userID, city, industry string) (*model.Dataset, error)
	CreateDataset(ctx context.Context, dataset *model.Dataset) error
	TouchDatasetRefreshed(ctx context.Context, id string, at time.Time) error
	DatasetCities(ctx context.Context, datasetID string) ([]string, error)
	CreateBusiness(ctx context.Context, business *model.Business, website *model.Website) (bool, error)
}

// Request describes one discovery run: an industry searched across a grid
// around a city center. DatasetID is optional; when empty the run reuses a
// fresh dataset for the same (city, industry) or creates a new one.
type Request struct {
	Industry  string        `json:"industry"`
	City      string        `json:"city"`
	Center    geogrid.Point `json:"center"`
	RadiusKM  float64       `json:"radius_km,omitempty"`
	StepKM    float64       `json:"step_km,omitempty"`
	DatasetID string        `json:"dataset_id,omitempty"`
	UserID    string        `json:"user_id"`
}

// Result is the structured outcome of a run. Quota denials are results with
// Gated set, never errors.
type Result struct {
	Success        bool     `json:"success"`
	DatasetID      string   `json:"dataset_id,omitempty"`
	DatasetReused  bool     `json:"dataset_reused"`
	Created        int      `json:"created"`
	Duplicates     int      `json:"duplicates"`
	PointsSearched int      `json:"points_searched"`
	APICalls       int      `json:"api_calls"`
	Errors         []string `json:"errors,omitempty"`
	Gated          bool     `json:"gated"`
	Reason         string   `json:"reason,omitempty"`
	UpgradeHint    string   `json:"upgrade_hint,omitempty"`
}

// Service runs discovery.
type Service struct {
	store   Store
	client  places.Client
	perms   pricing.PermissionsResolver
	usage   pricing.UsageStore
	cfg     config.DiscoveryConfig
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	now     func() time.Time
}

// NewService creates a discovery Service. Search calls are issued one at a
// time through a rate limiter with burst 1.
func NewService(store Store, client places.Client, perms pricing.PermissionsResolver, usage pricing.UsageStore, cfg config.DiscoveryConfig) *Service {
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	retry.ShouldRetry = retriable
	retry.OnRetry = resilience.RetryLogger("places", "search-text")

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	return &Service{
		store:   store,
		client:  client,
		perms:   perms,
		usage:   usage,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		retry:   retry,
		now:     time.Now,
	}
}

// Run executes one discovery fan-out. A grid point that exhausts its retries
// lands in the error list; it never aborts the run.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Industry == "" || req.City == "" {
		return nil, eris.New("discovery: industry and city are required")
	}
	if req.UserID == "" {
		return nil, eris.New("discovery: user id is required")
	}
	if req.DatasetID != "" {
		if _, err := uuid.Parse(req.DatasetID); err != nil {
			return nil, eris.Wrapf(err, "discovery: invalid dataset id %q", req.DatasetID)
		}
	}

	perms, err := s.perms.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, eris.Wrap(err, "discovery: resolve permissions")
	}

	now := s.now().UTC()
	dataset, reused, denied, err := s.resolveDataset(ctx, req, perms, now)
	if err != nil {
		return nil, err
	}
	if denied != nil {
		return denied, nil
	}

	if denied := s.checkCityGate(ctx, dataset, req.City, perms); denied != nil {
		return denied, nil
	}

	radius := req.RadiusKM
	if radius <= 0 {
		radius = s.cfg.RadiusKM
	}
	step := req.StepKM
	if step <= 0 {
		step = s.cfg.StepKM
	}
	grid, err := geogrid.Generate(req.Center, geogrid.Options{
		RadiusKM:  radius,
		StepKM:    step,
		MaxPoints: s.cfg.MaxGridPoints,
	})
	if err != nil {
		return nil, eris.Wrap(err, "discovery: generate grid")
	}

	log := zap.L().With(
		zap.String("dataset_id", dataset.ID),
		zap.String("city", req.City),
		zap.String("industry", req.Industry),
	)
	log.Info("discovery run started", zap.Int("grid_points", len(grid.Points)))

	result := &Result{
		DatasetID:     dataset.ID,
		DatasetReused: reused,
	}
	query := fmt.Sprintf("%s in %s", req.Industry, req.City)
	seen := map[string]bool{}

	for _, point := range grid.Points {
		result.PointsSearched++
		if err := s.searchPoint(ctx, point, step, query, req, dataset.ID, seen, result); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("point (%.5f, %.5f): %s", point.Lat, point.Lng, err.Error()))
		}
	}

	if err := s.store.TouchDatasetRefreshed(ctx, dataset.ID, now); err != nil {
		return nil, eris.Wrap(err, "discovery: touch dataset")
	}

	result.Success = true
	log.Info("discovery run finished",
		zap.Int("created", result.Created),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("api_calls", result.APICalls),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

// resolveDataset applies the reuse rule: an explicit dataset is validated for
// ownership and refresh rights; otherwise a fresh dataset for the same
// (city, industry) is reused, and failing that a new one is created under the
// monthly dataset ceiling.
func (s *Service) resolveDataset(ctx context.Context, req Request, perms model.UserPermissions, now time.Time) (*model.Dataset, bool, *Result, error) {
	if req.DatasetID != "" {
		dataset, err := s.store.GetDataset(ctx, req.DatasetID)
		if err != nil {
			return nil, false, nil, eris.Wrap(err, "discovery: load dataset")
		}
		if dataset.UserID != req.UserID {
			return nil, false, nil, eris.Errorf("discovery: dataset %s is not owned by user %s", req.DatasetID, req.UserID)
		}
		if !dataset.Fresh(now) && !perms.CanRefresh && !perms.IsInternalUser {
			return nil, false, &Result{
				DatasetID:   dataset.ID,
				Gated:       true,
				Reason:      fmt.Sprintf("the %s plan cannot refresh stale datasets", perms.Plan),
				UpgradeHint: upgradeHint(perms.Plan),
			}, nil
		}
		return dataset, true, nil, nil
	}

	existing, err := s.store.FindDataset(ctx, req.UserID, req.City, req.Industry)
	if err != nil {
		return nil, false, nil, eris.Wrap(err, "discovery: find dataset")
	}
	if existing != nil && existing.Fresh(now) {
		return existing, true, nil, nil
	}

	month := model.UsageMonth(now)
	counters, err := s.usage.Usage(ctx, req.UserID, month)
	if err != nil {
		return nil, false, nil, eris.Wrap(err, "discovery: load usage")
	}
	if d := pricing.CheckUsage(perms, model.ActionDiscover, counters.DatasetsCreated); !d.Allowed {
		return nil, false, &Result{
			Gated:       true,
			Reason:      d.Reason,
			UpgradeHint: d.UpgradeHint,
		}, nil
	}

	dataset := &model.Dataset{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		City:      req.City,
		Industry:  req.Industry,
		CreatedAt: now,
	}
	if err := s.store.CreateDataset(ctx, dataset); err != nil {
		return nil, false, nil, eris.Wrap(err, "discovery: create dataset")
	}
	if err := s.usage.IncrementUsage(ctx, req.UserID, month, model.ActionDiscover); err != nil {
		return nil, false, nil, eris.Wrap(err, "discovery: increment usage")
	}

	return dataset, false, nil, nil
}

// checkCityGate enforces the cities-per-dataset plan limit when this run
// would add a new city to the dataset.
func (s *Service) checkCityGate(ctx context.Context, dataset *model.Dataset, city string, perms model.UserPermissions) *Result {
	cities, err := s.store.DatasetCities(ctx, dataset.ID)
	if err != nil {
		// Unknown city set: let the run proceed rather than deny on a read error.
		zap.L().Warn("discovery: dataset city lookup failed", zap.Error(err))
		return nil
	}
	if slices.Contains(cities, city) {
		return nil
	}
	if d := pricing.CheckGate(perms, pricing.GateCities, len(cities)+1); !d.Allowed {
		return &Result{
			DatasetID:   dataset.ID,
			Gated:       true,
			Reason:      d.Reason,
			UpgradeHint: d.UpgradeHint,
		}
	}
	return nil
}

// searchPoint issues the paginated search for one grid point and persists
// unseen places.
func (s *Service) searchPoint(ctx context.Context, point geogrid.Point, stepKM float64, query string, req Request, datasetID string, seen map[string]bool, result *Result) error {
	rect := cellRect(point.Cell(stepKM))
	pageToken := ""

	for page := 0; page < maxPagesPerPoint; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limiter")
		}

		result.APICalls++
		resp, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (*places.SearchResponse, error) {
			return s.client.SearchText(ctx, places.SearchRequest{
				TextQuery:           query,
				PageToken:           pageToken,
				PageSize:            s.cfg.ResultsPerCall,
				LocationRestriction: rect,
			})
		})
		if err != nil {
			return err
		}

		for _, place := range resp.Places {
			if place.ID == "" {
				continue
			}
			if seen[place.ID] {
				result.Duplicates++
				continue
			}
			seen[place.ID] = true

			created, err := s.persistPlace(ctx, place, req, datasetID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("place %s: %s", place.ID, err.Error()))
				continue
			}
			if created {
				result.Created++
			} else {
				result.Duplicates++
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return nil
}

// persistPlace creates the Business (and Website when the place has one).
// Re-discovery of a known place is a no-op, reported as a duplicate.
func (s *Service) persistPlace(ctx context.Context, place places.Place, req Request, datasetID string) (bool, error) {
	business := &model.Business{
		ID:             uuid.New().String(),
		Name:           place.DisplayName.Text,
		NormalizedName: model.NormalizeName(place.DisplayName.Text),
		Address:        place.FormattedAddress,
		City:           req.City,
		Industry:       req.Industry,
		PlaceID:        place.ID,
		DatasetID:      datasetID,
		UserID:         req.UserID,
		CreatedAt:      s.now().UTC(),
		UpdatedAt:      s.now().UTC(),
	}
	if place.Location != nil {
		business.Latitude = place.Location.Latitude
		business.Longitude = place.Location.Longitude
	}

	var website *model.Website
	if place.WebsiteURI != "" {
		website = &model.Website{
			ID:         uuid.New().String(),
			BusinessID: business.ID,
			URL:        place.WebsiteURI,
		}
	}

	return s.store.CreateBusiness(ctx, business, website)
}

// cellRect converts a grid cell's bounds into the API rectangle shape.
func cellRect(b *geom.Bounds) *places.LocationRect {
	return &places.LocationRect{
		Rectangle: places.Rectangle{
			Low:  places.LatLng{Latitude: b.Min(1), Longitude: b.Min(0)},
			High: places.LatLng{Latitude: b.Max(1), Longitude: b.Max(0)},
		},
	}
}

// retriable extends the transient check with retryable HTTP statuses baked
// into client error strings.
func retriable(err error) bool {
	if resilience.IsTransient(err) {
		return true
	}
	msg := err.Error()
	i := strings.Index(msg, "unexpected status ")
	if i < 0 {
		return false
	}
	rest := msg[i+len("unexpected status "):]
	if len(rest) < 3 {
		return false
	}
	code, convErr := strconv.Atoi(rest[:3])
	if convErr != nil {
		return false
	}
	return resilience.IsTransientHTTPStatus(code)
}

func upgradeHint(p model.Plan) string {
	next := p.NextTier()
	if next == "" {
		return ""
	}
	return fmt.Sprintf("upgrade to %s for higher limits", next)
}
