// Package crawl implements the bounded-concurrency website crawler: a
// sequential BFS per site, a global slot pool across sites, and plan-based
// page caps applied through the pricing gate.
package crawl

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/config"
	"github.com/scoutline/leadscout/internal/extract"
	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/pricing"
)

// maxDepthCeiling is the hard BFS depth limit, enforced independently of the
// page cap.
const maxDepthCeiling = 2

// internalPageCap bounds crawls for internal users, who bypass plan limits
// but not runaway-site protection.
const internalPageCap = 100

// pageMaxBytes bounds how much of a page body we read.
const pageMaxBytes = 512 * 1024

// Store is the persistence surface the worker needs.
type Store interface {
	GetDataset(ctx context.Context, id string) (*model.Dataset, error)
	GetBusiness(ctx context.Context, id string) (*model.Business, error)
	ListContacts(ctx context.Context, businessID string) ([]model.Contact, error)
	ApplyContactDiff(ctx context.Context, diff *changes.Diff) error
	UpsertCrawlResult(ctx context.Context, result *model.CrawlResult) error
	TouchWebsite(ctx context.Context, businessID string, at time.Time) error
}

// Request identifies one crawl invocation.
type Request struct {
	BusinessID string `json:"business_id"`
	DatasetID  string `json:"dataset_id"`
	WebsiteURL string `json:"website_url"`
	UserID     string `json:"user_id"`
}

// Result is the structured outcome returned to callers. Quota denials are
// results, never errors.
type Result struct {
	Success             bool               `json:"success"`
	CrawlResult         *model.CrawlResult `json:"crawl_result,omitempty"`
	ContactsAdded       int                `json:"contacts_added"`
	ContactsVerified    int                `json:"contacts_verified"`
	ContactsDeactivated int                `json:"contacts_deactivated"`
	Gated               bool               `json:"gated"`
	Reason              string             `json:"reason,omitempty"`
	UpgradeHint         string             `json:"upgrade_hint,omitempty"`
}

// Worker crawls business websites.
type Worker struct {
	store     Store
	perms     pricing.PermissionsResolver
	usage     pricing.UsageStore
	pool      *Pool
	extractor *extract.Extractor
	matcher   *PathMatcher
	client    *http.Client
	cfg       config.CrawlConfig
	now       func() time.Time
}

// NewWorker creates a Worker. The pool is shared process-wide so concurrent
// invocations respect the global crawl-slot limit.
func NewWorker(store Store, perms pricing.PermissionsResolver, usage pricing.UsageStore, pool *Pool, cfg config.CrawlConfig) *Worker {
	return &Worker{
		store:     store,
		perms:     perms,
		usage:     usage,
		pool:      pool,
		extractor: extract.New(""),
		matcher:   NewPathMatcher(cfg.ExcludePaths),
		client: &http.Client{
			Timeout: time.Duration(cfg.PageTimeoutSecs) * time.Second,
		},
		cfg: cfg,
		now: time.Now,
	}
}

// Crawl runs one bounded BFS crawl and persists the upserted CrawlResult.
// It blocks until a global crawl slot is free.
func (w *Worker) Crawl(ctx context.Context, req Request) (*Result, error) {
	if _, err := uuid.Parse(req.BusinessID); err != nil {
		return nil, eris.Wrapf(err, "crawl: invalid business id %q", req.BusinessID)
	}
	if _, err := uuid.Parse(req.DatasetID); err != nil {
		return nil, eris.Wrapf(err, "crawl: invalid dataset id %q", req.DatasetID)
	}

	dataset, err := w.store.GetDataset(ctx, req.DatasetID)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: load dataset")
	}
	if dataset.UserID != req.UserID {
		return nil, eris.Errorf("crawl: dataset %s is not owned by user %s", req.DatasetID, req.UserID)
	}
	business, err := w.store.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: load business")
	}

	perms, err := w.perms.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: resolve permissions")
	}

	month := model.UsageMonth(w.now())
	counters, err := w.usage.Usage(ctx, req.UserID, month)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: load usage")
	}
	if d := pricing.CheckUsage(perms, model.ActionCrawl, counters.Crawls); !d.Allowed {
		// Abort before any expensive work; nothing is persisted.
		return &Result{
			Success:     false,
			Gated:       true,
			Reason:      d.Reason,
			UpgradeHint: d.UpgradeHint,
		}, nil
	}

	pageCap := perms.MaxCrawlPages
	if perms.IsInternalUser || pageCap <= 0 || pageCap > internalPageCap {
		pageCap = internalPageCap
	}

	log := zap.L().With(
		zap.String("business_id", req.BusinessID),
		zap.String("dataset_id", req.DatasetID),
		zap.String("url", req.WebsiteURL),
	)

	if err := w.pool.Acquire(ctx); err != nil {
		return nil, eris.Wrap(err, "crawl: acquire slot")
	}
	defer w.pool.Release()

	crawlResult := &model.CrawlResult{
		BusinessID: req.BusinessID,
		DatasetID:  req.DatasetID,
		WebsiteURL: req.WebsiteURL,
		StartedAt:  w.now().UTC(),
		Status:     model.CrawlStatusNotCrawled,
	}
	result := &Result{CrawlResult: crawlResult}

	start, err := Canonicalize(req.WebsiteURL)
	if err != nil {
		crawlResult.FinishedAt = w.now().UTC()
		crawlResult.Errors = append(crawlResult.Errors, model.CrawlError{
			Message: "website url is unparseable: " + req.WebsiteURL,
			NoRetry: true,
		})
		if err := w.store.UpsertCrawlResult(ctx, crawlResult); err != nil {
			return nil, eris.Wrap(err, "crawl: persist result")
		}
		return result, nil
	}

	if !robotsAllowed(ctx, w.client, Origin(start), w.cfg.UserAgent, "/") {
		log.Info("crawl blocked by robots.txt")
		crawlResult.Status = model.CrawlStatusBlocked
		crawlResult.FinishedAt = w.now().UTC()
		if err := w.store.UpsertCrawlResult(ctx, crawlResult); err != nil {
			return nil, eris.Wrap(err, "crawl: persist result")
		}
		result.Success = true
		return result, nil
	}

	candidates, socials := w.traverse(ctx, start, pageCap, crawlResult)

	// Social links come from the homepage only.
	for _, s := range socials {
		setSocial(&crawlResult.Social, s)
	}

	gatedByCap := crawlResult.Gated && !perms.IsInternalUser
	if gatedByCap && crawlResult.UpgradeHint == "" {
		if d := pricing.CheckGate(perms, pricing.GateCrawlPages, crawlResult.PagesVisited+1); !d.Allowed {
			crawlResult.UpgradeHint = d.UpgradeHint
		}
	}

	// Reconcile extracted contacts against the stored set.
	stored, err := w.store.ListContacts(ctx, req.BusinessID)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: list contacts")
	}
	diff := changes.Detect(business.ID, stored, candidates, w.now().UTC())
	if err := w.store.ApplyContactDiff(ctx, diff); err != nil {
		return nil, eris.Wrap(err, "crawl: apply contact diff")
	}

	crawlResult.FinishedAt = w.now().UTC()
	if err := w.store.UpsertCrawlResult(ctx, crawlResult); err != nil {
		return nil, eris.Wrap(err, "crawl: persist result")
	}
	if err := w.store.TouchWebsite(ctx, req.BusinessID, crawlResult.FinishedAt); err != nil {
		return nil, eris.Wrap(err, "crawl: touch website")
	}
	if err := w.usage.IncrementUsage(ctx, req.UserID, month, model.ActionCrawl); err != nil {
		return nil, eris.Wrap(err, "crawl: increment usage")
	}

	result.Success = true
	result.ContactsAdded, result.ContactsVerified, result.ContactsDeactivated = diff.Counts()
	result.Gated = crawlResult.Gated
	result.UpgradeHint = crawlResult.UpgradeHint

	log.Info("crawl finished",
		zap.String("status", string(crawlResult.Status)),
		zap.Int("pages", crawlResult.PagesVisited),
		zap.Int("added", result.ContactsAdded),
		zap.Int("verified", result.ContactsVerified),
		zap.Int("deactivated", result.ContactsDeactivated),
		zap.Bool("gated", result.Gated),
	)

	return result, nil
}

type queueItem struct {
	url   string
	depth int
}

// traverse runs the BFS loop, filling crawlResult in place and returning the
// extracted candidates plus homepage social links.
func (w *Worker) traverse(ctx context.Context, start string, pageCap int, crawlResult *model.CrawlResult) ([]extract.Candidate, []extract.SocialLink) {
	deadline := time.Duration(w.cfg.TotalTimeoutSecs) * time.Second
	crawlCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	maxDepth := w.cfg.MaxDepth
	if maxDepth <= 0 || maxDepth > maxDepthCeiling {
		maxDepth = maxDepthCeiling
	}
	delay := time.Duration(w.cfg.FetchDelayMillis) * time.Millisecond

	base, _ := url.Parse(start)

	visited := map[string]bool{start: true}
	queue := []queueItem{{url: start, depth: 0}}

	var (
		candidates []extract.Candidate
		socials    []extract.SocialLink
		emailSeen  = map[string]bool{}
		phoneSeen  = map[string]bool{}
		pageFailed bool
		timedOut   bool
	)

	for len(queue) > 0 && crawlResult.PagesVisited < pageCap {
		if crawlCtx.Err() != nil {
			timedOut = true
			break
		}

		item := queue[0]
		queue = queue[1:]

		body, finalURL, err := w.fetch(crawlCtx, item.url)
		if err != nil {
			if crawlCtx.Err() != nil {
				timedOut = true
				break
			}
			pageFailed = true
			crawlResult.Errors = append(crawlResult.Errors, model.CrawlError{
				URL:     item.url,
				Message: err.Error(),
			})
			continue
		}
		crawlResult.PagesVisited++

		pageRes, err := w.extractor.FromHTML(body, finalURL)
		if err != nil {
			pageFailed = true
			crawlResult.Errors = append(crawlResult.Errors, model.CrawlError{URL: finalURL, Message: err.Error()})
			continue
		}

		for _, c := range pageRes.Candidates {
			candidates = append(candidates, c)
			switch c.Type {
			case model.ContactTypeEmail:
				if !emailSeen[c.Value] {
					emailSeen[c.Value] = true
					crawlResult.Emails = append(crawlResult.Emails, c.Value)
				}
			case model.ContactTypePhone, model.ContactTypeMobile:
				if !phoneSeen[c.Value] {
					phoneSeen[c.Value] = true
					crawlResult.Phones = append(crawlResult.Phones, c.Value)
				}
			}
		}
		if extract.PageTypeFor(finalURL) == model.PageTypeContact {
			crawlResult.ContactPages = append(crawlResult.ContactPages, finalURL)
		}
		if item.depth == 0 {
			socials = append(socials, pageRes.Socials...)
		}

		if item.depth < maxDepth {
			for _, link := range pageLinks(body, base) {
				canonical, err := Canonicalize(link)
				if err != nil || visited[canonical] {
					continue
				}
				linkURL, err := url.Parse(canonical)
				if err != nil || !SameSite(linkURL.Host, base.Host) {
					continue
				}
				if w.matcher.IsExcluded(canonical) {
					continue
				}
				visited[canonical] = true
				queue = append(queue, queueItem{url: canonical, depth: item.depth + 1})
			}
		}

		// Politeness delay between sequential fetches.
		if len(queue) > 0 && delay > 0 {
			select {
			case <-crawlCtx.Done():
				timedOut = true
			case <-time.After(delay):
			}
			if timedOut {
				break
			}
		}
	}

	switch {
	case timedOut:
		crawlResult.Status = model.CrawlStatusPartial
		crawlResult.Gated = true
		crawlResult.Errors = append(crawlResult.Errors, model.CrawlError{
			Message: "crawl wall-clock timeout reached; result is final and will not be retried",
			NoRetry: true,
		})
	case crawlResult.PagesVisited == 0:
		crawlResult.Status = model.CrawlStatusNotCrawled
	case len(queue) > 0:
		// Page cap hit with candidates remaining: truncated by plan limit.
		crawlResult.Status = model.CrawlStatusPartial
		crawlResult.Gated = true
	case pageFailed:
		crawlResult.Status = model.CrawlStatusPartial
	default:
		crawlResult.Status = model.CrawlStatusCompleted
	}

	return candidates, socials
}

// fetch retrieves one page with the per-page timeout. Non-200 responses are
// reported as errors so the caller records them without aborting the crawl.
func (w *Worker) fetch(ctx context.Context, pageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", w.cfg.UserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, "", eris.Wrap(err, "fetch page")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", eris.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, pageMaxBytes))
	if err != nil {
		return nil, "", eris.Wrap(err, "read body")
	}

	return body, resp.Request.URL.String(), nil
}

func setSocial(s *model.SocialLinks, link extract.SocialLink) {
	switch link.Platform {
	case "facebook":
		if s.Facebook == "" {
			s.Facebook = link.URL
		}
	case "instagram":
		if s.Instagram == "" {
			s.Instagram = link.URL
		}
	case "linkedin":
		if s.LinkedIn == "" {
			s.LinkedIn = link.URL
		}
	case "twitter":
		if s.Twitter == "" {
			s.Twitter = link.URL
		}
	case "youtube":
		if s.YouTube == "" {
			s.YouTube = link.URL
		}
	}
}
