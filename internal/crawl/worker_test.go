package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/changes"
	"github.com/scoutline/leadscout/internal/config"
	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/pricing"
)

type memStore struct {
	mu       sync.Mutex
	dataset  *model.Dataset
	business *model.Business
	contacts []model.Contact
	diff     *changes.Diff
	result   *model.CrawlResult
	touched  time.Time
}

func (s *memStore) GetDataset(_ context.Context, id string) (*model.Dataset, error) {
	if s.dataset == nil || s.dataset.ID != id {
		return nil, assert.AnError
	}
	return s.dataset, nil
}

func (s *memStore) GetBusiness(_ context.Context, id string) (*model.Business, error) {
	if s.business == nil || s.business.ID != id {
		return nil, assert.AnError
	}
	return s.business, nil
}

func (s *memStore) ListContacts(_ context.Context, _ string) ([]model.Contact, error) {
	return s.contacts, nil
}

func (s *memStore) ApplyContactDiff(_ context.Context, diff *changes.Diff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diff = diff
	return nil
}

func (s *memStore) UpsertCrawlResult(_ context.Context, result *model.CrawlResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	return nil
}

func (s *memStore) TouchWebsite(_ context.Context, _ string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = at
	return nil
}

type memUsage struct {
	mu       sync.Mutex
	counters model.UsageCounters
	incs     []model.Action
}

func (u *memUsage) Usage(_ context.Context, userID, month string) (model.UsageCounters, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	c := u.counters
	c.UserID = userID
	c.Month = month
	return c, nil
}

func (u *memUsage) IncrementUsage(_ context.Context, _, _ string, action model.Action) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.incs = append(u.incs, action)
	return nil
}

func testCrawlConfig() config.CrawlConfig {
	return config.CrawlConfig{
		MaxConcurrent:    2,
		MaxDepth:         2,
		PageTimeoutSecs:  5,
		TotalTimeoutSecs: 30,
		FetchDelayMillis: 0,
		UserAgent:        "LeadScoutBot/1.0 (test)",
	}
}

func newTestRequest(srvURL string) (Request, *memStore) {
	biz := uuid.New().String()
	ds := uuid.New().String()
	store := &memStore{
		dataset:  &model.Dataset{ID: ds, UserID: "user-1"},
		business: &model.Business{ID: biz, DatasetID: ds, UserID: "user-1"},
	}
	return Request{
		BusinessID: biz,
		DatasetID:  ds,
		WebsiteURL: srvURL,
		UserID:     "user-1",
	}, store
}

func TestCrawlExtractsContactsAcrossPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/contact">Contact us</a>
			<a href="https://www.facebook.com/acmeplumbing">Facebook</a>
			<footer>info@acme.example</footer>
		</body></html>`))
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="mailto:owner@acme.example">Email the owner</a>
			<p>Call us: (415) 555-0100</p>
		</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, store := newTestRequest(srv.URL)
	usage := &memUsage{}
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, usage, NewPool(2), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success)

	cr := store.result
	require.NotNil(t, cr)
	assert.Equal(t, model.CrawlStatusCompleted, cr.Status)
	assert.Equal(t, 2, cr.PagesVisited)
	assert.Contains(t, cr.Emails, "info@acme.example")
	assert.Contains(t, cr.Emails, "owner@acme.example")
	assert.Contains(t, cr.Phones, "+14155550100")
	require.Len(t, cr.ContactPages, 1)
	assert.Contains(t, cr.ContactPages[0], "/contact")
	assert.Equal(t, "https://www.facebook.com/acmeplumbing", cr.Social.Facebook)
	assert.False(t, cr.Gated)

	require.NotNil(t, store.diff)
	assert.Equal(t, 3, res.ContactsAdded)
	assert.Zero(t, res.ContactsVerified)
	assert.Zero(t, res.ContactsDeactivated)

	assert.Equal(t, []model.Action{model.ActionCrawl}, usage.incs)
	assert.False(t, store.touched.IsZero())
}

func TestCrawlRobotsBlocked(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Error("page fetched despite robots disallow")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, store := newTestRequest(srv.URL)
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanPro}, &memUsage{}, NewPool(1), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)

	cr := store.result
	require.NotNil(t, cr)
	assert.Equal(t, model.CrawlStatusBlocked, cr.Status)
	assert.Zero(t, cr.PagesVisited)
	assert.Empty(t, cr.Emails)
	assert.Nil(t, store.diff, "no contact diff for a blocked site")
}

func TestCrawlPageCapMarksPartialAndGated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/p/1">1</a><a href="/p/2">2</a><a href="/p/3">3</a>
			<a href="/p/4">4</a><a href="/p/5">5</a><a href="/p/6">6</a>
			<a href="/p/7">7</a><a href="/p/8">8</a><a href="/p/9">9</a>
		</body></html>`))
	})
	mux.HandleFunc("/p/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing here</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, store := newTestRequest(srv.URL)
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanDemo}, &memUsage{}, NewPool(1), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success)

	cr := store.result
	require.NotNil(t, cr)
	assert.Equal(t, 5, cr.PagesVisited, "demo plan caps at 5 pages")
	assert.Equal(t, model.CrawlStatusPartial, cr.Status)
	assert.True(t, cr.Gated)
	assert.Equal(t, "upgrade to starter for higher limits", cr.UpgradeHint)
}

func TestCrawlWallClockTimeoutMarksPartialFinal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/team">Team</a>
			<p>info@acme.example</p>
		</body></html>`))
	})
	mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testCrawlConfig()
	cfg.TotalTimeoutSecs = 1
	cfg.PageTimeoutSecs = 2

	req, store := newTestRequest(srv.URL)
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, NewPool(1), cfg)

	begin := time.Now()
	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err, "hitting the wall clock is a persisted result, not an error")
	require.True(t, res.Success)
	assert.Less(t, time.Since(begin), 3*time.Second)

	cr := store.result
	require.NotNil(t, cr)
	assert.Equal(t, model.CrawlStatusPartial, cr.Status)
	assert.True(t, cr.Gated)
	assert.Equal(t, 1, cr.PagesVisited, "only the homepage completed before the deadline")
	assert.Contains(t, cr.Emails, "info@acme.example")

	require.NotEmpty(t, cr.Errors)
	last := cr.Errors[len(cr.Errors)-1]
	assert.True(t, last.NoRetry, "a timed-out crawl is final")
	assert.Contains(t, last.Message, "wall-clock timeout")
}

func TestCrawlUnreachableSiteStaysNotCrawled(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	dead := srv.URL
	srv.Close()

	req, store := newTestRequest(dead)
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, NewPool(1), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success)

	cr := store.result
	require.NotNil(t, cr)
	assert.Equal(t, model.CrawlStatusNotCrawled, cr.Status)
	assert.Zero(t, cr.PagesVisited, "a failed fetch is not a visited page")
	require.Len(t, cr.Errors, 1)
	assert.Contains(t, cr.Errors[0].URL, "127.0.0.1")
}

func TestCrawlDepthCeiling(t *testing.T) {
	fetched := make(map[string]bool)
	var mu sync.Mutex
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		mu.Lock()
		fetched[r.URL.Path] = true
		mu.Unlock()
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`<a href="/a">a</a>`))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`<a href="/a/b">b</a>`))
	})
	mux.HandleFunc("/a/b", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`<a href="/a/b/c">c</a>`))
	})
	mux.HandleFunc("/a/b/c", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte("too deep"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, store := newTestRequest(srv.URL)
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanPro}, &memUsage{}, NewPool(1), testCrawlConfig())

	_, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, fetched["/"])
	assert.True(t, fetched["/a"])
	assert.True(t, fetched["/a/b"])
	assert.False(t, fetched["/a/b/c"], "links two hops below the homepage are not followed")
}

func TestCrawlVerifiesAndDeactivatesContacts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>info@acme.example</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, store := newTestRequest(srv.URL)
	earlier := time.Now().Add(-48 * time.Hour)
	store.contacts = []model.Contact{
		{
			ID: uuid.New().String(), BusinessID: req.BusinessID,
			Type: model.ContactTypeEmail, Value: "info@acme.example",
			IsActive: true, FirstSeenAt: earlier, LastVerifiedAt: earlier,
		},
		{
			ID: uuid.New().String(), BusinessID: req.BusinessID,
			Type: model.ContactTypeEmail, Value: "old@acme.example",
			IsActive: true, FirstSeenAt: earlier, LastVerifiedAt: earlier,
		},
	}

	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, NewPool(1), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, res.ContactsAdded)
	assert.Equal(t, 1, res.ContactsVerified)
	assert.Equal(t, 1, res.ContactsDeactivated)

	require.NotNil(t, store.diff)
	require.Len(t, store.diff.Deactivated, 1)
	assert.Equal(t, "old@acme.example", store.diff.Deactivated[0].Value)
	assert.False(t, store.diff.Deactivated[0].IsActive)
}

func TestCrawlMonthlyQuotaDenied(t *testing.T) {
	req, store := newTestRequest("https://acme.example")
	usage := &memUsage{counters: model.UsageCounters{Crawls: 10}}
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanDemo}, usage, NewPool(1), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err, "quota denial is a result, not an error")
	assert.False(t, res.Success)
	assert.True(t, res.Gated)
	assert.Contains(t, res.Reason, "monthly crawl limit")
	assert.Equal(t, "upgrade to starter for higher limits", res.UpgradeHint)
	assert.Nil(t, store.result, "nothing is persisted on a quota denial")
	assert.Empty(t, usage.incs)
}

func TestCrawlUnparseableWebsiteURL(t *testing.T) {
	req, store := newTestRequest("https://exa mple.com")
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, NewPool(1), testCrawlConfig())

	res, err := w.Crawl(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Success)

	cr := store.result
	require.NotNil(t, cr)
	assert.Equal(t, model.CrawlStatusNotCrawled, cr.Status)
	require.Len(t, cr.Errors, 1)
	assert.True(t, cr.Errors[0].NoRetry)
}

func TestCrawlRejectsOwnershipMismatch(t *testing.T) {
	req, store := newTestRequest("https://acme.example")
	store.dataset.UserID = "someone-else"
	w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, NewPool(1), testCrawlConfig())

	_, err := w.Crawl(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not owned")
}

func TestCrawlRejectsMalformedIDs(t *testing.T) {
	w := NewWorker(&memStore{}, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, NewPool(1), testCrawlConfig())

	_, err := w.Crawl(context.Background(), Request{BusinessID: "42", DatasetID: uuid.New().String(), UserID: "u"})
	require.Error(t, err)

	_, err = w.Crawl(context.Background(), Request{BusinessID: uuid.New().String(), DatasetID: "nope", UserID: "u"})
	require.Error(t, err)
}

func TestCrawlSharedPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(2)
	var peak, inFlight int64
	var mu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		w.Write([]byte("<html><body>hello</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, store := newTestRequest(srv.URL)
			w := NewWorker(store, pricing.StaticResolver{Plan: model.PlanStarter}, &memUsage{}, pool, testCrawlConfig())
			_, err := w.Crawl(context.Background(), req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, int64(2), "page fetches never exceed the slot count")
	assert.Zero(t, pool.Active(), "all slots released")
}
