package model

import "time"

// CrawlStatus represents the terminal state of a crawl.
type CrawlStatus string

const (
	CrawlStatusNotCrawled CrawlStatus = "not_crawled"
	CrawlStatusPartial    CrawlStatus = "partial"
	CrawlStatusCompleted  CrawlStatus = "completed"
	CrawlStatusBlocked    CrawlStatus = "blocked"
)

// SocialLinks holds per-platform profile URLs found on the homepage.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// CrawlError records a per-page failure that did not abort the crawl.
type CrawlError struct {
	URL     string `json:"url,omitempty"`
	Message string `json:"message"`
	NoRetry bool   `json:"no_retry,omitempty"`
}

// CrawlResult is the current crawl outcome for one business within one
// dataset. It is upserted on every crawl, not appended.
type CrawlResult struct {
	BusinessID   string       `json:"business_id"`
	DatasetID    string       `json:"dataset_id"`
	WebsiteURL   string       `json:"website_url"`
	Status       CrawlStatus  `json:"crawl_status"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	PagesVisited int          `json:"pages_visited"`
	Emails       []string     `json:"emails"`
	Phones       []string     `json:"phones"`
	ContactPages []string     `json:"contact_pages"`
	Social       SocialLinks  `json:"social"`
	Errors       []CrawlError `json:"errors,omitempty"`
	Gated        bool         `json:"gated"`
	UpgradeHint  string       `json:"upgrade_hint,omitempty"`
}
