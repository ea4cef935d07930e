package model

import "time"

// Business represents a discovered local business.
type Business struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Industry       string    `json:"industry"`
	PlaceID        string    `json:"place_id"`
	DatasetID      string    `json:"dataset_id"`
	UserID         string    `json:"user_id"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Website is the crawl target associated with a business. One website per
// business in the general case.
type Website struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"business_id"`
	URL           string     `json:"url"`
	LastCrawledAt *time.Time `json:"last_crawled_at,omitempty"`
}

// Dataset groups the businesses discovered for one (city, industry) pair.
type Dataset struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	City            string     `json:"city"`
	Industry        string     `json:"industry"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DatasetReuseWindow is how long a dataset stays fresh. Discovery reuses an
// existing dataset for the same (city, industry) within this window instead
// of creating a new one.
const DatasetReuseWindow = 30 * 24 * time.Hour

// Fresh reports whether the dataset was refreshed within the reuse window.
func (d *Dataset) Fresh(now time.Time) bool {
	if d.LastRefreshedAt == nil {
		return false
	}
	return now.Sub(*d.LastRefreshedAt) <= DatasetReuseWindow
}
