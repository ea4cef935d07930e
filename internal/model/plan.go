package model

import "time"

// Plan is a subscription tier.
type Plan string

const (
	PlanDemo    Plan = "demo"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
)

// NextTier returns the plan one tier up, or empty at the top tier. Used to
// build upgrade hints on gated results.
func (p Plan) NextTier() Plan {
	switch p {
	case PlanDemo:
		return PlanStarter
	case PlanStarter:
		return PlanPro
	default:
		return ""
	}
}

// UserPermissions is the effective entitlement set for a user, resolved
// fresh from the subscription source of truth on every gated operation.
type UserPermissions struct {
	UserID         string `json:"user_id"`
	Plan           Plan   `json:"plan"`
	MaxExportRows  int    `json:"max_export_rows"`
	MaxCrawlPages  int    `json:"max_crawl_pages"`
	MaxDatasets    int    `json:"max_datasets"`
	CanRefresh     bool   `json:"can_refresh"`
	IsInternalUser bool   `json:"is_internal_user"`
}

// Action names a metered pipeline operation.
type Action string

const (
	ActionExport   Action = "export"
	ActionCrawl    Action = "crawl"
	ActionDiscover Action = "discover"
)

// UsageCounters tracks per-user metered actions for one calendar month.
type UsageCounters struct {
	UserID          string    `json:"user_id"`
	Month           string    `json:"month"` // "2026-08"
	Exports         int       `json:"exports"`
	Crawls          int       `json:"crawls"`
	DatasetsCreated int       `json:"datasets_created"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UsageMonth formats a time as the calendar-month key used by UsageCounters.
func UsageMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Count returns the counter for the given action.
func (u UsageCounters) Count(a Action) int {
	switch a {
	case ActionExport:
		return u.Exports
	case ActionCrawl:
		return u.Crawls
	case ActionDiscover:
		return u.DatasetsCreated
	default:
		return 0
	}
}
