package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContactKey_Email(t *testing.T) {
	a := Contact{BusinessID: "b1", Type: ContactTypeEmail, Value: "Info@Example.com"}
	b := Contact{BusinessID: "b1", Type: ContactTypeEmail, Value: "info@example.com"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestContactKey_PhoneDigitsOnly(t *testing.T) {
	a := Contact{BusinessID: "b1", Type: ContactTypePhone, Value: "+1 (415) 555-0100"}
	b := Contact{BusinessID: "b1", Type: ContactTypePhone, Value: "+14155550100"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestContactKey_DifferentBusiness(t *testing.T) {
	a := Contact{BusinessID: "b1", Type: ContactTypeEmail, Value: "x@y.com"}
	b := Contact{BusinessID: "b2", Type: ContactTypeEmail, Value: "x@y.com"}
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestDatasetFresh(t *testing.T) {
	now := time.Now().UTC()

	recent := now.Add(-10 * 24 * time.Hour)
	stale := now.Add(-40 * 24 * time.Hour)

	assert.True(t, (&Dataset{LastRefreshedAt: &recent}).Fresh(now))
	assert.False(t, (&Dataset{LastRefreshedAt: &stale}).Fresh(now))
	assert.False(t, (&Dataset{}).Fresh(now))
}

func TestPlanNextTier(t *testing.T) {
	assert.Equal(t, PlanStarter, PlanDemo.NextTier())
	assert.Equal(t, PlanPro, PlanStarter.NextTier())
	assert.Equal(t, Plan(""), PlanPro.NextTier())
}

func TestUsageMonth(t *testing.T) {
	ts := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-08", UsageMonth(ts))
}

func TestUsageCountersCount(t *testing.T) {
	u := UsageCounters{Exports: 3, Crawls: 7, DatasetsCreated: 2}
	assert.Equal(t, 3, u.Count(ActionExport))
	assert.Equal(t, 7, u.Count(ActionCrawl))
	assert.Equal(t, 2, u.Count(ActionDiscover))
	assert.Equal(t, 0, u.Count(Action("unknown")))
}
