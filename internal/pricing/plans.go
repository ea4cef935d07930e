// Package pricing implements the plan-based quota gates shared by every
// pipeline stage. Gate decisions are plain values: quota violations are never
// errors in the hot path.
package pricing

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/scoutline/leadscout/internal/model"
)

//go:embed plans.yaml
var plansYAML []byte

// Limits is the ceiling set for one plan.
type Limits struct {
	MaxExportRows       int  `yaml:"max_export_rows"`
	MaxCrawlPages       int  `yaml:"max_crawl_pages"`
	MaxCitiesPerDataset int  `yaml:"max_cities_per_dataset"`
	MonthlyExports      int  `yaml:"monthly_exports"`
	MonthlyCrawls       int  `yaml:"monthly_crawls"`
	MonthlyDatasets     int  `yaml:"monthly_datasets"`
	CanRefresh          bool `yaml:"can_refresh"`
}

var planTable = mustLoadPlans()

func mustLoadPlans() map[model.Plan]Limits {
	var table map[model.Plan]Limits
	if err := yaml.Unmarshal(plansYAML, &table); err != nil {
		panic(fmt.Sprintf("pricing: embedded plan table is malformed: %v", err))
	}
	for _, p := range []model.Plan{model.PlanDemo, model.PlanStarter, model.PlanPro} {
		if _, ok := table[p]; !ok {
			panic(fmt.Sprintf("pricing: embedded plan table is missing plan %q", p))
		}
	}
	return table
}

// PlanLimits returns the limit set for a plan. Unknown plans fall back to
// demo, the most restrictive tier.
func PlanLimits(p model.Plan) Limits {
	if l, ok := planTable[p]; ok {
		return l
	}
	return planTable[model.PlanDemo]
}

// PermissionsForPlan builds the effective permission set for a plan from the
// plan table.
func PermissionsForPlan(userID string, p model.Plan, internal bool) model.UserPermissions {
	l := PlanLimits(p)
	return model.UserPermissions{
		UserID:         userID,
		Plan:           p,
		MaxExportRows:  l.MaxExportRows,
		MaxCrawlPages:  l.MaxCrawlPages,
		MaxDatasets:    l.MonthlyDatasets,
		CanRefresh:     l.CanRefresh,
		IsInternalUser: internal,
	}
}
