package pricing

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
)

// GateAction names a per-request limit dimension.
type GateAction string

const (
	GateExportRows GateAction = "export_rows"
	GateCrawlPages GateAction = "crawl_pages"
	GateCities     GateAction = "cities_per_dataset"
)

// Decision is the outcome of a gate check. Workers that receive a denied
// decision truncate to Limit (per-request gates) or abort before doing any
// expensive work (usage gates); they never throw.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Limit       int    `json:"limit"`
	Reason      string `json:"reason,omitempty"`
	UpgradeHint string `json:"upgrade_hint,omitempty"`
}

// CheckGate is the stateless per-request gate: it compares a requested
// quantity against the plan's limit for the action. Internal users pass
// unconditionally with the requested quantity as the limit.
func CheckGate(perms model.UserPermissions, action GateAction, requested int) Decision {
	if perms.IsInternalUser {
		return Decision{Allowed: true, Limit: requested}
	}

	limit := gateLimit(perms.Plan, action)
	if requested <= limit {
		return Decision{Allowed: true, Limit: limit}
	}

	return Decision{
		Allowed:     false,
		Limit:       limit,
		Reason:      fmt.Sprintf("%s plan allows %d %s, requested %d", perms.Plan, limit, actionNoun(action), requested),
		UpgradeHint: upgradeHint(perms.Plan),
	}
}

// AssertGate is the fail-fast form of CheckGate for call sites that want
// pre-validation (CLI tools). Pipeline workers use CheckGate and truncate.
func AssertGate(perms model.UserPermissions, action GateAction, requested int) error {
	d := CheckGate(perms, action, requested)
	if d.Allowed {
		return nil
	}
	if d.UpgradeHint != "" {
		return eris.Errorf("pricing: %s (%s)", d.Reason, d.UpgradeHint)
	}
	return eris.Errorf("pricing: %s", d.Reason)
}

// CheckUsage is the monthly gate: it compares a calendar-month counter
// against the plan's ceiling for the action. A denied decision means the
// caller must abort the operation before any partial work.
func CheckUsage(perms model.UserPermissions, action model.Action, currentUsage int) Decision {
	if perms.IsInternalUser {
		return Decision{Allowed: true, Limit: currentUsage + 1}
	}

	limit := usageLimit(perms.Plan, action)
	if currentUsage < limit {
		return Decision{Allowed: true, Limit: limit}
	}

	return Decision{
		Allowed:     false,
		Limit:       limit,
		Reason:      fmt.Sprintf("monthly %s limit of %d reached on the %s plan", action, limit, perms.Plan),
		UpgradeHint: upgradeHint(perms.Plan),
	}
}

func gateLimit(p model.Plan, action GateAction) int {
	l := PlanLimits(p)
	switch action {
	case GateExportRows:
		return l.MaxExportRows
	case GateCrawlPages:
		return l.MaxCrawlPages
	case GateCities:
		return l.MaxCitiesPerDataset
	default:
		return 0
	}
}

func usageLimit(p model.Plan, action model.Action) int {
	l := PlanLimits(p)
	switch action {
	case model.ActionExport:
		return l.MonthlyExports
	case model.ActionCrawl:
		return l.MonthlyCrawls
	case model.ActionDiscover:
		return l.MonthlyDatasets
	default:
		return 0
	}
}

func actionNoun(action GateAction) string {
	switch action {
	case GateExportRows:
		return "export rows"
	case GateCrawlPages:
		return "crawl pages"
	case GateCities:
		return "cities per dataset"
	default:
		return string(action)
	}
}

func upgradeHint(p model.Plan) string {
	next := p.NextTier()
	if next == "" {
		return ""
	}
	return fmt.Sprintf("upgrade to %s for higher limits", next)
}
