package pricing

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
)

// PermissionsResolver resolves a user's effective permissions from the
// subscription source of truth. Workers resolve fresh on every gated
// operation; client-supplied plan values are never trusted.
type PermissionsResolver interface {
	Resolve(ctx context.Context, userID string) (model.UserPermissions, error)
}

// UsageStore reads and advances the per-user monthly usage counters.
type UsageStore interface {
	Usage(ctx context.Context, userID, month string) (model.UsageCounters, error)
	IncrementUsage(ctx context.Context, userID, month string, action model.Action) error
}

// StaticResolver resolves every user to a fixed plan. Used by CLI invocations
// and tests where there is no subscription backend.
type StaticResolver struct {
	Plan     model.Plan
	Internal bool
}

// Resolve implements PermissionsResolver.
func (r StaticResolver) Resolve(_ context.Context, userID string) (model.UserPermissions, error) {
	if userID == "" {
		return model.UserPermissions{}, eris.New("pricing: user id is required")
	}
	return PermissionsForPlan(userID, r.Plan, r.Internal), nil
}
