package services

import (
	"context"

	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

// authorizeBillingFn is swapped out in tests to isolate service logic from
// policy files.
var authorizeBillingFn = func(ctx context.Context, object, action string) error {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	return authz.Use().Authorize(ctx, authz.NewRequest(
		authz.SubjectForRole(u.RoleName()),
		authz.DomainFromTenant(tenantID),
		object,
		authz.NormalizeAction(action),
	))
}
