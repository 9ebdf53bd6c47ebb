// Package tree provides the in-memory configuration tree model: loading a
// tenant's folder/parameter hierarchy from a store, diffing two snapshots
// into a change set, and applying single operations to an in-memory tree.
package tree

import (
	"context"

	"github.com/panos-tools/dpmigrate/models"
)

// Store is the remote configuration store as seen by the migration engine.
// The SDK client implements it against the live store; the snapshot package
// implements a read-only variant over captured files.
type Store interface {
	// ListTenants returns the names of all tenants.
	ListTenants(ctx context.Context) ([]string, error)

	// ListAppProfiles returns the names of the tenant's application profiles.
	ListAppProfiles(ctx context.Context, tenant string) ([]string, error)

	// LoadTenant fetches the tenant's full folder/parameter hierarchy.
	LoadTenant(ctx context.Context, tenant string) (*models.Tenant, error)

	// ListClusters returns the L4-7 clusters visible from the tenant,
	// including infra-level device-manager and chassis attachments.
	ListClusters(ctx context.Context, tenant string) ([]models.Cluster, error)

	// Apply executes a single mutation against the store.
	Apply(ctx context.Context, op models.Op) error
}

// Scope selects the tenant and, for parameter-phase operations, the
// application profile a migration acts on.
type Scope struct {
	Tenant string
	App    string
}

// Load fetches the current tree for the scope. It fails with
// AmbiguousSelectionError when the tenant is unspecified and with
// NotFoundError when the named application profile does not exist.
func Load(ctx context.Context, st Store, scope Scope) (*models.Tenant, error) {
	if scope.Tenant == "" {
		names, err := st.ListTenants(ctx)
		if err != nil {
			return nil, err
		}
		return nil, &models.AmbiguousSelectionError{Kind: "tenant", Candidates: names}
	}

	tenant, err := st.LoadTenant(ctx, scope.Tenant)
	if err != nil {
		return nil, err
	}

	if scope.App != "" && tenant.AppProfile(scope.App) == nil {
		return nil, &models.NotFoundError{Kind: "app profile", Name: scope.App}
	}

	return tenant, nil
}
