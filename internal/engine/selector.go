package engine

import (
	"context"

	"github.com/panos-tools/dpmigrate/internal/tree"
	"github.com/panos-tools/dpmigrate/models"
)

// ScopeSelector resolves the tenant and application profile a migration acts
// on. The CLI injects either an explicit selector (names given as flags) or
// an interactive one (terminal picker); the engine never branches on which.
type ScopeSelector interface {
	// SelectTenant picks a tenant from the candidates.
	SelectTenant(ctx context.Context, candidates []string) (string, error)

	// SelectApp picks an application profile of the tenant from the
	// candidates.
	SelectApp(ctx context.Context, tenant string, candidates []string) (string, error)
}

// ExplicitSelector returns preset names. A missing name fails with
// AmbiguousSelectionError carrying the candidates, signalling the caller to
// fall back to prompting; a name absent from the candidates fails with
// NotFoundError.
type ExplicitSelector struct {
	Tenant string
	App    string
}

// SelectTenant returns the preset tenant name.
func (s ExplicitSelector) SelectTenant(ctx context.Context, candidates []string) (string, error) {
	return pick("tenant", s.Tenant, candidates)
}

// SelectApp returns the preset application profile name.
func (s ExplicitSelector) SelectApp(ctx context.Context, tenant string, candidates []string) (string, error) {
	return pick("app profile", s.App, candidates)
}

func pick(kind, name string, candidates []string) (string, error) {
	if name == "" {
		return "", &models.AmbiguousSelectionError{Kind: kind, Candidates: candidates}
	}
	for _, c := range candidates {
		if c == name {
			return name, nil
		}
	}
	return "", &models.NotFoundError{Kind: kind, Name: name}
}

// ResolveScope resolves the migration scope using the selector. The
// application profile is only resolved when needApp is set; the clusters
// phase operates tenant-wide.
func ResolveScope(ctx context.Context, st tree.Store, sel ScopeSelector, needApp bool) (tree.Scope, error) {
	tenants, err := st.ListTenants(ctx)
	if err != nil {
		return tree.Scope{}, err
	}
	tenant, err := sel.SelectTenant(ctx, tenants)
	if err != nil {
		return tree.Scope{}, err
	}

	scope := tree.Scope{Tenant: tenant}
	if !needApp {
		return scope, nil
	}

	apps, err := st.ListAppProfiles(ctx, tenant)
	if err != nil {
		return tree.Scope{}, err
	}
	scope.App, err = sel.SelectApp(ctx, tenant, apps)
	if err != nil {
		return tree.Scope{}, err
	}
	return scope, nil
}
