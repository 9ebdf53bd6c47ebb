package apictest

import (
	"context"
	"fmt"

	"github.com/panos-tools/dpmigrate/internal/tree"
	"github.com/panos-tools/dpmigrate/models"
)

// directStore adapts a fake Server to tree.Store without going through HTTP.
// It shares the server's state and failure injection, so a test can mix SDK
// traffic and direct calls against the same trees.
type directStore struct {
	s *Server
}

var _ tree.Store = (*directStore)(nil)

func (d *directStore) ListTenants(ctx context.Context) ([]string, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	names := make([]string, 0, len(d.s.tenants))
	for name := range d.s.tenants {
		names = append(names, name)
	}
	return names, nil
}

func (d *directStore) ListAppProfiles(ctx context.Context, tenant string) ([]string, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	t, ok := d.s.tenants[tenant]
	if !ok {
		return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
	}
	names := make([]string, 0, len(t.AppProfiles))
	for _, app := range t.AppProfiles {
		names = append(names, app.Name)
	}
	return names, nil
}

func (d *directStore) LoadTenant(ctx context.Context, tenant string) (*models.Tenant, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	t, ok := d.s.tenants[tenant]
	if !ok {
		return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
	}
	return t.Clone(), nil
}

func (d *directStore) ListClusters(ctx context.Context, tenant string) ([]models.Cluster, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if _, ok := d.s.tenants[tenant]; !ok {
		return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
	}
	return append([]models.Cluster(nil), d.s.clusters[tenant]...), nil
}

func (d *directStore) Apply(ctx context.Context, op models.Op) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	d.s.opCount++
	if d.s.failAfter > 0 && d.s.opCount == d.s.failAfter {
		return fmt.Errorf("apply %s: injected store fault", op.Describe())
	}

	if op.Type == models.OpUpdateCluster {
		if err := d.s.applyClusterOp(op); err != nil {
			return err
		}
	} else {
		t, ok := d.s.tenants[op.Path.Tenant]
		if !ok {
			return &models.NotFoundError{Kind: "tenant", Name: op.Path.Tenant}
		}
		if err := tree.Apply(t, op); err != nil {
			return err
		}
	}

	d.s.applied = append(d.s.applied, op)
	return nil
}
