// Package snapshot reads and writes serialized configuration trees, letting
// the planner run against captured files instead of a live store. Snapshot
// stores are read-only: any apply fails with ErrReadOnlyStore, so snapshots
// pair with --dry-run.
package snapshot

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/panos-tools/dpmigrate/models"
)

// Snapshot is the serialized form of the configuration trees and clusters
// captured from a store.
type Snapshot struct {
	// Tenants are the captured tenant trees.
	Tenants []*models.Tenant `yaml:"tenants"`

	// Clusters are the captured cluster attachments, including infra-level
	// device managers and chassis.
	Clusters []models.Cluster `yaml:"clusters,omitempty"`
}

// Store serves captured snapshot data through the same interface as the live
// store client.
type Store struct {
	snap Snapshot
}

// Load reads one or more snapshot files and merges them into a single store.
// Later files append tenants and clusters; duplicate tenant names are
// rejected so a stale capture cannot silently shadow a newer one.
func Load(paths ...string) (*Store, error) {
	var merged Snapshot
	seen := make(map[string]bool)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", path, err)
		}
		var snap Snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
		}
		for _, t := range snap.Tenants {
			if seen[t.Name] {
				return nil, fmt.Errorf("snapshot %s: tenant %q already loaded from another file", path, t.Name)
			}
			seen[t.Name] = true
			merged.Tenants = append(merged.Tenants, t)
		}
		merged.Clusters = append(merged.Clusters, snap.Clusters...)
	}

	return &Store{snap: merged}, nil
}

// Write captures a snapshot to a file, for later offline planning.
func Write(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// ListTenants returns the captured tenant names.
func (s *Store) ListTenants(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(s.snap.Tenants))
	for _, t := range s.snap.Tenants {
		names = append(names, t.Name)
	}
	return names, nil
}

// ListAppProfiles returns the captured profile names for the tenant.
func (s *Store) ListAppProfiles(ctx context.Context, tenant string) ([]string, error) {
	t := s.find(tenant)
	if t == nil {
		return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
	}
	names := make([]string, 0, len(t.AppProfiles))
	for _, app := range t.AppProfiles {
		names = append(names, app.Name)
	}
	return names, nil
}

// LoadTenant returns a deep copy of the captured tenant tree. Callers mutate
// their copy freely without touching the snapshot.
func (s *Store) LoadTenant(ctx context.Context, tenant string) (*models.Tenant, error) {
	t := s.find(tenant)
	if t == nil {
		return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
	}
	return t.Clone(), nil
}

// ListClusters returns the captured clusters visible from the tenant:
// tenant-owned attachments plus infra-level ones.
func (s *Store) ListClusters(ctx context.Context, tenant string) ([]models.Cluster, error) {
	var out []models.Cluster
	for _, c := range s.snap.Clusters {
		if c.Tenant == "" || c.Tenant == tenant {
			out = append(out, c)
		}
	}
	return out, nil
}

// Apply always fails: snapshots only support dry-run planning.
func (s *Store) Apply(ctx context.Context, op models.Op) error {
	return fmt.Errorf("%s: %w", op.Describe(), models.ErrReadOnlyStore)
}

func (s *Store) find(tenant string) *models.Tenant {
	for _, t := range s.snap.Tenants {
		if t.Name == tenant {
			return t
		}
	}
	return nil
}
