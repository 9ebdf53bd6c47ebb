package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/panos-tools/dpmigrate/internal/apictest"
	"github.com/panos-tools/dpmigrate/models"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.yaml")
	snap := Snapshot{
		Tenants:  []*models.Tenant{apictest.LegacyTenant("acme", "web")},
		Clusters: apictest.SourceClusters("acme", "web"),
	}
	if err := Write(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	names, err := store.ListTenants(ctx)
	if err != nil || len(names) != 1 || names[0] != "acme" {
		t.Fatalf("tenants = %v, err = %v", names, err)
	}

	tenant, err := store.LoadTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("load tenant: %v", err)
	}
	layer := tenant.AppProfiles[0].EPGs[0].Folders[0].Folders[0]
	if p := layer.Param(models.ParamSecurityZone); p == nil || p.Value != "DMZ" {
		t.Fatalf("round trip lost a parameter: %+v", layer.Parameters)
	}

	clusters, err := store.ListClusters(ctx, "acme")
	if err != nil || len(clusters) != 3 {
		t.Fatalf("clusters = %d, err = %v", len(clusters), err)
	}
}

func TestLoadRejectsDuplicateTenant(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	snap := Snapshot{Tenants: []*models.Tenant{apictest.LegacyTenant("acme", "web")}}
	if err := Write(a, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Write(b, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(a, b); err == nil {
		t.Fatal("expected duplicate tenant rejection")
	}
}

func TestLoadTenantReturnsACopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.yaml")
	snap := Snapshot{Tenants: []*models.Tenant{apictest.LegacyTenant("acme", "web")}}
	if err := Write(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	first, _ := store.LoadTenant(ctx, "acme")
	first.AppProfiles[0].EPGs[0].Folders = nil

	second, _ := store.LoadTenant(ctx, "acme")
	if len(second.AppProfiles[0].EPGs[0].Folders) == 0 {
		t.Fatal("mutating a loaded tenant leaked into the snapshot")
	}
}

func TestApplyFailsReadOnly(t *testing.T) {
	store := &Store{}
	err := store.Apply(context.Background(), models.Op{
		Type:   models.OpCreateFolder,
		Path:   models.Path{Tenant: "acme", App: "web", EPG: "web-epg"},
		Folder: &models.Folder{Name: "DMZ", Kind: models.KindZone},
	})
	if !errors.Is(err, models.ErrReadOnlyStore) {
		t.Fatalf("expected read-only error, got %v", err)
	}
}

func TestListClustersIncludesInfraAttachments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.yaml")
	snap := Snapshot{
		Tenants: []*models.Tenant{apictest.LegacyTenant("acme", "web")},
		Clusters: []models.Cluster{
			{Name: "fw", Tenant: "acme", Kind: models.ClusterKindDevice,
				DevicePackage: models.DevicePackageDN(models.ClusterKindDevice, models.SourceVersion)},
			{Name: "other-fw", Tenant: "other", Kind: models.ClusterKindDevice,
				DevicePackage: models.DevicePackageDN(models.ClusterKindDevice, models.SourceVersion)},
			{Name: "panorama", Kind: models.ClusterKindDeviceManager,
				DevicePackage: models.DevicePackageDN(models.ClusterKindDeviceManager, models.SourceVersion)},
		},
	}
	if err := Write(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	clusters, err := store.ListClusters(context.Background(), "acme")
	if err != nil {
		t.Fatalf("list clusters: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want the tenant's plus infra", len(clusters))
	}
	for _, c := range clusters {
		if c.Tenant == "other" {
			t.Fatal("another tenant's cluster leaked into the listing")
		}
	}
}
