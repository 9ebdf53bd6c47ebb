package cluster

import (
	"errors"
	"testing"

	"github.com/panos-tools/dpmigrate/models"
)

func sourceClusters() []models.Cluster {
	return []models.Cluster{
		{
			Name:          "fw-cluster",
			Tenant:        "acme",
			Kind:          models.ClusterKindDevice,
			DevicePackage: models.DevicePackageDN(models.ClusterKindDevice, models.SourceVersion),
			AppProfile:    "web",
		},
		{
			Name:          "panorama",
			Kind:          models.ClusterKindDeviceManager,
			DevicePackage: models.DevicePackageDN(models.ClusterKindDeviceManager, models.SourceVersion),
		},
		{
			Name:          "chassis-1",
			Kind:          models.ClusterKindChassis,
			DevicePackage: models.DevicePackageDN(models.ClusterKindChassis, models.SourceVersion),
		},
	}
}

func allMigrated(string) bool { return true }

func TestPlanUpdateRewritesEveryAttachmentKind(t *testing.T) {
	cs, err := PlanUpdate(sourceClusters(), models.TargetVersion, allMigrated)
	if err != nil {
		t.Fatalf("plan update: %v", err)
	}
	if cs.Len() != 3 {
		t.Fatalf("expected 3 update ops, got %d", cs.Len())
	}

	wantTargets := map[string]string{
		"fw-cluster": "uni/infra/mDev-PaloAltoNetworks-PANOS-1.3",
		"panorama":   "uni/infra/mDevMgr-PaloAltoNetworks-Panorama-1.3",
		"chassis-1":  "uni/infra/mChassis-PaloAltoNetworks-Chassis-1.3",
	}
	for _, op := range cs.Ops {
		if op.Type != models.OpUpdateCluster {
			t.Fatalf("unexpected op %s", op.Type)
		}
		want := wantTargets[op.Path.Cluster]
		if op.ToPackage != want {
			t.Fatalf("cluster %s targets %q, want %q", op.Path.Cluster, op.ToPackage, want)
		}
	}
}

func TestPlanUpdateSkipsAlreadyMigrated(t *testing.T) {
	clusters := sourceClusters()
	clusters[0].DevicePackage = models.DevicePackageDN(models.ClusterKindDevice, models.TargetVersion)

	cs, err := PlanUpdate(clusters, models.TargetVersion, allMigrated)
	if err != nil {
		t.Fatalf("plan update: %v", err)
	}
	if cs.Len() != 2 {
		t.Fatalf("expected 2 ops for the remaining clusters, got %d", cs.Len())
	}
}

func TestPlanUpdateFailsOnUnmigratedProfile(t *testing.T) {
	cs, err := PlanUpdate(sourceClusters(), models.TargetVersion, func(string) bool { return false })

	var dep *models.UnmigratedDependencyError
	if !errors.As(err, &dep) {
		t.Fatalf("expected UnmigratedDependencyError, got %v", err)
	}
	if dep.Cluster != "fw-cluster" || dep.AppProfile != "web" {
		t.Fatalf("error names %s/%s, want fw-cluster/web", dep.Cluster, dep.AppProfile)
	}
	if !errors.Is(err, models.ErrPrecondition) {
		t.Fatal("dependency error should match the precondition sentinel")
	}
	if !cs.Empty() {
		t.Fatalf("a failed plan must be empty, got %d ops", cs.Len())
	}
}

func TestPlanUpdateSkipsCheckForInfraAttachments(t *testing.T) {
	// Device managers and chassis carry no profile; they must migrate even
	// when no profile has been prepared.
	clusters := sourceClusters()[1:]
	cs, err := PlanUpdate(clusters, models.TargetVersion, func(string) bool { return false })
	if err != nil {
		t.Fatalf("plan update: %v", err)
	}
	if cs.Len() != 2 {
		t.Fatalf("expected 2 ops, got %d", cs.Len())
	}
}

func TestPlanRevert(t *testing.T) {
	clusters := sourceClusters()
	for i := range clusters {
		clusters[i].DevicePackage = models.DevicePackageDN(clusters[i].Kind, models.TargetVersion)
	}
	// One cluster never migrated; revert must not touch it.
	clusters[2].DevicePackage = models.DevicePackageDN(models.ClusterKindChassis, models.SourceVersion)

	cs := PlanRevert(clusters, models.SourceVersion)
	if cs.Len() != 2 {
		t.Fatalf("expected 2 revert ops, got %d", cs.Len())
	}
	for _, op := range cs.Ops {
		if op.ToPackage != models.DevicePackageDN(op.ClusterKind, models.SourceVersion) {
			t.Fatalf("revert op targets %q", op.ToPackage)
		}
	}
}
