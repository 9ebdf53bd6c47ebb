// Package cluster rewrites L4-7 cluster definitions to a new device-package
// version, gated on the parameters of each cluster's application profile
// having been migrated first.
package cluster

import (
	"github.com/panos-tools/dpmigrate/models"
)

// MigratedCheck reports whether the named application profile has been
// through the parameters phase. The engine backs it with state derived from
// the current tree, not from run history.
type MigratedCheck func(app string) bool

// PlanUpdate emits one update op per cluster still bound to the source
// device-package version, rewriting its attachment to targetVersion.
//
// Every cluster bound to a service graph must have its application profile
// migrated first; the first violation aborts the plan with
// UnmigratedDependencyError. Infra-level attachments (device managers,
// chassis) carry no profile and skip the check.
func PlanUpdate(clusters []models.Cluster, targetVersion string, migrated MigratedCheck) (models.ChangeSet, error) {
	var cs models.ChangeSet

	for _, c := range clusters {
		if !c.AtVersion(models.SourceVersion) {
			continue
		}
		if c.AppProfile != "" && !migrated(c.AppProfile) {
			return models.ChangeSet{}, &models.UnmigratedDependencyError{
				Cluster:    c.Name,
				AppProfile: c.AppProfile,
			}
		}
		cs.Add(updateOp(c, targetVersion))
	}

	return cs, nil
}

// PlanRevert emits one update op per cluster bound to the target version,
// rewriting its attachment back to the source version.
func PlanRevert(clusters []models.Cluster, sourceVersion string) models.ChangeSet {
	var cs models.ChangeSet

	for _, c := range clusters {
		if !c.AtVersion(models.TargetVersion) {
			continue
		}
		cs.Add(updateOp(c, sourceVersion))
	}

	return cs
}

func updateOp(c models.Cluster, version string) models.Op {
	return models.Op{
		Type:        models.OpUpdateCluster,
		Path:        models.Path{Tenant: c.Tenant, Cluster: c.Name},
		ClusterKind: c.Kind,
		FromPackage: c.DevicePackage,
		ToPackage:   models.DevicePackageDN(c.Kind, version),
	}
}
