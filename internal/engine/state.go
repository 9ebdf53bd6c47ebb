package engine

import (
	"github.com/panos-tools/dpmigrate/internal/resolver"
	"github.com/panos-tools/dpmigrate/models"
)

// State is the migration state of one application profile. It is derived
// from the current tree and cluster attachments on every invocation, never
// stored, so an interrupted run re-derives where it left off.
type State int

const (
	// StateUnmigrated: legacy kinds or unresolved legacy parameters remain.
	StateUnmigrated State = iota

	// StateParametersPrepared: every legacy parameter has its 1.3
	// replacement and the legacy scalars still coexist with it; clusters
	// bound to the profile are still on the source package.
	StateParametersPrepared

	// StateClustersMigrated: parameters prepared and every cluster bound to
	// the profile is on the target package.
	StateClustersMigrated

	// StateCleanedUp: the legacy scalars are gone. Terminal; no revert path
	// leads out of this state.
	StateCleanedUp
)

func (s State) String() string {
	switch s {
	case StateParametersPrepared:
		return "ParametersPrepared"
	case StateClustersMigrated:
		return "ClustersMigrated"
	case StateCleanedUp:
		return "CleanedUp"
	default:
		return "Unmigrated"
	}
}

// DeriveState computes the profile's migration state from the tree snapshot
// and the clusters visible in its tenant.
func DeriveState(app *models.AppProfile, clusters []models.Cluster) State {
	if !resolver.Prepared(app) {
		return StateUnmigrated
	}

	if resolver.HasLegacyParams(app) {
		if clustersPending(app.Name, clusters) {
			return StateParametersPrepared
		}
		return StateClustersMigrated
	}

	if resolver.HasResolvedObjects(app) {
		return StateCleanedUp
	}

	// Nothing migratable ever existed in this profile.
	return StateUnmigrated
}

// clustersPending reports whether any cluster bound to the profile is still
// on the source device-package version.
func clustersPending(app string, clusters []models.Cluster) bool {
	for _, c := range clusters {
		if c.AppProfile == app && c.AtVersion(models.SourceVersion) {
			return true
		}
	}
	return false
}
