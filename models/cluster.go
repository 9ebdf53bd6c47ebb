package models

import "fmt"

// ClusterKind identifies which attachment class binds a cluster to the device
// package. The 1.2 schema attaches device clusters, device managers and
// chassis separately, and all three must move to 1.3 together.
type ClusterKind string

const (
	// ClusterKindDevice is an L4-7 device cluster (logical device vip).
	ClusterKindDevice ClusterKind = "device"

	// ClusterKindDeviceManager is a device manager (Panorama) attachment.
	ClusterKindDeviceManager ClusterKind = "device-manager"

	// ClusterKindChassis is a chassis attachment.
	ClusterKindChassis ClusterKind = "chassis"
)

// Device package versions involved in the migration.
const (
	SourceVersion = "1.2"
	TargetVersion = "1.3"
)

// DevicePackageDN returns the distinguished name of the device-package object
// a cluster of the given kind attaches to at the given version.
func DevicePackageDN(kind ClusterKind, version string) string {
	switch kind {
	case ClusterKindDeviceManager:
		return fmt.Sprintf("uni/infra/mDevMgr-PaloAltoNetworks-Panorama-%s", version)
	case ClusterKindChassis:
		return fmt.Sprintf("uni/infra/mChassis-PaloAltoNetworks-Chassis-%s", version)
	default:
		return fmt.Sprintf("uni/infra/mDev-PaloAltoNetworks-PANOS-%s", version)
	}
}

// Cluster is an L4-7 service cluster referencing a device-package version.
type Cluster struct {
	// Name is the cluster name, unique within the tenant.
	Name string `json:"name" yaml:"name"`

	// Tenant is the owning tenant. Empty for infra-level attachments.
	Tenant string `json:"tenant,omitempty" yaml:"tenant,omitempty"`

	// Kind is the attachment class.
	Kind ClusterKind `json:"kind" yaml:"kind"`

	// DevicePackage is the DN of the device-package object the cluster is
	// currently bound to.
	DevicePackage string `json:"device_package" yaml:"device_package"`

	// AppProfile names the application profile whose service graph this
	// cluster serves. Empty when the cluster is not bound to a graph; the
	// parameters-migrated precondition is skipped in that case.
	AppProfile string `json:"app_profile,omitempty" yaml:"app_profile,omitempty"`
}

// AtVersion reports whether the cluster is bound to the device package at the
// given version.
func (c Cluster) AtVersion(version string) bool {
	return c.DevicePackage == DevicePackageDN(c.Kind, version)
}
