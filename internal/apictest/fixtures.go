package apictest

import "github.com/panos-tools/dpmigrate/models"

// LegacyTenant builds a tenant in the pre-migration 1.2 shape: one
// application profile with one EPG, an InterfaceConfig folder and an L3
// layer subfolder carrying the three legacy scalar parameters.
func LegacyTenant(tenant, app string) *models.Tenant {
	return &models.Tenant{
		Name: tenant,
		AppProfiles: []*models.AppProfile{
			{
				Name: app,
				EPGs: []*models.EPG{
					{
						Name: "web-epg",
						Folders: []*models.Folder{
							{
								Name: "client-if",
								Kind: models.KindInterfaceConfig,
								Scope: models.ScopeLabels{
									GraphLabel: "web-graph",
									NodeLabel:  "FW1",
								},
								Folders: []*models.Folder{
									{
										Name: "client-if-l3",
										Kind: models.KindLayer3InterfaceConfig,
										Parameters: []models.Parameter{
											{Key: models.ParamSecurityZone, Value: "DMZ"},
											{Key: models.ParamBridgeDomain, Value: "BD1"},
											{Key: models.ParamDefaultGateway, Value: "10.0.0.1/24"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// SourceClusters builds the cluster set attached to the 1.2 device package:
// one device cluster serving the profile plus the infra-level device-manager
// and chassis attachments.
func SourceClusters(tenant, app string) []models.Cluster {
	return []models.Cluster{
		{
			Name:          "fw-cluster",
			Tenant:        tenant,
			Kind:          models.ClusterKindDevice,
			DevicePackage: models.DevicePackageDN(models.ClusterKindDevice, models.SourceVersion),
			AppProfile:    app,
		},
		{
			Name:          "panorama",
			Tenant:        tenant,
			Kind:          models.ClusterKindDeviceManager,
			DevicePackage: models.DevicePackageDN(models.ClusterKindDeviceManager, models.SourceVersion),
		},
		{
			Name:          "chassis-1",
			Tenant:        tenant,
			Kind:          models.ClusterKindChassis,
			DevicePackage: models.DevicePackageDN(models.ClusterKindChassis, models.SourceVersion),
		},
	}
}
