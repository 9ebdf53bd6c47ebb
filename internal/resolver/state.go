package resolver

import "github.com/panos-tools/dpmigrate/models"

// Prepared reports whether the profile has been through the parameters
// phase: no legacy folder kinds remain and every legacy scalar parameter has
// its 1.3 replacement in place. Vacuously true for a profile with nothing to
// migrate, so clusters bound to such profiles are never blocked.
func Prepared(app *models.AppProfile) bool {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if folder.Kind.IsLegacy() {
				return false
			}
			if folder.Kind != models.KindInterface {
				continue
			}
			for _, layer := range folder.Folders {
				if layer.Kind.IsLegacy() {
					return false
				}
				if !layer.Kind.IsLayerKind() {
					continue
				}
				for _, p := range layer.Parameters {
					switch p.Key {
					case models.ParamSecurityZone, models.ParamBridgeDomain, models.ParamDefaultGateway:
						if !replaced(epg, folder, layer, p) {
							return false
						}
					}
				}
			}
		}
	}
	return true
}

// HasLegacyParams reports whether any legacy scalar parameter remains in the
// profile. After cleanup this is false.
func HasLegacyParams(app *models.AppProfile) bool {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			for _, layer := range folder.Folders {
				for _, p := range layer.Parameters {
					switch p.Key {
					case models.ParamSecurityZone, models.ParamBridgeDomain, models.ParamDefaultGateway:
						return true
					}
				}
			}
		}
	}
	return false
}

// HasResolvedObjects reports whether any 1.3 object created by the migration
// exists in the profile: a Zone, Vlan or StaticRoute folder, or a zone/vlan
// reference.
func HasResolvedObjects(app *models.AppProfile) bool {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			switch folder.Kind {
			case models.KindZone, models.KindVlan, models.KindStaticRoute:
				return true
			}
			for _, layer := range folder.Folders {
				if len(layer.References) > 0 {
					return true
				}
			}
		}
	}
	return false
}
