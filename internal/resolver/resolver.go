// Package resolver turns legacy scalar parameters into first-class Zone,
// Vlan and StaticRoute folders plus the references that replace them.
//
// Resolve and Cleanup are pure tree-to-tree functions: they clone the input
// tenant and return the transformed view, leaving the change-set computation
// to the tree differ. Dedup state lives only in the per-invocation lookup
// built from the input tree, never in process-wide state, which is what makes
// repeated invocations idempotent.
package resolver

import (
	"strings"

	"github.com/panos-tools/dpmigrate/models"
)

// intent records the folder a legacy value resolves to. The first occurrence
// of a value establishes the canonical name and the creation site.
type intent struct {
	kind  models.FolderKind
	value string // empty for folders that pre-exist the run
	epg   *models.EPG
	scope models.ScopeLabels
	mode  string // Zone only: "layer3" or "layer2"
}

// Resolve computes the post-parameters-phase view of the application profile:
// legacy folder kinds renamed, Zone/Vlan folders created (deduplicated by
// value within the profile), StaticRoute folders created per owning folder,
// and zone/vlan references added to each consuming site. Legacy scalar
// parameters are retained so the change stays revertible until cleanup.
//
// A Zone/Vlan folder that already exists for a name (from a prior partial
// run) is reused, not recreated. Resolve fails with ResolutionConflictError
// when two distinct values would need folders with the same generated name.
func Resolve(tenant *models.Tenant, appName string) (*models.Tenant, error) {
	after := tenant.Clone()
	app := after.AppProfile(appName)
	if app == nil {
		return nil, &models.NotFoundError{Kind: "app profile", Name: appName}
	}

	renameLegacyKinds(app)

	intents, err := collectIntents(app)
	if err != nil {
		return nil, err
	}

	createResolvedFolders(app, intents)
	addReferences(app)
	if err := resolveStaticRoutes(app, intents); err != nil {
		return nil, err
	}

	return after, nil
}

// Cleanup computes the post-cleanup view: legacy scalar parameters are
// removed wherever their replacement reference or StaticRoute folder exists.
// A parameter whose replacement is missing is left alone so cleanup can never
// break referential consistency.
func Cleanup(tenant *models.Tenant, appName string) (*models.Tenant, error) {
	after := tenant.Clone()
	app := after.AppProfile(appName)
	if app == nil {
		return nil, &models.NotFoundError{Kind: "app profile", Name: appName}
	}

	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if folder.Kind != models.KindInterface {
				continue
			}
			for _, layer := range folder.Folders {
				if !layer.Kind.IsLayerKind() {
					continue
				}
				keep := layer.Parameters[:0]
				for _, p := range layer.Parameters {
					if replaced(epg, folder, layer, p) {
						continue
					}
					keep = append(keep, p)
				}
				layer.Parameters = keep
			}
		}
	}

	return after, nil
}

// replaced reports whether the parameter's 1.3 stand-in exists.
func replaced(epg *models.EPG, owner, layer *models.Folder, p models.Parameter) bool {
	switch p.Key {
	case models.ParamSecurityZone:
		return layer.Ref(models.RefZone) != nil
	case models.ParamBridgeDomain:
		return layer.Ref(models.RefVlan) != nil
	case models.ParamDefaultGateway:
		sr := epg.Folder(staticRouteName(owner, layer))
		return sr != nil && sr.Kind == models.KindStaticRoute &&
			paramValue(sr, "nexthop") == p.Value
	}
	return false
}

func paramValue(f *models.Folder, key string) string {
	if p := f.Param(key); p != nil {
		return p.Value
	}
	return ""
}

// renameLegacyKinds relabels 1.2 folder kinds in place. The rename preserves
// folder identity and descendants.
func renameLegacyKinds(app *models.AppProfile) {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if to, ok := folder.Kind.Renamed(); ok {
				folder.Kind = to
			}
			if folder.Kind != models.KindInterface {
				continue
			}
			for _, sub := range folder.Folders {
				if to, ok := sub.Kind.Renamed(); ok {
					sub.Kind = to
				}
			}
		}
	}
}

// collectIntents is the first pass: scan every security_zone/bridge_domain
// parameter and build the name-to-folder intent map. First occurrence wins.
// Existing Zone/Vlan folders are folded in so a prior partial run's folders
// are reused instead of recreated.
func collectIntents(app *models.AppProfile) (map[string]*intent, error) {
	intents := make(map[string]*intent)

	// Existing resolved folders claim their names first, so a prior partial
	// run's folders are reused and cross-kind collisions are caught.
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			switch folder.Kind {
			case models.KindZone, models.KindVlan, models.KindStaticRoute:
				intents[folder.Name] = &intent{kind: folder.Kind, epg: epg}
			}
		}
	}

	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if folder.Kind != models.KindInterface {
				continue
			}
			for _, layer := range folder.Folders {
				if !layer.Kind.IsLayerKind() {
					continue
				}
				for _, p := range layer.Parameters {
					var kind models.FolderKind
					switch p.Key {
					case models.ParamSecurityZone:
						kind = models.KindZone
					case models.ParamBridgeDomain:
						kind = models.KindVlan
					default:
						continue
					}
					name := sanitizeName(p.Value)
					if existing, ok := intents[name]; ok {
						conflict := existing.kind != kind ||
							(existing.value != "" && existing.value != p.Value)
						if conflict {
							return nil, &models.ResolutionConflictError{
								Name:   name,
								Values: conflictValues(existing.value, p.Value),
							}
						}
						continue
					}
					in := &intent{kind: kind, value: p.Value, epg: epg, scope: folder.Scope}
					if kind == models.KindZone {
						in.mode = zoneMode(layer.Kind)
					}
					intents[name] = in
				}
			}
		}
	}

	return intents, nil
}

// createResolvedFolders is the creation half of the second pass: one folder
// per intent that does not already exist, placed under the EPG of the first
// occurrence.
func createResolvedFolders(app *models.AppProfile, intents map[string]*intent) {
	for name, in := range intents {
		if folderExists(app, name) {
			continue
		}
		folder := &models.Folder{
			Name:  name,
			Kind:  in.kind,
			Scope: in.scope,
		}
		if in.kind == models.KindZone {
			folder.Parameters = append(folder.Parameters, models.Parameter{
				Key:   "mode",
				Value: in.mode,
			})
		}
		in.epg.Folders = append(in.epg.Folders, folder)
	}
}

// addReferences emits one reference per consuming parameter, pointing at the
// canonical folder for its value.
func addReferences(app *models.AppProfile) {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if folder.Kind != models.KindInterface {
				continue
			}
			for _, layer := range folder.Folders {
				if !layer.Kind.IsLayerKind() {
					continue
				}
				for _, p := range layer.Parameters {
					var refKey string
					switch p.Key {
					case models.ParamSecurityZone:
						refKey = models.RefZone
					case models.ParamBridgeDomain:
						refKey = models.RefVlan
					default:
						continue
					}
					target := sanitizeName(p.Value)
					if r := layer.Ref(refKey); r != nil {
						r.Target = target
						continue
					}
					layer.References = append(layer.References, models.Reference{
						Key:    refKey,
						Target: target,
					})
				}
			}
		}
	}
}

// resolveStaticRoutes replaces each default_gateway parameter with a
// StaticRoute folder owned by the consuming layer folder. Gateways are not
// deduplicated across folders: every owning folder gets its own route.
func resolveStaticRoutes(app *models.AppProfile, intents map[string]*intent) error {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if folder.Kind != models.KindInterface {
				continue
			}
			for _, layer := range folder.Folders {
				if !layer.Kind.IsLayerKind() {
					continue
				}
				p := layer.Param(models.ParamDefaultGateway)
				if p == nil {
					continue
				}
				name := staticRouteName(folder, layer)
				if in, ok := intents[name]; ok && in.kind != models.KindStaticRoute {
					return &models.ResolutionConflictError{
						Name:   name,
						Values: conflictValues(in.value, p.Value),
					}
				}
				if existing := epg.Folder(name); existing != nil {
					if existing.Kind == models.KindStaticRoute {
						if nh := existing.Param("nexthop"); nh != nil && nh.Value != p.Value {
							return &models.ResolutionConflictError{
								Name:   name,
								Values: conflictValues(nh.Value, p.Value),
							}
						}
					}
					continue
				}
				epg.Folders = append(epg.Folders, &models.Folder{
					Name:  name,
					Kind:  models.KindStaticRoute,
					Scope: folder.Scope,
					Parameters: []models.Parameter{
						{Key: "nexthop", Value: p.Value},
						{Key: "destination", Value: "0.0.0.0/0"},
					},
				})
			}
		}
	}
	return nil
}

// staticRouteName derives the StaticRoute folder name from the owning
// interface and layer folders. Keyed by the full owner path, not by gateway
// value, so same-named layers under different interfaces and folders sharing
// a gateway all get distinct routes.
func staticRouteName(owner, layer *models.Folder) string {
	return sanitizeName(owner.Name) + "_" + sanitizeName(layer.Name) + "_gw"
}

// conflictValues drops the empty marker carried by folder claims that have
// no originating legacy value.
func conflictValues(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func folderExists(app *models.AppProfile, name string) bool {
	for _, epg := range app.EPGs {
		for _, folder := range epg.Folders {
			if folder.Name == name {
				return true
			}
		}
	}
	return false
}

// zoneMode derives the Zone mode parameter from the consuming layer kind.
func zoneMode(kind models.FolderKind) string {
	if strings.HasPrefix(string(kind), "Layer2") {
		return "layer2"
	}
	return "layer3"
}

// sanitizeName maps a legacy scalar value to a valid folder name. The store
// accepts alphanumerics plus _ . : - in object names; anything else becomes
// an underscore. Distinct values that collapse to the same name surface as a
// ResolutionConflictError during intent collection.
func sanitizeName(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == ':' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
