package tree

import (
	"github.com/panos-tools/dpmigrate/models"
)

// Diff computes the minimal set of operations moving the before snapshot to
// the after snapshot. Folders are matched by name at each level: a kind
// change on a name-matched folder is a rename, never a delete/create pair.
// The emitted order follows the tree walk; the executor reorders by
// dependency before applying.
func Diff(before, after *models.Tenant) models.ChangeSet {
	var cs models.ChangeSet

	for _, appAfter := range after.AppProfiles {
		appBefore := before.AppProfile(appAfter.Name)
		if appBefore == nil {
			// Migration never creates app profiles; nothing to compare.
			continue
		}
		for _, epgAfter := range appAfter.EPGs {
			epgBefore := appBefore.EPG(epgAfter.Name)
			if epgBefore == nil {
				continue
			}
			base := models.Path{Tenant: after.Name, App: appAfter.Name, EPG: epgAfter.Name}
			diffFolders(&cs, base, epgBefore.Folders, epgAfter.Folders)
		}
	}

	return cs
}

// diffFolders compares two sibling folder lists under the same parent path.
func diffFolders(cs *models.ChangeSet, parent models.Path, before, after []*models.Folder) {
	byName := make(map[string]*models.Folder, len(before))
	for _, f := range before {
		byName[f.Name] = f
	}

	for _, fa := range after {
		fb, ok := byName[fa.Name]
		if !ok {
			cs.Add(models.Op{
				Type:   models.OpCreateFolder,
				Path:   parent,
				Folder: fa.Clone(),
			})
			continue
		}
		delete(byName, fa.Name)

		path := childPath(parent, fa.Name)
		if fb.Kind != fa.Kind {
			cs.Add(models.Op{
				Type:     models.OpRenameFolder,
				Path:     path,
				FromKind: fb.Kind,
				ToKind:   fa.Kind,
			})
		}
		diffParameters(cs, path, fb.Parameters, fa.Parameters)
		diffReferences(cs, path, fb.References, fa.References)
		diffFolders(cs, path, fb.Folders, fa.Folders)
	}

	// Anything left in byName was removed. Keep the original order.
	for _, fb := range before {
		if _, removed := byName[fb.Name]; removed {
			cs.Add(models.Op{
				Type:   models.OpDeleteFolder,
				Path:   parent,
				Folder: fb.Clone(),
			})
		}
	}
}

func diffParameters(cs *models.ChangeSet, path models.Path, before, after []models.Parameter) {
	byKey := make(map[string]models.Parameter, len(before))
	for _, p := range before {
		byKey[p.Key] = p
	}

	for _, pa := range after {
		pb, ok := byKey[pa.Key]
		if ok {
			delete(byKey, pa.Key)
			if pb.Value == pa.Value {
				continue
			}
			// A value change is a single op carrying both scalars, so the
			// executor cannot split it and the inverse is an exact swap.
			p := pa
			cs.Add(models.Op{Type: models.OpUpdateParameter, Path: path, Param: &p, PrevValue: pb.Value})
			continue
		}
		p := pa
		cs.Add(models.Op{Type: models.OpAddParameter, Path: path, Param: &p})
	}

	for _, pb := range before {
		if _, removed := byKey[pb.Key]; removed {
			p := pb
			cs.Add(models.Op{Type: models.OpRemoveParameter, Path: path, Param: &p})
		}
	}
}

func diffReferences(cs *models.ChangeSet, path models.Path, before, after []models.Reference) {
	byKey := make(map[string]models.Reference, len(before))
	for _, r := range before {
		byKey[r.Key] = r
	}

	for _, ra := range after {
		rb, ok := byKey[ra.Key]
		if ok {
			delete(byKey, ra.Key)
			if rb.Target == ra.Target {
				continue
			}
			r := ra
			cs.Add(models.Op{Type: models.OpUpdateReference, Path: path, Ref: &r, PrevTarget: rb.Target})
			continue
		}
		r := ra
		cs.Add(models.Op{Type: models.OpAddReference, Path: path, Ref: &r})
	}

	for _, rb := range before {
		if _, removed := byKey[rb.Key]; removed {
			r := rb
			cs.Add(models.Op{Type: models.OpRemoveReference, Path: path, Ref: &r})
		}
	}
}

func childPath(parent models.Path, folder string) models.Path {
	p := parent
	p.Folder = append(append([]string(nil), parent.Folder...), folder)
	return p
}
