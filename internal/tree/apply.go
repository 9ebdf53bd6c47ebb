package tree

import (
	"fmt"

	"github.com/panos-tools/dpmigrate/models"
)

// Apply executes a single folder-level operation against an in-memory tenant
// tree. The remote store and the test fake both mutate through this so that
// applied state and planned state cannot drift apart.
func Apply(t *models.Tenant, op models.Op) error {
	if op.Type == models.OpUpdateCluster {
		return fmt.Errorf("cluster op %s cannot be applied to a tenant tree", op.Type)
	}
	if op.Path.Tenant != t.Name {
		return fmt.Errorf("op path %s does not belong to tenant %q", op.Path, t.Name)
	}

	app := t.AppProfile(op.Path.App)
	if app == nil {
		return &models.NotFoundError{Kind: "app profile", Name: op.Path.App}
	}
	epg := app.EPG(op.Path.EPG)
	if epg == nil {
		return &models.NotFoundError{Kind: "epg", Name: op.Path.EPG}
	}

	switch op.Type {
	case models.OpCreateFolder:
		parentList, err := folderList(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		for _, f := range *parentList {
			if f.Name == op.Folder.Name {
				// Already present: idempotent re-apply after a partial run.
				return nil
			}
		}
		*parentList = append(*parentList, op.Folder.Clone())
		return nil

	case models.OpDeleteFolder:
		parentList, err := folderList(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		for i, f := range *parentList {
			if f.Name == op.Folder.Name {
				*parentList = append((*parentList)[:i], (*parentList)[i+1:]...)
				return nil
			}
		}
		return nil

	case models.OpRenameFolder:
		f, err := findFolder(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		f.Kind = op.ToKind
		return nil

	case models.OpAddParameter, models.OpUpdateParameter:
		f, err := findFolder(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		if p := f.Param(op.Param.Key); p != nil {
			p.Value = op.Param.Value
			return nil
		}
		f.Parameters = append(f.Parameters, *op.Param)
		return nil

	case models.OpRemoveParameter:
		f, err := findFolder(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		for i, p := range f.Parameters {
			if p.Key == op.Param.Key {
				f.Parameters = append(f.Parameters[:i], f.Parameters[i+1:]...)
				return nil
			}
		}
		return nil

	case models.OpAddReference, models.OpUpdateReference:
		f, err := findFolder(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		if r := f.Ref(op.Ref.Key); r != nil {
			r.Target = op.Ref.Target
			return nil
		}
		f.References = append(f.References, *op.Ref)
		return nil

	case models.OpRemoveReference:
		f, err := findFolder(epg, op.Path.Folder)
		if err != nil {
			return err
		}
		for i, r := range f.References {
			if r.Key == op.Ref.Key {
				f.References = append(f.References[:i], f.References[i+1:]...)
				return nil
			}
		}
		return nil
	}

	return fmt.Errorf("unknown op type %q", op.Type)
}

// ApplyCluster executes an OpUpdateCluster against an in-memory cluster list
// and returns the updated list.
func ApplyCluster(clusters []models.Cluster, op models.Op) ([]models.Cluster, error) {
	if op.Type != models.OpUpdateCluster {
		return clusters, fmt.Errorf("op %s is not a cluster op", op.Type)
	}
	for i := range clusters {
		if clusters[i].Name == op.Path.Cluster && clusters[i].Kind == op.ClusterKind {
			clusters[i].DevicePackage = op.ToPackage
			return clusters, nil
		}
	}
	return clusters, &models.NotFoundError{Kind: "cluster", Name: op.Path.Cluster}
}

// folderList returns a pointer to the sibling list the chain's last segment
// lives in, so callers can insert or remove entries.
func folderList(epg *models.EPG, chain []string) (*[]*models.Folder, error) {
	if len(chain) == 0 {
		return &epg.Folders, nil
	}
	f, err := findFolder(epg, chain)
	if err != nil {
		return nil, err
	}
	return &f.Folders, nil
}

// findFolder walks the folder name chain below the EPG.
func findFolder(epg *models.EPG, chain []string) (*models.Folder, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("empty folder path")
	}
	cur := epg.Folder(chain[0])
	if cur == nil {
		return nil, &models.NotFoundError{Kind: "folder", Name: chain[0]}
	}
	for _, name := range chain[1:] {
		cur = cur.Subfolder(name)
		if cur == nil {
			return nil, &models.NotFoundError{Kind: "folder", Name: name}
		}
	}
	return cur, nil
}
