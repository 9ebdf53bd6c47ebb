package models

import "testing"

func TestOpInverse(t *testing.T) {
	path := Path{Tenant: "acme", App: "web", EPG: "web-epg"}

	create := Op{
		Type:   OpCreateFolder,
		Path:   path,
		Folder: &Folder{Name: "DMZ", Kind: KindZone},
	}
	inv := create.Inverse()
	if inv.Type != OpDeleteFolder {
		t.Fatalf("inverse of create is %s, want %s", inv.Type, OpDeleteFolder)
	}
	if inv.Folder.Name != "DMZ" || inv.Folder.Kind != KindZone {
		t.Fatalf("inverse lost the folder payload: %+v", inv.Folder)
	}
	if back := inv.Inverse(); back.Type != OpCreateFolder {
		t.Fatalf("double inverse is %s, want %s", back.Type, OpCreateFolder)
	}

	rename := Op{
		Type:     OpRenameFolder,
		Path:     path,
		FromKind: KindInterfaceConfig,
		ToKind:   KindInterface,
	}
	inv = rename.Inverse()
	if inv.Type != OpRenameFolder {
		t.Fatalf("inverse of rename is %s, want rename", inv.Type)
	}
	if inv.FromKind != KindInterface || inv.ToKind != KindInterfaceConfig {
		t.Fatalf("rename inverse kinds are %s -> %s, want swapped", inv.FromKind, inv.ToKind)
	}

	setParam := Op{
		Type:      OpUpdateParameter,
		Path:      path,
		Param:     &Parameter{Key: ParamSecurityZone, Value: "DMZ2"},
		PrevValue: "DMZ",
	}
	inv = setParam.Inverse()
	if inv.Param.Value != "DMZ" || inv.PrevValue != "DMZ2" {
		t.Fatalf("parameter update inverse carries %q -> %q, want swapped", inv.PrevValue, inv.Param.Value)
	}
	if setParam.Param.Value != "DMZ2" {
		t.Fatal("inverse mutated the original op's payload")
	}

	retarget := Op{
		Type:       OpUpdateReference,
		Path:       path,
		Ref:        &Reference{Key: RefZone, Target: "DMZ2"},
		PrevTarget: "DMZ",
	}
	inv = retarget.Inverse()
	if inv.Ref.Target != "DMZ" || inv.PrevTarget != "DMZ2" {
		t.Fatalf("reference update inverse carries %q -> %q, want swapped", inv.PrevTarget, inv.Ref.Target)
	}

	update := Op{
		Type:        OpUpdateCluster,
		Path:        Path{Tenant: "acme", Cluster: "fw"},
		ClusterKind: ClusterKindDevice,
		FromPackage: DevicePackageDN(ClusterKindDevice, SourceVersion),
		ToPackage:   DevicePackageDN(ClusterKindDevice, TargetVersion),
	}
	inv = update.Inverse()
	if inv.FromPackage != update.ToPackage || inv.ToPackage != update.FromPackage {
		t.Fatalf("cluster inverse packages are %s -> %s, want swapped", inv.FromPackage, inv.ToPackage)
	}
}

func TestChangeSetInverseReversesOrder(t *testing.T) {
	path := Path{Tenant: "acme", App: "web", EPG: "web-epg"}

	var cs ChangeSet
	cs.Add(Op{Type: OpCreateFolder, Path: path, Folder: &Folder{Name: "DMZ", Kind: KindZone}})
	cs.Add(Op{Type: OpAddReference, Path: path, Ref: &Reference{Key: RefZone, Target: "DMZ"}})

	inv := cs.Inverse()
	if inv.Len() != 2 {
		t.Fatalf("inverse has %d ops, want 2", inv.Len())
	}
	if inv.Ops[0].Type != OpRemoveReference {
		t.Fatalf("first inverse op is %s, want the reference removal", inv.Ops[0].Type)
	}
	if inv.Ops[1].Type != OpDeleteFolder {
		t.Fatalf("second inverse op is %s, want the folder deletion", inv.Ops[1].Type)
	}
}

func TestPathString(t *testing.T) {
	p := Path{Tenant: "acme", App: "web", EPG: "web-epg", Folder: []string{"client-if", "client-if-l3"}}
	if got, want := p.String(), "acme/web/web-epg/client-if/client-if-l3"; got != want {
		t.Fatalf("path renders as %q, want %q", got, want)
	}

	p = Path{Tenant: "acme", Cluster: "fw"}
	if got, want := p.String(), "acme/fw"; got != want {
		t.Fatalf("cluster path renders as %q, want %q", got, want)
	}
}

func TestFolderKindRenames(t *testing.T) {
	cases := []struct {
		from FolderKind
		to   FolderKind
	}{
		{KindInterfaceConfig, KindInterface},
		{KindLayer3InterfaceConfig, KindLayer3Interface},
		{KindLayer2InterfaceConfig, KindLayer2Interface},
	}
	for _, tc := range cases {
		if !tc.from.IsLegacy() {
			t.Fatalf("%s should be legacy", tc.from)
		}
		to, ok := tc.from.Renamed()
		if !ok || to != tc.to {
			t.Fatalf("%s renames to %s, want %s", tc.from, to, tc.to)
		}
		if tc.to.IsLegacy() {
			t.Fatalf("%s should not be legacy", tc.to)
		}
	}
	if _, ok := KindZone.Renamed(); ok {
		t.Fatal("Zone has no rename")
	}
}

func TestFolderCloneIsDeep(t *testing.T) {
	orig := &Folder{
		Name:       "client-if",
		Kind:       KindInterfaceConfig,
		Parameters: []Parameter{{Key: ParamSecurityZone, Value: "DMZ"}},
		Folders: []*Folder{
			{Name: "client-if-l3", Kind: KindLayer3InterfaceConfig},
		},
	}

	c := orig.Clone()
	c.Parameters[0].Value = "changed"
	c.Folders[0].Kind = KindLayer3Interface

	if orig.Parameters[0].Value != "DMZ" {
		t.Fatal("clone shares the parameter slice with the original")
	}
	if orig.Folders[0].Kind != KindLayer3InterfaceConfig {
		t.Fatal("clone shares subfolders with the original")
	}
}
