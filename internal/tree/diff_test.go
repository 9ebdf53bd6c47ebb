package tree

import (
	"testing"

	"github.com/panos-tools/dpmigrate/models"
)

func legacyTenant() *models.Tenant {
	return &models.Tenant{
		Name: "acme",
		AppProfiles: []*models.AppProfile{
			{
				Name: "web",
				EPGs: []*models.EPG{
					{
						Name: "web-epg",
						Folders: []*models.Folder{
							{
								Name: "client-if",
								Kind: models.KindInterfaceConfig,
								Folders: []*models.Folder{
									{
										Name: "client-if-l3",
										Kind: models.KindLayer3InterfaceConfig,
										Parameters: []models.Parameter{
											{Key: models.ParamSecurityZone, Value: "DMZ"},
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

func TestDiffIdenticalTreesIsEmpty(t *testing.T) {
	before := legacyTenant()
	cs := Diff(before, before.Clone())
	if !cs.Empty() {
		t.Fatalf("diff of identical trees has %d ops: %v", cs.Len(), cs.Ops)
	}
}

func TestDiffDetectsKindChangeAsRename(t *testing.T) {
	before := legacyTenant()
	after := before.Clone()
	after.AppProfiles[0].EPGs[0].Folders[0].Kind = models.KindInterface

	cs := Diff(before, after)
	if cs.Len() != 1 {
		t.Fatalf("expected one op, got %d: %v", cs.Len(), cs.Ops)
	}
	op := cs.Ops[0]
	if op.Type != models.OpRenameFolder {
		t.Fatalf("kind change produced %s, want rename", op.Type)
	}
	if op.FromKind != models.KindInterfaceConfig || op.ToKind != models.KindInterface {
		t.Fatalf("rename kinds are %s -> %s", op.FromKind, op.ToKind)
	}
	if got, want := op.Path.String(), "acme/web/web-epg/client-if"; got != want {
		t.Fatalf("rename path is %q, want %q", got, want)
	}
}

func TestDiffDetectsCreatedFolderWithPayload(t *testing.T) {
	before := legacyTenant()
	after := before.Clone()
	epg := after.AppProfiles[0].EPGs[0]
	epg.Folders = append(epg.Folders, &models.Folder{
		Name:       "DMZ",
		Kind:       models.KindZone,
		Parameters: []models.Parameter{{Key: "mode", Value: "layer3"}},
	})

	cs := Diff(before, after)
	if cs.Len() != 1 {
		t.Fatalf("expected one op, got %d", cs.Len())
	}
	op := cs.Ops[0]
	if op.Type != models.OpCreateFolder {
		t.Fatalf("new folder produced %s, want create", op.Type)
	}
	if op.Folder == nil || op.Folder.Name != "DMZ" || len(op.Folder.Parameters) != 1 {
		t.Fatalf("create op lost the folder payload: %+v", op.Folder)
	}
	if len(op.Path.Folder) != 0 {
		t.Fatalf("create parent chain should be empty for an EPG-level folder, got %v", op.Path.Folder)
	}
}

func TestDiffDetectsParameterAndReferenceChanges(t *testing.T) {
	before := legacyTenant()
	after := before.Clone()
	layer := after.AppProfiles[0].EPGs[0].Folders[0].Folders[0]
	layer.Parameters = nil
	layer.References = append(layer.References, models.Reference{Key: models.RefZone, Target: "DMZ"})

	cs := Diff(before, after)
	if cs.Len() != 2 {
		t.Fatalf("expected two ops, got %d: %v", cs.Len(), cs.Ops)
	}

	var sawRemove, sawAddRef bool
	for _, op := range cs.Ops {
		switch op.Type {
		case models.OpRemoveParameter:
			sawRemove = true
			if op.Param.Value != "DMZ" {
				t.Fatalf("removed parameter carries value %q, want the original for inversion", op.Param.Value)
			}
		case models.OpAddReference:
			sawAddRef = true
			if op.Ref.Target != "DMZ" {
				t.Fatalf("reference targets %q, want DMZ", op.Ref.Target)
			}
		}
	}
	if !sawRemove || !sawAddRef {
		t.Fatalf("missing expected ops: %v", cs.Ops)
	}
}

// A changed value must come out as one update op carrying both scalars. A
// remove/add pair would be torn apart by the executor's dependency ordering
// and end up deleting the key.
func TestDiffValueChangeIsSingleUpdateOp(t *testing.T) {
	before := legacyTenant()
	before.AppProfiles[0].EPGs[0].Folders[0].Folders[0].References = []models.Reference{
		{Key: models.RefZone, Target: "DMZ"},
	}
	after := before.Clone()
	layer := after.AppProfiles[0].EPGs[0].Folders[0].Folders[0]
	layer.Param(models.ParamSecurityZone).Value = "DMZ2"
	layer.Ref(models.RefZone).Target = "DMZ2"

	cs := Diff(before, after)
	if cs.Len() != 2 {
		t.Fatalf("expected two ops, got %d: %v", cs.Len(), cs.Ops)
	}

	var sawParam, sawRef bool
	for _, op := range cs.Ops {
		switch op.Type {
		case models.OpUpdateParameter:
			sawParam = true
			if op.Param.Value != "DMZ2" || op.PrevValue != "DMZ" {
				t.Fatalf("update carries %q -> %q, want DMZ -> DMZ2", op.PrevValue, op.Param.Value)
			}
			inv := op.Inverse()
			if inv.Param.Value != "DMZ" || inv.PrevValue != "DMZ2" {
				t.Fatalf("inverse carries %q -> %q, want DMZ2 -> DMZ", inv.PrevValue, inv.Param.Value)
			}
		case models.OpUpdateReference:
			sawRef = true
			if op.Ref.Target != "DMZ2" || op.PrevTarget != "DMZ" {
				t.Fatalf("retarget carries %q -> %q, want DMZ -> DMZ2", op.PrevTarget, op.Ref.Target)
			}
		default:
			t.Fatalf("value change produced %s, want update ops only", op.Type)
		}
	}
	if !sawParam || !sawRef {
		t.Fatalf("missing expected ops: %v", cs.Ops)
	}
}

func TestDiffDetectsDeletedFolder(t *testing.T) {
	before := legacyTenant()
	after := before.Clone()
	after.AppProfiles[0].EPGs[0].Folders = nil

	cs := Diff(before, after)
	if cs.Len() != 1 {
		t.Fatalf("expected one op, got %d", cs.Len())
	}
	op := cs.Ops[0]
	if op.Type != models.OpDeleteFolder {
		t.Fatalf("removed folder produced %s, want delete", op.Type)
	}
	if op.Folder == nil || len(op.Folder.Folders) != 1 {
		t.Fatal("delete op must carry the full subtree so the inverse can recreate it")
	}
}

// Applying the diff to the before tree must reproduce the after tree, and
// applying the inverse must restore it. This is the property the whole
// revert design rests on.
func TestDiffApplyRoundTrip(t *testing.T) {
	before := legacyTenant()
	after := before.Clone()
	epg := after.AppProfiles[0].EPGs[0]
	epg.Folders[0].Kind = models.KindInterface
	epg.Folders[0].Folders[0].Kind = models.KindLayer3Interface
	epg.Folders[0].Folders[0].References = []models.Reference{{Key: models.RefZone, Target: "DMZ"}}
	epg.Folders = append(epg.Folders, &models.Folder{Name: "DMZ", Kind: models.KindZone})

	cs := Diff(before, after)

	work := before.Clone()
	for _, op := range cs.Ops {
		if err := Apply(work, op); err != nil {
			t.Fatalf("apply %s: %v", op.Describe(), err)
		}
	}
	if !Diff(work, after).Empty() {
		t.Fatal("applying the diff did not reproduce the target tree")
	}

	for _, op := range cs.Inverse().Ops {
		if err := Apply(work, op); err != nil {
			t.Fatalf("apply inverse %s: %v", op.Describe(), err)
		}
	}
	if !Diff(work, before).Empty() || !Diff(before, work).Empty() {
		t.Fatal("applying the inverse did not restore the original tree")
	}
}
