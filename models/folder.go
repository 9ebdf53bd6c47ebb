package models

// FolderKind identifies the type of a configuration folder. The device
// package 1.2 schema uses the *Config kinds; 1.3 replaces them with the
// shorter kinds and introduces Zone, Vlan and StaticRoute as first-class
// folders.
type FolderKind string

const (
	// KindInterfaceConfig is the legacy (1.2) interface container kind.
	KindInterfaceConfig FolderKind = "InterfaceConfig"

	// KindLayer3InterfaceConfig is the legacy (1.2) L3 interface kind.
	KindLayer3InterfaceConfig FolderKind = "Layer3InterfaceConfig"

	// KindLayer2InterfaceConfig is the legacy (1.2) L2 interface kind.
	KindLayer2InterfaceConfig FolderKind = "Layer2InterfaceConfig"

	// KindInterface is the 1.3 interface container kind.
	KindInterface FolderKind = "Interface"

	// KindLayer3Interface is the 1.3 L3 interface kind.
	KindLayer3Interface FolderKind = "Layer3Interface"

	// KindLayer2Interface is the 1.3 L2 interface kind.
	KindLayer2Interface FolderKind = "Layer2Interface"

	// KindZone is a named security zone, new in 1.3.
	KindZone FolderKind = "Zone"

	// KindVlan is a named bridge-domain/VLAN, new in 1.3.
	KindVlan FolderKind = "Vlan"

	// KindStaticRoute is a static route entry, new in 1.3. It replaces the
	// legacy default_gateway scalar parameter.
	KindStaticRoute FolderKind = "StaticRoute"
)

// Legacy parameter keys replaced by references or StaticRoute folders in 1.3.
const (
	ParamSecurityZone   = "security_zone"
	ParamBridgeDomain   = "bridge_domain"
	ParamDefaultGateway = "default_gateway"
)

// Reference keys linking a consuming folder to a Zone or Vlan folder.
const (
	RefZone = "zone"
	RefVlan = "vlan"
)

// legacyRenames maps each 1.2 folder kind to its 1.3 replacement. The rename
// preserves folder identity: same object, new kind label.
var legacyRenames = map[FolderKind]FolderKind{
	KindInterfaceConfig:       KindInterface,
	KindLayer3InterfaceConfig: KindLayer3Interface,
	KindLayer2InterfaceConfig: KindLayer2Interface,
}

// IsLegacy reports whether the kind belongs to the 1.2 schema.
func (k FolderKind) IsLegacy() bool {
	_, ok := legacyRenames[k]
	return ok
}

// Renamed returns the 1.3 kind replacing a legacy kind, and whether a rename
// applies at all.
func (k FolderKind) Renamed() (FolderKind, bool) {
	to, ok := legacyRenames[k]
	return to, ok
}

// IsLayerKind reports whether the kind is an L2/L3 interface folder in either
// schema version. Layer folders are where the legacy scalar parameters live.
func (k FolderKind) IsLayerKind() bool {
	switch k {
	case KindLayer3Interface, KindLayer2Interface,
		KindLayer3InterfaceConfig, KindLayer2InterfaceConfig:
		return true
	}
	return false
}

// Parameter is a scalar key/value attached to a folder.
type Parameter struct {
	// Key is the parameter name (e.g. "security_zone").
	Key string `json:"key" yaml:"key"`

	// Value is the scalar value (e.g. "DMZ", "10.0.0.1/24").
	Value string `json:"value" yaml:"value"`
}

// Reference is a directed link from a consuming folder to a Zone or Vlan
// folder, replacing a legacy scalar parameter.
type Reference struct {
	// Key is the reference kind: "zone" or "vlan".
	Key string `json:"key" yaml:"key"`

	// Target is the name of the Zone or Vlan folder being referenced.
	Target string `json:"target" yaml:"target"`
}

// ScopeLabels carries the scoping attributes a folder is bound to. New folders
// derived from a legacy parameter inherit these from the owning folder so they
// stay attached to the same contract and service graph.
type ScopeLabels struct {
	ContractLabel  string `json:"contract_label,omitempty" yaml:"contract_label,omitempty"`
	DeviceCtxLabel string `json:"device_ctx_label,omitempty" yaml:"device_ctx_label,omitempty"`
	GraphLabel     string `json:"graph_label,omitempty" yaml:"graph_label,omitempty"`
	NodeLabel      string `json:"node_label,omitempty" yaml:"node_label,omitempty"`
	ScopedBy       string `json:"scoped_by,omitempty" yaml:"scoped_by,omitempty"`
}

// Folder is a typed configuration container. Folders nest: an Interface
// folder owns Layer3Interface/Layer2Interface subfolders, which own the
// scalar parameters of interest.
type Folder struct {
	// Name is the folder name, unique among siblings.
	Name string `json:"name" yaml:"name"`

	// Kind is the folder type.
	Kind FolderKind `json:"kind" yaml:"kind"`

	// Scope carries the contract/graph scoping attributes.
	Scope ScopeLabels `json:"scope,omitempty" yaml:"scope,omitempty"`

	// Parameters are the scalar key/values attached to this folder.
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// References are links to Zone/Vlan folders consumed by this folder.
	References []Reference `json:"references,omitempty" yaml:"references,omitempty"`

	// Folders are nested subfolders.
	Folders []*Folder `json:"folders,omitempty" yaml:"folders,omitempty"`
}

// Clone returns a deep copy of the folder and everything below it.
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	c := &Folder{
		Name:  f.Name,
		Kind:  f.Kind,
		Scope: f.Scope,
	}
	if len(f.Parameters) > 0 {
		c.Parameters = append([]Parameter(nil), f.Parameters...)
	}
	if len(f.References) > 0 {
		c.References = append([]Reference(nil), f.References...)
	}
	for _, sub := range f.Folders {
		c.Folders = append(c.Folders, sub.Clone())
	}
	return c
}

// Param returns the parameter with the given key, or nil.
func (f *Folder) Param(key string) *Parameter {
	for i := range f.Parameters {
		if f.Parameters[i].Key == key {
			return &f.Parameters[i]
		}
	}
	return nil
}

// Ref returns the reference with the given key, or nil.
func (f *Folder) Ref(key string) *Reference {
	for i := range f.References {
		if f.References[i].Key == key {
			return &f.References[i]
		}
	}
	return nil
}

// Subfolder returns the direct subfolder with the given name, or nil.
func (f *Folder) Subfolder(name string) *Folder {
	for _, sub := range f.Folders {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}
