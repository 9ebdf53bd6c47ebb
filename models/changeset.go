package models

import (
	"fmt"
	"strings"
)

// OpType identifies a single mutation against the remote store.
type OpType string

const (
	// OpCreateFolder creates a folder (with its parameters) at Path.
	OpCreateFolder OpType = "create-folder"

	// OpDeleteFolder deletes the folder at Path. The op carries the deleted
	// folder so the inverse can recreate it.
	OpDeleteFolder OpType = "delete-folder"

	// OpRenameFolder changes the kind label of the folder at Path without
	// touching its identity or descendants.
	OpRenameFolder OpType = "rename-folder"

	// OpAddParameter attaches a scalar parameter to the folder at Path.
	OpAddParameter OpType = "add-parameter"

	// OpRemoveParameter removes a scalar parameter from the folder at Path.
	OpRemoveParameter OpType = "remove-parameter"

	// OpUpdateParameter replaces the value of a parameter in place. The op
	// carries both values so the inverse is an exact swap.
	OpUpdateParameter OpType = "update-parameter"

	// OpAddReference attaches a zone/vlan reference to the folder at Path.
	OpAddReference OpType = "add-reference"

	// OpRemoveReference removes a zone/vlan reference from the folder at Path.
	OpRemoveReference OpType = "remove-reference"

	// OpUpdateReference retargets a zone/vlan reference in place, carrying
	// both targets.
	OpUpdateReference OpType = "update-reference"

	// OpUpdateCluster rewrites a cluster's device-package attachment.
	OpUpdateCluster OpType = "update-cluster"
)

// Path locates the object an operation acts on. Folder ops address the folder
// by its name chain below the EPG; cluster ops use only Tenant and Cluster.
type Path struct {
	Tenant string `json:"tenant" yaml:"tenant"`

	App string `json:"app,omitempty" yaml:"app,omitempty"`

	EPG string `json:"epg,omitempty" yaml:"epg,omitempty"`

	// Folder is the chain of folder names from the EPG down to the target.
	// For OpCreateFolder it names the parent chain; the created folder's own
	// name comes from the payload. Empty means the EPG itself is the parent.
	Folder []string `json:"folder,omitempty" yaml:"folder,omitempty"`

	// Cluster names the cluster for OpUpdateCluster.
	Cluster string `json:"cluster,omitempty" yaml:"cluster,omitempty"`
}

// String renders the path as tenant/app/epg/folder... for operator output.
func (p Path) String() string {
	parts := []string{p.Tenant}
	if p.App != "" {
		parts = append(parts, p.App)
	}
	if p.EPG != "" {
		parts = append(parts, p.EPG)
	}
	parts = append(parts, p.Folder...)
	if p.Cluster != "" {
		parts = append(parts, p.Cluster)
	}
	return strings.Join(parts, "/")
}

// Op is a single create/rename/update/delete operation. Every op carries
// enough payload to compute its exact inverse without consulting the store
// again.
type Op struct {
	Type OpType `json:"type" yaml:"type"`

	Path Path `json:"path" yaml:"path"`

	// Folder is the payload for OpCreateFolder and OpDeleteFolder.
	Folder *Folder `json:"folder,omitempty" yaml:"folder,omitempty"`

	// FromKind/ToKind are the kinds for OpRenameFolder.
	FromKind FolderKind `json:"from_kind,omitempty" yaml:"from_kind,omitempty"`
	ToKind   FolderKind `json:"to_kind,omitempty" yaml:"to_kind,omitempty"`

	// Param is the payload for the parameter ops. For OpUpdateParameter it
	// carries the new value.
	Param *Parameter `json:"param,omitempty" yaml:"param,omitempty"`

	// PrevValue is the replaced scalar for OpUpdateParameter.
	PrevValue string `json:"prev_value,omitempty" yaml:"prev_value,omitempty"`

	// Ref is the payload for the reference ops. For OpUpdateReference it
	// carries the new target.
	Ref *Reference `json:"ref,omitempty" yaml:"ref,omitempty"`

	// PrevTarget is the replaced target for OpUpdateReference.
	PrevTarget string `json:"prev_target,omitempty" yaml:"prev_target,omitempty"`

	// ClusterKind, FromPackage and ToPackage describe OpUpdateCluster.
	ClusterKind ClusterKind `json:"cluster_kind,omitempty" yaml:"cluster_kind,omitempty"`
	FromPackage string      `json:"from_package,omitempty" yaml:"from_package,omitempty"`
	ToPackage   string      `json:"to_package,omitempty" yaml:"to_package,omitempty"`
}

// Inverse returns the operation that exactly undoes this one.
func (o Op) Inverse() Op {
	inv := o
	switch o.Type {
	case OpCreateFolder:
		inv.Type = OpDeleteFolder
	case OpDeleteFolder:
		inv.Type = OpCreateFolder
	case OpRenameFolder:
		inv.FromKind, inv.ToKind = o.ToKind, o.FromKind
	case OpAddParameter:
		inv.Type = OpRemoveParameter
	case OpRemoveParameter:
		inv.Type = OpAddParameter
	case OpUpdateParameter:
		inv.Param = &Parameter{Key: o.Param.Key, Value: o.PrevValue}
		inv.PrevValue = o.Param.Value
	case OpAddReference:
		inv.Type = OpRemoveReference
	case OpRemoveReference:
		inv.Type = OpAddReference
	case OpUpdateReference:
		inv.Ref = &Reference{Key: o.Ref.Key, Target: o.PrevTarget}
		inv.PrevTarget = o.Ref.Target
	case OpUpdateCluster:
		inv.FromPackage, inv.ToPackage = o.ToPackage, o.FromPackage
	}
	return inv
}

// Describe returns a one-line human-readable description of the operation.
func (o Op) Describe() string {
	switch o.Type {
	case OpCreateFolder:
		return fmt.Sprintf("create %s folder %q in %s", o.Folder.Kind, o.Folder.Name, o.Path)
	case OpDeleteFolder:
		return fmt.Sprintf("delete %s folder %q in %s", o.Folder.Kind, o.Folder.Name, o.Path)
	case OpRenameFolder:
		return fmt.Sprintf("rename folder kind %s -> %s at %s", o.FromKind, o.ToKind, o.Path)
	case OpAddParameter:
		return fmt.Sprintf("add parameter %s=%q at %s", o.Param.Key, o.Param.Value, o.Path)
	case OpRemoveParameter:
		return fmt.Sprintf("remove parameter %s=%q at %s", o.Param.Key, o.Param.Value, o.Path)
	case OpUpdateParameter:
		return fmt.Sprintf("update parameter %s: %q -> %q at %s", o.Param.Key, o.PrevValue, o.Param.Value, o.Path)
	case OpAddReference:
		return fmt.Sprintf("add %s reference -> %q at %s", o.Ref.Key, o.Ref.Target, o.Path)
	case OpRemoveReference:
		return fmt.Sprintf("remove %s reference -> %q at %s", o.Ref.Key, o.Ref.Target, o.Path)
	case OpUpdateReference:
		return fmt.Sprintf("retarget %s reference %q -> %q at %s", o.Ref.Key, o.PrevTarget, o.Ref.Target, o.Path)
	case OpUpdateCluster:
		return fmt.Sprintf("update cluster %s: %s -> %s", o.Path, o.FromPackage, o.ToPackage)
	default:
		return fmt.Sprintf("unknown op %s at %s", o.Type, o.Path)
	}
}

// ChangeSet is an ordered set of operations moving one tree snapshot to
// another.
type ChangeSet struct {
	Ops []Op `json:"ops" yaml:"ops"`
}

// Add appends an operation.
func (c *ChangeSet) Add(op Op) {
	c.Ops = append(c.Ops, op)
}

// Empty reports whether the change set contains no operations.
func (c ChangeSet) Empty() bool {
	return len(c.Ops) == 0
}

// Len returns the number of operations.
func (c ChangeSet) Len() int {
	return len(c.Ops)
}

// Inverse returns the change set undoing this one: each op inverted, in
// reverse order.
func (c ChangeSet) Inverse() ChangeSet {
	inv := ChangeSet{}
	for i := len(c.Ops) - 1; i >= 0; i-- {
		inv.Add(c.Ops[i].Inverse())
	}
	return inv
}
