package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common error conditions shared across the migration layers. Flat conditions
// are sentinels; conditions that must name the offending object for the
// operator are typed errors that unwrap to a sentinel where callers need a
// single check.

var (
	// ErrNotFound indicates the requested tenant or application profile does
	// not exist on the remote store.
	ErrNotFound = errors.New("scope not found")

	// ErrAmbiguousSelection indicates the scope was under-specified and more
	// than one candidate exists. Callers recover by prompting for a choice.
	ErrAmbiguousSelection = errors.New("ambiguous scope selection")

	// ErrResolutionConflict indicates two distinct legacy values would map to
	// folders with the same generated name.
	ErrResolutionConflict = errors.New("resolution name conflict")

	// ErrPrecondition indicates a phase was invoked before the phase it
	// depends on completed.
	ErrPrecondition = errors.New("phase precondition not met")

	// ErrIrreversibleState indicates a revert was requested after cleanup
	// removed the legacy parameters.
	ErrIrreversibleState = errors.New("cleanup already performed, revert is no longer possible")

	// ErrReadOnlyStore indicates a mutation was attempted against a snapshot
	// store, which only supports dry-run planning.
	ErrReadOnlyStore = errors.New("snapshot store is read-only")
)

// NotFoundError reports an absent tenant or application profile.
type NotFoundError struct {
	// Kind is the object class: "tenant" or "app profile".
	Kind string

	// Name is the requested object name.
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Unwrap lets callers match with errors.Is(err, ErrNotFound).
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AmbiguousSelectionError reports an under-specified scope along with the
// available candidates, so the caller can prompt for a selection.
type AmbiguousSelectionError struct {
	// Kind is the object class that needs selecting.
	Kind string

	// Candidates are the available object names.
	Candidates []string
}

func (e *AmbiguousSelectionError) Error() string {
	return fmt.Sprintf("%s not specified, candidates: %s", e.Kind, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousSelectionError) Unwrap() error { return ErrAmbiguousSelection }

// ResolutionConflictError reports that two distinct legacy values need
// folders whose generated names collide.
type ResolutionConflictError struct {
	// Name is the colliding generated folder name.
	Name string

	// Values are the distinct legacy values that both map to Name.
	Values []string
}

func (e *ResolutionConflictError) Error() string {
	if len(e.Values) == 1 {
		return fmt.Sprintf("value %s collides with existing folder %q", e.Values[0], e.Name)
	}
	return fmt.Sprintf("values %s all resolve to folder name %q", strings.Join(e.Values, ", "), e.Name)
}

func (e *ResolutionConflictError) Unwrap() error { return ErrResolutionConflict }

// UnmigratedDependencyError reports a cluster whose application profile has
// not been through the parameters phase yet. It is a hard stop for the
// clusters phase.
type UnmigratedDependencyError struct {
	// Cluster is the cluster that cannot be migrated.
	Cluster string

	// AppProfile is the unmigrated profile the cluster depends on.
	AppProfile string
}

func (e *UnmigratedDependencyError) Error() string {
	return fmt.Sprintf("cluster %q depends on app profile %q, which has not been migrated", e.Cluster, e.AppProfile)
}

func (e *UnmigratedDependencyError) Unwrap() error { return ErrPrecondition }

// IrreversibleStateError reports a revert attempted on a cleaned-up scope.
type IrreversibleStateError struct {
	// Tenant and App identify the scope.
	Tenant string
	App    string
}

func (e *IrreversibleStateError) Error() string {
	return fmt.Sprintf("scope %s/%s has been cleaned up; the legacy parameters no longer exist", e.Tenant, e.App)
}

func (e *IrreversibleStateError) Unwrap() error { return ErrIrreversibleState }
