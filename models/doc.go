// Package models provides shared data structures for the dpmigrate project.
//
// This package contains all core data models used across the migration engine,
// the remote-store SDK client, and the snapshot store. By keeping models in a
// separate package, they can be imported and reused by any component without
// creating circular dependencies.
//
// The models in this package represent:
//   - Tenants: Root configuration scopes that own application profiles
//   - AppProfiles and EPGs: Grouping objects that own typed folders
//   - Folders and Parameters: The typed configuration tree being migrated
//   - Clusters: L4-7 service clusters bound to a device-package version
//   - ChangeSets: Ordered create/rename/update/delete operations with inverses
//
// All structs include JSON tags (used by the SDK wire format and the journal)
// and YAML tags (used by the snapshot file format).
package models
