// Package model holds the workspace/container/client/output data model
// (C5) and its invariants. It is deliberately free of any X11 import: the
// original's cyclic ownership (workspace ↔ container ↔ client ↔ workspace)
// is re-cast here as an arena-indexed graph, with typed IDs standing in for
// the back-references the original kept as raw pointers. X window IDs are
// carried as plain uint32 fields rather than xproto.Window, so this package
// can be unit-tested without an X connection.
package model

// ClientID, ContainerID, WorkspaceID and OutputID are handles into the
// corresponding State map. The zero value of each means "no such entity"
// (arenas are 1-indexed), mirroring the nullable pointers of the original.
type ClientID uint32
type ContainerID uint32
type WorkspaceID uint32
type OutputID uint32

// Valid reports whether the id refers to a live entity.
func (id ClientID) Valid() bool    { return id != 0 }
func (id ContainerID) Valid() bool { return id != 0 }
func (id WorkspaceID) Valid() bool { return id != 0 }
func (id OutputID) Valid() bool    { return id != 0 }
