package model

import (
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/list"
)

// Output is a physical display region managed by RandR (§3.4).
type Output struct {
	ID   OutputID
	Name string

	Active bool
	Rect   geom.Rect

	Current WorkspaceID

	DockClients *list.OrderedSet[ClientID]

	BarWindow uint32
	BarGC     uint32
	BarRect   geom.Rect

	// PendingDisable/PendingChange are set during a RandR reconciliation
	// sweep (§4.8) between discovery and the reconciliation pass proper.
	PendingDisable bool
	PendingChange  bool
}

// NewOutput returns an inactive, unassigned output named name.
func NewOutput(id OutputID, name string) *Output {
	return &Output{
		ID:          id,
		Name:        name,
		DockClients: list.New[ClientID](),
	}
}
