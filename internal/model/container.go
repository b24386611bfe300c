package model

import (
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/list"
)

// StackWindow is the small decoration window + pixmap atop a Stack or
// Tabbed container (§3.2, glossary). The pixmap is owned by the draw
// service (C4); this side only remembers the X ids needed to place it.
type StackWindow struct {
	Win    uint32
	Pixmap uint32
	Rect   geom.Rect
}

// Container is one cell of a workspace's grid (§3.2).
type Container struct {
	ID ContainerID

	Workspace  WorkspaceID
	Col, Row   int
	Colspan    int
	Rowspan    int

	X, Y          int32
	Width, Height uint32

	Mode Mode

	// Clients is the ordered (conceptually circular) membership list;
	// index 0 is not distinguished except as the wrap point for
	// "next"/"previous" traversal.
	Clients *list.OrderedSet[ClientID]

	// CurrentlyFocused must be zero iff Clients is empty (§3.2
	// invariant).
	CurrentlyFocused ClientID

	StackLimit      StackLimit
	StackLimitValue int

	Stack StackWindow
}

// NewContainer returns an empty container positioned at (col, row) on ws,
// with colspan/rowspan 1 and Default mode.
func NewContainer(id ContainerID, ws WorkspaceID, col, row int) *Container {
	return &Container{
		ID:        id,
		Workspace: ws,
		Col:       col,
		Row:       row,
		Colspan:   1,
		Rowspan:   1,
		Mode:      ModeDefault,
		Clients:   list.New[ClientID](),
	}
}

// IsEmpty reports whether the container has no clients.
func (c *Container) IsEmpty() bool {
	return c.Clients.Len() == 0
}

// EffectiveMode returns ModeDefault when the container holds at most one
// client, regardless of the stored Mode — matching container_mode's
// for_frame collapsing behavior in the original (include/container.h).
func (c *Container) EffectiveMode(forFrame bool) Mode {
	if forFrame && c.Clients.Len() <= 1 {
		return ModeDefault
	}
	return c.Mode
}
