package model

import (
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/list"
)

// Workspace is numbered from 1 and holds a 2-D grid of containers plus the
// floating layer (§3.1).
type Workspace struct {
	ID  WorkspaceID
	Num int

	Name      string
	NameWidth uint32 // cached pixel width of Name, set by the draw service

	// Table[col][row] holds owning references to containers. Empty
	// cells are a Container with an empty client list, never nil, once
	// the row/column has been allocated.
	Table        [][]ContainerID
	Cols, Rows   int
	WidthFactor  []float64
	HeightFactor []float64

	// CurrentCol/CurrentRow select a cell within the grid; valid iff
	// Cols > 0 && Rows > 0.
	CurrentCol, CurrentRow int

	// FocusStack is most-recently-focused-first and spans both tiled
	// and floating members (docks excepted).
	FocusStack *list.OrderedSet[ClientID]

	// Floating is the floating layer's z-order, bottom to top.
	Floating *list.OrderedSet[ClientID]

	FullscreenClient ClientID

	Output               OutputID
	PreferredOutputName string

	Rect geom.Rect

	Urgent         bool
	AutoFloat      bool
	FloatingHidden bool
}

// NewWorkspace returns a workspace numbered num with a single empty
// container at (0, 0), matching the "newly created workspace" shape the
// original assumes throughout §3.6.
func NewWorkspace(id WorkspaceID, num int, firstContainer ContainerID) *Workspace {
	return &Workspace{
		ID:           id,
		Num:          num,
		Table:        [][]ContainerID{{firstContainer}},
		Cols:         1,
		Rows:         1,
		WidthFactor:  []float64{0},
		HeightFactor: []float64{0},
		FocusStack:   list.New[ClientID](),
		Floating:     list.New[ClientID](),
	}
}

// CellExists reports whether (col, row) is within the current grid bounds
// (§4.2, cell_exists).
func (w *Workspace) CellExists(col, row int) bool {
	return col >= 0 && col < w.Cols && row >= 0 && row < w.Rows
}

// CurrentContainer returns the container id at the current selection, or 0
// if the grid is empty.
func (w *Workspace) CurrentContainer() ContainerID {
	if !w.CellExists(w.CurrentCol, w.CurrentRow) {
		return 0
	}
	return w.Table[w.CurrentCol][w.CurrentRow]
}
