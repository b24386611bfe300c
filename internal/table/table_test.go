package table

import (
	"testing"

	"github.com/i3/i3-sub000/internal/model"
)

func newTestWorkspace(s *model.State) *model.Workspace {
	first := s.NewContainerAt(1, 0, 0)
	ws := model.NewWorkspace(1, 1, first.ID)
	s.Workspaces[ws.ID] = ws
	return ws
}

func TestExpandColsAddsEmptyFactor(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	ExpandCols(s, ws)
	if ws.Cols != 2 {
		t.Fatalf("Cols = %d, want 2", ws.Cols)
	}
	if len(ws.WidthFactor) != 2 || ws.WidthFactor[1] != 0 {
		t.Fatalf("WidthFactor = %v, want trailing 0", ws.WidthFactor)
	}
	if len(ws.Table[1]) != ws.Rows {
		t.Fatalf("new column has %d rows, want %d", len(ws.Table[1]), ws.Rows)
	}
}

func TestExpandColsAtHeadShiftsIndices(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	oldID := ws.Table[0][0]
	ExpandColsAtHead(s, ws)
	if ws.Cols != 2 {
		t.Fatalf("Cols = %d, want 2", ws.Cols)
	}
	if ws.Table[1][0] != oldID {
		t.Fatalf("original container did not shift to column 1")
	}
	if got := s.Container(oldID).Col; got != 1 {
		t.Fatalf("original container Col = %d, want 1", got)
	}
	if ws.CurrentCol != 1 {
		t.Fatalf("CurrentCol = %d, want 1 after head insert", ws.CurrentCol)
	}
}

func TestShrinkColsRedistributesFactor(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	ExpandCols(s, ws)
	ws.WidthFactor[0] = 0.6
	ws.WidthFactor[1] = 0.4
	ShrinkCols(s, ws)
	if ws.Cols != 1 {
		t.Fatalf("Cols = %d, want 1", ws.Cols)
	}
	if ws.WidthFactor[0] != 1.0 {
		t.Fatalf("WidthFactor[0] = %v, want 1.0 after absorbing removed 0.4", ws.WidthFactor[0])
	}
}

func TestShrinkColsNoRedistributeWhenDefault(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	ExpandCols(s, ws)
	ShrinkCols(s, ws)
	if ws.WidthFactor[0] != 0 {
		t.Fatalf("WidthFactor[0] = %v, want 0 (no customized track to redistribute to)", ws.WidthFactor[0])
	}
}

func TestCleanupTableRemovesEmptyColumn(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	ExpandCols(s, ws)

	occupied := s.Container(ws.Table[0][0])
	occupied.CurrentlyFocused = 1 // mark column 0 non-empty

	CleanupTable(s, ws)
	if ws.Cols != 1 {
		t.Fatalf("Cols = %d, want 1 after compacting the empty column", ws.Cols)
	}
	if ws.Table[0][0] != occupied.ID {
		t.Fatalf("surviving column does not hold the occupied container")
	}
}

func TestCleanupTableNeverDropsToZero(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	// single, entirely empty column/row: must not be removed, 1x1 is the floor.
	CleanupTable(s, ws)
	if ws.Cols != 1 || ws.Rows != 1 {
		t.Fatalf("Cols=%d Rows=%d, want 1x1 floor preserved", ws.Cols, ws.Rows)
	}
}

func TestFixColRowSpanShrinksOnOverlap(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	ExpandCols(s, ws)

	owner := s.Container(ws.Table[0][0])
	owner.Colspan = 2
	neighbor := s.Container(ws.Table[1][0])
	neighbor.CurrentlyFocused = 1 // occupied neighbor blocks the span

	FixColRowSpan(s, ws)
	if owner.Colspan != 1 {
		t.Fatalf("Colspan = %d, want 1 once the span hit a non-empty neighbor", owner.Colspan)
	}
}

func TestFixColRowSpanKeepsSpanOverEmptyCells(t *testing.T) {
	s := model.NewState()
	ws := newTestWorkspace(s)
	ExpandCols(s, ws)

	owner := s.Container(ws.Table[0][0])
	owner.Colspan = 2

	FixColRowSpan(s, ws)
	if owner.Colspan != 2 {
		t.Fatalf("Colspan = %d, want unchanged 2 when the spanned cell is empty", owner.Colspan)
	}
}

func TestComputeTracksEqualSplitWithNoFactors(t *testing.T) {
	widths := ComputeTracks([]float64{0, 0, 0}, 300)
	for i, w := range widths {
		if w != 100 {
			t.Fatalf("widths[%d] = %d, want 100", i, w)
		}
	}
}

func TestComputeTracksHonorsCustomFactor(t *testing.T) {
	// one custom column at 0.5 of the unoccupied space, two default columns.
	widths := ComputeTracks([]float64{0.5, 0, 0}, 300)
	// default share is 300/3=100 for each zero column regardless of the
	// custom column's presence (per the §4.2 definition), so unoccupied =
	// 300 - 2*100 = 100, and the custom column gets 0.5*100 = 50.
	if widths[0] != 50 {
		t.Fatalf("widths[0] = %d, want 50", widths[0])
	}
	if widths[1] != 100 || widths[2] != 100 {
		t.Fatalf("widths = %v, want default columns at 100", widths)
	}
}

func TestComputeTracksDistributesRemainderLeftToRight(t *testing.T) {
	// three empty tiled columns at 1000px, per the seed scenario: 333, 334, 333
	// with the remainder absorbed into the middle column by cumulative rounding.
	widths := ComputeTracks([]float64{0, 0, 0}, 1000)
	want := []uint32{333, 334, 333}
	for i, w := range widths {
		if w != want[i] {
			t.Fatalf("widths = %v, want %v", widths, want)
		}
	}
	var sum uint32
	for _, w := range widths {
		sum += w
	}
	if sum != 1000 {
		t.Fatalf("widths sum to %d, want 1000", sum)
	}
}

func TestResizeBoundaryRoundTrip(t *testing.T) {
	factors := []float64{0, 0}
	total := uint32(400)
	ResizeBoundary(Cols, factors, total, 0, 1, 40, 75)
	grown := ComputeTracks(factors, total)

	back := []float64{factors[0], factors[1]}
	ResizeBoundary(Cols, back, total, 0, 1, -40, 75)
	restored := ComputeTracks(back, total)

	if grown[0] <= 200 {
		t.Fatalf("first track did not grow after +delta: %v", grown)
	}
	if restored[0] < 190 || restored[0] > 210 {
		t.Fatalf("round-trip resize did not return near the original split: %v", restored)
	}
}

func TestResizeBoundaryClampsAtMinimum(t *testing.T) {
	factors := []float64{0, 0}
	total := uint32(200)
	ResizeBoundary(Cols, factors, total, 0, 1, -190, 75)
	widths := ComputeTracks(factors, total)
	if widths[0] < 74 {
		t.Fatalf("widths[0] = %d, fell below the minimum floor", widths[0])
	}
}
