// Package table implements the grid layout engine backing each workspace:
// row/column allocation, compaction, span repair and the pixel-width
// distribution used by both the renderer and interactive boundary resize.
package table

import (
	"math"

	"github.com/i3/i3-sub000/internal/model"
)

// Axis selects which dimension of the grid an operation acts on.
type Axis int

const (
	Cols Axis = iota
	Rows
)

// ExpandCols appends one column of fresh, empty containers and a 0 factor.
func ExpandCols(s *model.State, ws *model.Workspace) {
	col := ws.Cols
	ws.Cols++
	newColumn := make([]model.ContainerID, ws.Rows)
	for r := 0; r < ws.Rows; r++ {
		newColumn[r] = s.NewContainerAt(ws.ID, col, r).ID
	}
	ws.Table = append(ws.Table, newColumn)
	ws.WidthFactor = append(ws.WidthFactor, 0)
}

// ExpandRows appends one row of fresh, empty containers and a 0 factor.
func ExpandRows(s *model.State, ws *model.Workspace) {
	row := ws.Rows
	ws.Rows++
	for c := 0; c < ws.Cols; c++ {
		cont := s.NewContainerAt(ws.ID, c, row)
		ws.Table[c] = append(ws.Table[c], cont.ID)
	}
	ws.HeightFactor = append(ws.HeightFactor, 0)
}

// ExpandColsAtHead prepends a column, shifting every existing column's
// index and every container's Col field up by one.
func ExpandColsAtHead(s *model.State, ws *model.Workspace) {
	newColumn := make([]model.ContainerID, ws.Rows)
	for r := 0; r < ws.Rows; r++ {
		newColumn[r] = s.NewContainerAt(ws.ID, 0, r).ID
	}
	ws.Table = append([][]model.ContainerID{newColumn}, ws.Table...)
	ws.WidthFactor = append([]float64{0}, ws.WidthFactor...)
	ws.Cols++
	for c := 1; c < ws.Cols; c++ {
		for r := 0; r < ws.Rows; r++ {
			if cont := s.Container(ws.Table[c][r]); cont != nil {
				cont.Col = c
			}
		}
	}
	ws.CurrentCol++
}

// ExpandRowsAtHead prepends a row, shifting every existing row's index and
// every container's Row field up by one.
func ExpandRowsAtHead(s *model.State, ws *model.Workspace) {
	for c := 0; c < ws.Cols; c++ {
		cont := s.NewContainerAt(ws.ID, c, 0)
		ws.Table[c] = append([]model.ContainerID{cont.ID}, ws.Table[c]...)
	}
	ws.HeightFactor = append([]float64{0}, ws.HeightFactor...)
	ws.Rows++
	for c := 0; c < ws.Cols; c++ {
		for r := 1; r < ws.Rows; r++ {
			if cont := s.Container(ws.Table[c][r]); cont != nil {
				cont.Row = r
			}
		}
	}
	ws.CurrentRow++
}

// redistributeRemovedFactor hands a removed track's non-zero factor to the
// last remaining track with a non-zero factor, matching the original's
// "grow the other customized track" behavior on shrink.
func redistributeRemovedFactor(factors []float64, removed float64) {
	if removed == 0 {
		return
	}
	for i := len(factors) - 1; i >= 0; i-- {
		if factors[i] != 0 {
			factors[i] += removed
			return
		}
	}
}

// ShrinkCols removes the last column, destroying its containers and
// redistributing its width factor.
func ShrinkCols(s *model.State, ws *model.Workspace) {
	if ws.Cols == 0 {
		return
	}
	last := ws.Cols - 1
	for _, cid := range ws.Table[last] {
		s.DeleteContainer(cid)
	}
	removed := ws.WidthFactor[last]
	ws.Table = ws.Table[:last]
	ws.WidthFactor = ws.WidthFactor[:last]
	ws.Cols--
	redistributeRemovedFactor(ws.WidthFactor, removed)
	if ws.CurrentCol >= ws.Cols {
		ws.CurrentCol = ws.Cols - 1
	}
}

// ShrinkRows removes the last row, destroying its containers and
// redistributing its height factor.
func ShrinkRows(s *model.State, ws *model.Workspace) {
	if ws.Rows == 0 {
		return
	}
	last := ws.Rows - 1
	for c := 0; c < ws.Cols; c++ {
		s.DeleteContainer(ws.Table[c][last])
		ws.Table[c] = ws.Table[c][:last]
	}
	removed := ws.HeightFactor[last]
	ws.HeightFactor = ws.HeightFactor[:last]
	ws.Rows--
	redistributeRemovedFactor(ws.HeightFactor, removed)
	if ws.CurrentRow >= ws.Rows {
		ws.CurrentRow = ws.Rows - 1
	}
}

// columnEmpty reports whether every container in column c is unfocused
// (i.e. empty, per the CurrentlyFocused==0 invariant from the model
// package).
func columnEmpty(s *model.State, ws *model.Workspace, c int) bool {
	for r := 0; r < ws.Rows; r++ {
		if cont := s.Container(ws.Table[c][r]); cont == nil || cont.CurrentlyFocused != 0 {
			return false
		}
	}
	return true
}

func rowEmpty(s *model.State, ws *model.Workspace, r int) bool {
	for c := 0; c < ws.Cols; c++ {
		if cont := s.Container(ws.Table[c][r]); cont == nil || cont.CurrentlyFocused != 0 {
			return false
		}
	}
	return true
}

func removeColumn(s *model.State, ws *model.Workspace, c int) {
	for r := 0; r < ws.Rows; r++ {
		s.DeleteContainer(ws.Table[c][r])
	}
	removed := ws.WidthFactor[c]
	ws.Table = append(ws.Table[:c], ws.Table[c+1:]...)
	ws.WidthFactor = append(ws.WidthFactor[:c], ws.WidthFactor[c+1:]...)
	ws.Cols--
	redistributeRemovedFactor(ws.WidthFactor, removed)
	for col := 0; col < ws.Cols; col++ {
		for r := 0; r < ws.Rows; r++ {
			if cont := s.Container(ws.Table[col][r]); cont != nil {
				cont.Col = col
			}
		}
	}
}

func removeRow(s *model.State, ws *model.Workspace, r int) {
	for c := 0; c < ws.Cols; c++ {
		s.DeleteContainer(ws.Table[c][r])
		ws.Table[c] = append(ws.Table[c][:r], ws.Table[c][r+1:]...)
	}
	removed := ws.HeightFactor[r]
	ws.HeightFactor = append(ws.HeightFactor[:r], ws.HeightFactor[r+1:]...)
	ws.Rows--
	redistributeRemovedFactor(ws.HeightFactor, removed)
	for c := 0; c < ws.Cols; c++ {
		for row := 0; row < ws.Rows; row++ {
			if cont := s.Container(ws.Table[c][row]); cont != nil {
				cont.Row = row
			}
		}
	}
}

// CleanupTable compacts ws: while more than one column/row remains, any
// column/row whose every cell is empty is removed and the survivors shift
// toward index 0. current_col/current_row are clamped to the new bounds.
func CleanupTable(s *model.State, ws *model.Workspace) {
	for ws.Cols > 1 {
		removedAny := false
		for c := 0; c < ws.Cols; c++ {
			if columnEmpty(s, ws, c) {
				removeColumn(s, ws, c)
				removedAny = true
				break
			}
		}
		if !removedAny {
			break
		}
	}
	for ws.Rows > 1 {
		removedAny := false
		for r := 0; r < ws.Rows; r++ {
			if rowEmpty(s, ws, r) {
				removeRow(s, ws, r)
				removedAny = true
				break
			}
		}
		if !removedAny {
			break
		}
	}
	if ws.CurrentCol >= ws.Cols {
		ws.CurrentCol = ws.Cols - 1
	}
	if ws.CurrentRow >= ws.Rows {
		ws.CurrentRow = ws.Rows - 1
	}
}

// FixColRowSpan decrements every container's colspan/rowspan until the
// rectangle it spans contains no other non-empty container.
func FixColRowSpan(s *model.State, ws *model.Workspace) {
	for c := 0; c < ws.Cols; c++ {
		for r := 0; r < ws.Rows; r++ {
			owner := s.Container(ws.Table[c][r])
			if owner == nil {
				continue
			}
			for owner.Colspan > 1 && spanOverlapsOther(s, ws, owner, owner.Colspan, owner.Rowspan) {
				owner.Colspan--
			}
			for owner.Rowspan > 1 && spanOverlapsOther(s, ws, owner, owner.Colspan, owner.Rowspan) {
				owner.Rowspan--
			}
		}
	}
}

func spanOverlapsOther(s *model.State, ws *model.Workspace, owner *model.Container, colspan, rowspan int) bool {
	for dc := 0; dc < colspan; dc++ {
		for dr := 0; dr < rowspan; dr++ {
			c, r := owner.Col+dc, owner.Row+dr
			if !ws.CellExists(c, r) {
				continue
			}
			id := ws.Table[c][r]
			if id == owner.ID {
				continue
			}
			if cont := s.Container(id); cont != nil && cont.CurrentlyFocused != 0 {
				return true
			}
		}
	}
	return false
}

// CellExists is a thin re-export of the Workspace method so callers that
// only import this package don't also need model.
func CellExists(ws *model.Workspace, col, row int) bool {
	return ws.CellExists(col, row)
}

// defaultShare is the width (or height) given to a zero-factor track when
// total tracks is n and the available space is total.
func defaultShare(total uint32, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// ComputeTracks distributes total pixels across len(factors) tracks: a
// non-zero factor gets factor*unoccupied; a zero factor gets its default
// share of total (§4.2). Tracks are rounded via a running cumulative sum
// rather than independently, so the remainder left by non-integer shares
// is absorbed left-to-right and the outputs always sum to total.
func ComputeTracks(factors []float64, total uint32) []uint32 {
	n := len(factors)
	if n == 0 {
		return nil
	}
	share := defaultShare(total, n)
	zeroCount := 0
	for _, f := range factors {
		if f == 0 {
			zeroCount++
		}
	}
	unoccupied := float64(total) - float64(zeroCount)*share
	if unoccupied < 0 {
		unoccupied = 0
	}

	out := make([]uint32, n)
	cum := 0.0
	var prevRounded uint32
	for i, f := range factors {
		px := share
		if f != 0 {
			px = f * unoccupied
			if px < 0 {
				px = 0
			}
		}
		cum += px
		rounded := uint32(math.Round(cum))
		out[i] = rounded - prevRounded
		prevRounded = rounded
	}
	return out
}

// ResizeBoundary adjusts the factors of the first/second tracks along axis
// by delta pixels, following the five-step procedure from §4.2: it
// rescales other customized tracks to keep their pixel share constant
// under the resulting unoccupied space, seeds any default track crossing
// into custom, then applies the ratio of old to new width to first and
// second. minSize is the tie-break floor: a track whose updated factor
// would leave it below minSize pixels is clamped to exactly minSize
// instead.
func ResizeBoundary(axis Axis, factors []float64, total uint32, first, second int, delta int32, minSize uint32) {
	n := len(factors)
	if first < 0 || second < 0 || first >= n || second >= n || first == second {
		return
	}
	share := defaultShare(total, n)
	before := ComputeTracks(factors, total)
	oldFirst, oldSecond := before[first], before[second]
	if oldFirst == 0 || oldSecond == 0 {
		return
	}

	firstWasDefault := factors[first] == 0
	secondWasDefault := factors[second] == 0

	zeroCountAfter := 0
	for i, f := range factors {
		if i == first || i == second {
			continue
		}
		if f == 0 {
			zeroCountAfter++
		}
	}
	if firstWasDefault {
		zeroCountAfter++ // still counted until step 4 seeds it below
	}
	if secondWasDefault {
		zeroCountAfter++
	}
	newUnoccupied := float64(total) - float64(zeroCountAfter)*share
	if newUnoccupied <= 0 {
		newUnoccupied = float64(total)
	}

	oldUnoccupied := float64(total)
	zeroCountBefore := 0
	for _, f := range factors {
		if f == 0 {
			zeroCountBefore++
		}
	}
	oldUnoccupied -= float64(zeroCountBefore) * share
	if oldUnoccupied <= 0 {
		oldUnoccupied = float64(total)
	}

	scale := oldUnoccupied / newUnoccupied
	for i, f := range factors {
		if i == first || i == second || f == 0 {
			continue
		}
		factors[i] = f * scale
	}

	if firstWasDefault {
		factors[first] = share / newUnoccupied
	}
	if secondWasDefault {
		factors[second] = share / newUnoccupied
	}

	if oldFirst > 0 {
		factors[first] *= float64(int32(oldFirst)+delta) / float64(oldFirst)
	}
	if oldSecond > 0 {
		factors[second] *= float64(int32(oldSecond)-delta) / float64(oldSecond)
	}

	clampTrack(factors, first, total, minSize)
	clampTrack(factors, second, total, minSize)
}

func clampTrack(factors []float64, idx int, total uint32, minSize uint32) {
	if factors[idx] <= 0 {
		if total == 0 {
			factors[idx] = 0
			return
		}
		factors[idx] = float64(minSize) / float64(total)
	}
}
