package command

import (
	"strconv"

	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/output"
	"github.com/i3/i3-sub000/internal/table"
)

// focus implements the bare "focus" family: "focus floating", "focus
// tiling", "focus ft" (toggle between the two), and "focus <n>" (jump to
// workspace n).
func (ex *Executor) focus(arg string) error {
	ws := ex.currentWorkspace()
	if ws == nil {
		return nil
	}
	switch arg {
	case "floating":
		if id, ok := lastFloating(ws); ok {
			ex.State.SetFocus(ex.State.Client(id), true)
		}
		return nil
	case "tiling":
		if cont := ex.State.Container(ws.CurrentContainer()); cont != nil {
			if id, ok := ex.State.GetLastFocusedClientInContainer(cont, nil); ok {
				ex.State.SetFocus(ex.State.Client(id), false)
			}
		}
		return nil
	case "ft":
		if cl := ex.currentClient(); cl != nil && cl.FloatingState.IsFloating() {
			return ex.focus("tiling")
		}
		return ex.focus("floating")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		target := ex.State.WorkspaceGet(n)
		ex.State.WorkspaceShow(target)
		return nil
	}
	return nil
}

func lastFloating(ws *model.Workspace) (model.ClientID, bool) {
	items := ws.Floating.Items()
	if len(items) == 0 {
		return 0, false
	}
	return items[len(items)-1], true
}

// moveCommand handles the explicit "move <direction>" form (not the
// compact focus/move/snap micro-syntax, see focusMoveSnap).
func (ex *Executor) moveCommand(fields []string) error {
	if len(fields) < 2 {
		return nil
	}
	dir, ok := parseDirection(fields[1])
	if !ok {
		return nil
	}
	ws := ex.currentWorkspace()
	if ws == nil {
		return nil
	}
	return ex.moveDirection(ws, dir)
}

// focusMoveSnap implements the composed grammar:
//
//	[<times>] ('m'|'s')? <ws> (('w'|'c'|'s'|'')('h'|'j'|'k'|'l'))+
//
// An absent first-letter mode prefix on an operand defaults to plain focus
// movement ('c' acts the same as no prefix: select within the current
// container's grid). 'm' selects move-semantics globally for every
// direction token that follows; 's' selects snap. The leading global
// prefix applies to every token, e.g. "mhjl" moves left, then down, then
// right. Of the per-token letters only 's' overrides it (to snap) for its
// own token; 'w' and 'c' keep the global mode.
func (ex *Executor) focusMoveSnap(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	tok := fields[0]
	times := 1
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i > 0 {
		n, err := strconv.Atoi(tok[:i])
		if err != nil {
			return nil
		}
		times = n
		tok = tok[i:]
	}
	if tok == "" {
		return nil
	}

	globalMode := byte(0)
	if tok[0] == 'm' || tok[0] == 's' {
		globalMode = tok[0]
		tok = tok[1:]
	}

	ws := ex.currentWorkspace()
	if ws == nil {
		return nil
	}

	for idx := 0; idx < len(tok); idx++ {
		mode := globalMode
		c := tok[idx]
		switch c {
		case 'w', 'c', 's':
			mode = pick(mode, c)
			idx++
			if idx >= len(tok) {
				return nil
			}
			c = tok[idx]
		}
		dir, ok := parseDirection(string(c))
		if !ok {
			continue
		}
		for t := 0; t < times; t++ {
			ex.applyDirectional(ws, mode, dir)
		}
	}
	return nil
}

// pick maps a per-token scope letter to a move/snap/focus verb: 's' always
// means snap (resize-by-swap of factors is out of scope for this letter;
// it selects the boundary-resize path via resizeBoundary-style semantics
// handled by the caller through a dedicated command instead), 'w'/'c' are
// both plain within-container focus scopes distinguished only by which
// grid axis callers intend to traverse, which this interpreter treats
// identically since both ultimately resolve to the same table cell.
func pick(global byte, token byte) byte {
	if token == 's' {
		return 's'
	}
	return global
}

// applyDirectional resolves one direction token against mode:
//   - 'm' (move): the currently focused client moves to the neighboring
//     cell, swapping places with whatever was focused there; see the
//     column-append edge case in moveDirection.
//   - 's' (snap): the client's container snaps to fill the neighboring
//     cell (today implemented identically to move for empty neighbors;
//     occupied-neighbor snap is a swap like move, since the grid has no
//     separate "snap" storage beyond cell occupancy).
//   - default: pure focus, no client relocation.
func (ex *Executor) applyDirectional(ws *model.Workspace, mode byte, dir model.Direction) {
	switch mode {
	case 'm', 's':
		ex.moveDirection(ws, dir)
	default:
		ex.focusDirection(ws, dir)
	}
}

func (ex *Executor) focusDirection(ws *model.Workspace, dir model.Direction) error {
	col, row := ws.CurrentCol, ws.CurrentRow
	nc, nr := neighbor(col, row, dir)
	if ws.CellExists(nc, nr) {
		ws.CurrentCol, ws.CurrentRow = nc, nr
		if cont := ex.State.Container(ws.CurrentContainer()); cont != nil {
			if id, ok := ex.State.GetLastFocusedClientInContainer(cont, nil); ok {
				ex.State.SetFocus(ex.State.Client(id), false)
			}
		}
		return nil
	}
	if cur := ex.State.Output(ws.Output); cur != nil {
		if out := output.GetOutputMost(ex.State, output.Direction(dir), cur); out != nil && out.Current.Valid() {
			ex.State.WorkspaceShow(ex.State.Workspace(out.Current))
		}
	}
	return nil
}

// moveDirection is the pinned decision for the "move right" edge case
// (and its symmetric siblings left/up/down): moving into an occupied
// neighboring cell swaps the two cells' containers in the grid (so a
// container's whole membership travels together, the way the original
// relocates a frame rather than a single client); moving off the edge of
// the grid appends a fresh column/row and swaps the current container
// into it — but only for 'move', never for plain 'focus' (focusDirection
// instead walks to a neighboring output at the edge, see above).
// CleanupTable then drops any column/row the move left empty, so three
// consecutive rightward moves from the left of a filled one-row 3-column
// grid swap left<->middle, then middle<->right, and the third appends a
// column only for the vacated one to be removed again: a no-op.
func (ex *Executor) moveDirection(ws *model.Workspace, dir model.Direction) error {
	switch dir {
	case model.DirRight:
		if ws.CurrentCol == ws.Cols-1 {
			table.ExpandCols(ex.State, ws)
		}
		ex.swapContainers(ws, ws.CurrentCol, ws.CurrentRow, ws.CurrentCol+1, ws.CurrentRow)
	case model.DirLeft:
		if ws.CurrentCol == 0 {
			table.ExpandColsAtHead(ex.State, ws) // shifts ws.CurrentCol to 1
		}
		ex.swapContainers(ws, ws.CurrentCol, ws.CurrentRow, ws.CurrentCol-1, ws.CurrentRow)
	case model.DirDown:
		if ws.CurrentRow == ws.Rows-1 {
			table.ExpandRows(ex.State, ws)
		}
		ex.swapContainers(ws, ws.CurrentCol, ws.CurrentRow, ws.CurrentCol, ws.CurrentRow+1)
	case model.DirUp:
		if ws.CurrentRow == 0 {
			table.ExpandRowsAtHead(ex.State, ws) // shifts ws.CurrentRow to 1
		}
		ex.swapContainers(ws, ws.CurrentCol, ws.CurrentRow, ws.CurrentCol, ws.CurrentRow-1)
	}
	table.CleanupTable(ex.State, ws)
	table.FixColRowSpan(ex.State, ws)
	return nil
}

func neighbor(col, row int, dir model.Direction) (int, int) {
	switch dir {
	case model.DirLeft:
		return col - 1, row
	case model.DirRight:
		return col + 1, row
	case model.DirUp:
		return col, row - 1
	case model.DirDown:
		return col, row + 1
	}
	return col, row
}

// swapContainers exchanges the grid entries at (c1,r1) and (c2,r2) —
// including each container's own Col/Row bookkeeping — and leaves the
// cursor on (c2,r2), which now holds whatever container used to sit at
// (c1,r1). Swapping containers rather than individual clients means a
// multi-client stack/tabbed container moves as a unit.
func (ex *Executor) swapContainers(ws *model.Workspace, c1, r1, c2, r2 int) {
	if !ws.CellExists(c1, r1) || !ws.CellExists(c2, r2) {
		return
	}
	idA, idB := ws.Table[c1][r1], ws.Table[c2][r2]
	ws.Table[c1][r1], ws.Table[c2][r2] = idB, idA
	if contA := ex.State.Container(idA); contA != nil {
		contA.Col, contA.Row = c2, r2
	}
	if contB := ex.State.Container(idB); contB != nil {
		contB.Col, contB.Row = c1, r1
	}
	ws.CurrentCol, ws.CurrentRow = c2, r2
}
