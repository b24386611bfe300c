package command

import (
	"testing"

	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/table"
)

type stubRunner struct {
	killed     *model.Client
	fullscreen *model.Client
	fsGlobal   bool
	reloaded   bool
}

func (r *stubRunner) Exec(string) error { return nil }
func (r *stubRunner) Reload() error     { r.reloaded = true; return nil }
func (r *stubRunner) Restart() error    { return nil }
func (r *stubRunner) Exit()             {}
func (r *stubRunner) Kill(c *model.Client) error {
	r.killed = c
	return nil
}
func (r *stubRunner) SetFullscreen(c *model.Client, global bool) error {
	r.fullscreen, r.fsGlobal = c, global
	return nil
}
func (r *stubRunner) SetActiveWindow(c *model.Client) error { return nil }

func newTestExecutor() (*Executor, *model.Workspace) {
	s := model.NewState()
	o := s.NewOutput("primary")
	o.Active = true
	ws := s.WorkspaceGet(1)
	ws.Output = o.ID
	o.Current = ws.ID
	s.FocusedOutput = o.ID
	return &Executor{State: s, Run: &stubRunner{}}, ws
}

// occupyCell creates a client focused inside the container already present
// at (col, row).
func occupyCell(ex *Executor, ws *model.Workspace, col, row int) *model.Client {
	cont := ex.State.Container(ws.Table[col][row])
	cl := ex.State.NewClient()
	cl.Workspace = ws.ID
	cl.Container = cont.ID
	cont.Clients.PushBack(cl.ID)
	cont.CurrentlyFocused = cl.ID
	ws.FocusStack.PushFront(cl.ID)
	return cl
}

// threeColumnWorkspace builds a 1x3 grid with one occupant client per
// column, the shape the seed "move right" scenario starts from.
func threeColumnWorkspace(ex *Executor, ws *model.Workspace) (left, mid, right *model.Client) {
	table.ExpandCols(ex.State, ws)
	table.ExpandCols(ex.State, ws)
	left = occupyCell(ex, ws, 0, 0)
	mid = occupyCell(ex, ws, 1, 0)
	right = occupyCell(ex, ws, 2, 0)
	ws.CurrentCol, ws.CurrentRow = 0, 0
	return
}

// TestMoveRightSwapsThenNoOpsAtEdge pins the seed end-to-end scenario for
// a 1x3 grid: the first rightward move swaps the traveling container with
// the middle column, the second swaps it with the rightmost column, and
// the third — though it does append a column per the "current_col ==
// cols-1 && command == move" rule — ends up a no-op once table cleanup
// removes the resulting empty column, leaving the grid exactly as it was.
func TestMoveRightSwapsThenNoOpsAtEdge(t *testing.T) {
	ex, ws := newTestExecutor()
	_, mid, right := threeColumnWorkspace(ex, ws)

	ex.moveDirection(ws, model.DirRight)
	if ws.Cols != 3 {
		t.Fatalf("after first move right: Cols = %d, want 3 (swap, no growth)", ws.Cols)
	}
	if ws.CurrentCol != 1 {
		t.Fatalf("after first move right: CurrentCol = %d, want 1", ws.CurrentCol)
	}
	col0 := ex.State.Container(ws.Table[0][0])
	if col0.CurrentlyFocused != mid.ID {
		t.Fatalf("first move should swap the middle container into column 0")
	}

	ex.moveDirection(ws, model.DirRight)
	if ws.Cols != 3 {
		t.Fatalf("after second move right: Cols = %d, want 3 (swap, no growth)", ws.Cols)
	}
	if ws.CurrentCol != 2 {
		t.Fatalf("after second move right: CurrentCol = %d, want 2", ws.CurrentCol)
	}
	col1 := ex.State.Container(ws.Table[1][0])
	if col1.CurrentlyFocused != right.ID {
		t.Fatalf("second move should swap the rightmost container into column 1")
	}

	ex.moveDirection(ws, model.DirRight)
	if ws.Cols != 3 {
		t.Fatalf("third move right at the edge should net out to a no-op: Cols = %d, want 3", ws.Cols)
	}
	if ws.CurrentCol != 2 {
		t.Fatalf("third move right at the edge should leave the cursor in place: CurrentCol = %d, want 2", ws.CurrentCol)
	}
}

// TestFocusRightNeverGrowsGrid pins the other half of the distinction: a
// plain "focus" movement off the grid edge never creates a column, unlike
// "move".
func TestFocusRightNeverGrowsGrid(t *testing.T) {
	ex, ws := newTestExecutor()
	occupyCell(ex, ws, 0, 0)
	ws.CurrentCol, ws.CurrentRow = 0, 0

	colsBefore := ws.Cols
	ex.focusDirection(ws, model.DirRight)
	if ws.Cols != colsBefore {
		t.Fatalf("focus must never create a new column, got Cols = %d, want %d", ws.Cols, colsBefore)
	}
}

func TestKillInvokesRunner(t *testing.T) {
	ex, ws := newTestExecutor()
	cl := occupyCell(ex, ws, 0, 0)
	if err := ex.Execute("kill"); err != nil {
		t.Fatalf("kill: %v", err)
	}
	r := ex.Run.(*stubRunner)
	if r.killed != cl {
		t.Fatalf("kill should invoke Runner.Kill with the focused client")
	}
}

func TestFullscreenToggleLocalVsGlobal(t *testing.T) {
	ex, ws := newTestExecutor()
	cl := occupyCell(ex, ws, 0, 0)

	if err := ex.Execute("f"); err != nil {
		t.Fatalf("f: %v", err)
	}
	r := ex.Run.(*stubRunner)
	if r.fullscreen != cl || r.fsGlobal {
		t.Fatalf("'f' should request local fullscreen on the focused client")
	}

	if err := ex.Execute("fg"); err != nil {
		t.Fatalf("fg: %v", err)
	}
	if !r.fsGlobal {
		t.Fatalf("'fg' should request global fullscreen")
	}
}

func TestMarkAndGoto(t *testing.T) {
	ex, ws := newTestExecutor()
	cl := occupyCell(ex, ws, 0, 0)
	if err := ex.Execute("mark foo"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if cl.Mark != "foo" {
		t.Fatalf("mark should set the client's Mark field")
	}
	if err := ex.Execute("goto foo"); err != nil {
		t.Fatalf("goto: %v", err)
	}
}

func TestStackLimitSetsContainerField(t *testing.T) {
	ex, ws := newTestExecutor()
	occupyCell(ex, ws, 0, 0)
	if err := ex.Execute("stack-limit cols 2"); err != nil {
		t.Fatalf("stack-limit: %v", err)
	}
	cont := ex.State.Container(ws.CurrentContainer())
	if cont.StackLimit != model.StackLimitCols || cont.StackLimitValue != 2 {
		t.Fatalf("stack-limit cols 2 should set StackLimitCols/2, got %v/%d", cont.StackLimit, cont.StackLimitValue)
	}
}

func TestReloadInvokesRunner(t *testing.T) {
	ex, _ := newTestExecutor()
	if err := ex.Execute("reload"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !ex.Run.(*stubRunner).reloaded {
		t.Fatalf("reload should invoke Runner.Reload")
	}
}

func TestBorderToggleCycles(t *testing.T) {
	ex, ws := newTestExecutor()
	cl := occupyCell(ex, ws, 0, 0)
	cl.Border = model.BorderNormal
	if err := ex.Execute("bt"); err != nil {
		t.Fatalf("bt: %v", err)
	}
	if cl.Border != model.BorderPixel {
		t.Fatalf("bt from BorderNormal should cycle to BorderPixel, got %v", cl.Border)
	}
}

func TestFocusMoveSnapMicroSyntaxMovesTimesAndDirection(t *testing.T) {
	ex, ws := newTestExecutor()
	_, mid, _ := threeColumnWorkspace(ex, ws)

	if err := ex.Execute("1ml"); err != nil {
		t.Fatalf("micro-syntax move: %v", err)
	}
	col0 := ex.State.Container(ws.Table[0][0])
	if col0.CurrentlyFocused != mid.ID {
		t.Fatalf("'1ml' should swap in the middle container via one rightward move")
	}
}
