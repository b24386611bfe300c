// Package command implements the command interpreter (C10): parsing the
// single-line command grammar from SPEC_FULL.md §4.5 and executing it
// against the model, table and output packages.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/table"
)

// Runner groups every side-effecting dependency the interpreter needs
// beyond the model itself: spawning exec'd processes, telling the process
// to reload/restart/exit, and reaching the X layer for focus/kill/
// fullscreen. Kept as an interface so command.Execute can be unit tested
// without a live connection (cmd/i3wm supplies the real implementation).
type Runner interface {
	Exec(shellCmd string) error
	Reload() error
	Restart() error
	Exit()
	Kill(c *model.Client) error
	SetFullscreen(c *model.Client, global bool) error
	SetActiveWindow(c *model.Client) error
}

// Executor holds the state a command mutates.
type Executor struct {
	State *model.State
	Run   Runner
}

// Execute parses and runs a single command string, per §4.5.
func (ex *Executor) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	fields := tokenize(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "exec":
		return ex.Run.Exec(strings.TrimSpace(strings.TrimPrefix(line, "exec")))
	case "reload":
		return ex.Run.Reload()
	case "restart":
		return ex.Run.Restart()
	case "exit":
		ex.Run.Exit()
		return nil
	case "kill":
		if cl := ex.currentClient(); cl != nil {
			return ex.Run.Kill(cl)
		}
		return nil
	case "f":
		return ex.toggleFullscreen(false)
	case "fg":
		return ex.toggleFullscreen(true)
	case "s", "d", "T":
		return ex.setMode(fields[0])
	case "H":
		return ex.toggleFloatingHidden()
	case "nw":
		return ex.switchWorkspace(1)
	case "pw":
		return ex.switchWorkspace(-1)
	case "mark":
		return ex.mark(arg(fields, 1))
	case "goto":
		return ex.gotoMark(arg(fields, 1))
	case "mode":
		return ex.setKeyMode(arg(fields, 1))
	case "focus":
		return ex.focus(arg(fields, 1))
	case "resize":
		return ex.resizeCommand(fields)
	case "move":
		return ex.moveCommand(fields)
	case "stack-limit":
		return ex.stackLimit(fields)
	case "bring":
		return ex.bring(arg(fields, 1))
	case "jump":
		return ex.jump(fields[1:])
	}

	if b, ok := parseBorderCommand(fields[0]); ok {
		return ex.setBorder(b)
	}
	return ex.focusMoveSnap(fields)
}

func arg(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// tokenize splits on whitespace but keeps "double quoted phrases" intact,
// matching the grammar's <classtitle> operand.
func tokenize(line string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func (ex *Executor) currentWorkspace() *model.Workspace {
	o := ex.State.Output(ex.State.FocusedOutput)
	if o == nil {
		return nil
	}
	return ex.State.Workspace(o.Current)
}

func (ex *Executor) currentContainer() *model.Container {
	ws := ex.currentWorkspace()
	if ws == nil {
		return nil
	}
	return ex.State.Container(ws.CurrentContainer())
}

func (ex *Executor) currentClient() *model.Client {
	cont := ex.currentContainer()
	if cont == nil || cont.CurrentlyFocused == 0 {
		return nil
	}
	return ex.State.Client(cont.CurrentlyFocused)
}

func (ex *Executor) toggleFullscreen(global bool) error {
	cl := ex.currentClient()
	if cl == nil {
		return nil
	}
	return ex.Run.SetFullscreen(cl, global)
}

func (ex *Executor) setMode(which string) error {
	cont := ex.currentContainer()
	if cont == nil {
		return nil
	}
	switch which {
	case "s":
		cont.Mode = model.ModeStack
	case "d":
		cont.Mode = model.ModeDefault
	case "T":
		cont.Mode = model.ModeTabbed
	}
	return nil
}

func (ex *Executor) toggleFloatingHidden() error {
	ws := ex.currentWorkspace()
	if ws == nil {
		return nil
	}
	ws.FloatingHidden = !ws.FloatingHidden
	return nil
}

func (ex *Executor) switchWorkspace(dir int) error {
	o := ex.State.Output(ex.State.FocusedOutput)
	if o == nil {
		return nil
	}
	cur := ex.State.Workspace(o.Current)
	if cur == nil {
		return nil
	}
	n := cur.Num
	for {
		n += dir
		if n < 1 {
			return nil
		}
		if id, ok := ex.State.WorkspaceByNum[n]; ok {
			if ws := ex.State.Workspace(id); ws != nil && !isWorkspaceEmpty(ws) {
				ex.State.WorkspaceShow(ws)
				return nil
			}
			continue
		}
		return nil
	}
}

func isWorkspaceEmpty(ws *model.Workspace) bool {
	return ws.FocusStack.Len() == 0 && ws.Floating.Len() == 0
}

func (ex *Executor) mark(name string) error {
	cl := ex.currentClient()
	if cl == nil {
		return nil
	}
	for _, other := range ex.State.Clients {
		if other.Mark == name {
			other.Mark = ""
		}
	}
	cl.Mark = name
	return nil
}

func (ex *Executor) gotoMark(name string) error {
	for _, cl := range ex.State.Clients {
		if cl.Mark == name {
			ex.State.SetFocus(cl, true)
			return ex.Run.SetActiveWindow(cl)
		}
	}
	return nil
}

func (ex *Executor) setKeyMode(name string) error {
	// Only the name is validated (it must be non-empty); nothing here or in
	// the key translator changes which bindings key presses are matched
	// against.
	if name == "" {
		return fmt.Errorf("command: mode requires a name")
	}
	return nil
}

func (ex *Executor) bring(classtitle string) error {
	for _, cl := range ex.State.Clients {
		if cl.ClassClass == classtitle || cl.Name == classtitle {
			ws := ex.currentWorkspace()
			if ws == nil {
				return nil
			}
			moveClientToWorkspace(ex.State, cl, ws)
			return nil
		}
	}
	return nil
}

func (ex *Executor) jump(args []string) error {
	if len(args) == 1 {
		return ex.bring(args[0])
	}
	if len(args) == 3 {
		n, err1 := strconv.Atoi(args[0])
		col, err2 := strconv.Atoi(args[1])
		row, err3 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return fmt.Errorf("command: jump: bad operand")
		}
		ws := ex.State.WorkspaceGet(n)
		if ws.CellExists(col, row) {
			ws.CurrentCol, ws.CurrentRow = col, row
		}
		ex.State.WorkspaceShow(ws)
	}
	return nil
}

// moveClientToWorkspace detaches cl from wherever it currently lives and
// inserts it into dest's current container (or floating layer).
func moveClientToWorkspace(s *model.State, cl *model.Client, dest *model.Workspace) {
	if src := s.Workspace(cl.Workspace); src != nil {
		src.FocusStack.Remove(cl.ID)
		src.Floating.Remove(cl.ID)
	}
	if cl.Container.Valid() {
		if cont := s.Container(cl.Container); cont != nil {
			cont.Clients.Remove(cl.ID)
			if cont.CurrentlyFocused == cl.ID {
				cont.CurrentlyFocused = 0
			}
		}
		cl.Container = 0
	}
	cl.Workspace = dest.ID
	cl.Output = dest.Output
	if cl.FloatingState.IsFloating() {
		dest.Floating.PushBack(cl.ID)
	} else if cont := s.Container(dest.CurrentContainer()); cont != nil {
		cont.Clients.PushBack(cl.ID)
		cl.Container = cont.ID
	}
	dest.FocusStack.PushFront(cl.ID)
}

func (ex *Executor) resizeCommand(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("command: resize: want 'resize <dir> <pixels>'")
	}
	dir, ok := parseDirection(fields[1])
	if !ok {
		return fmt.Errorf("command: resize: bad direction %q", fields[1])
	}
	px, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("command: resize: bad pixel count: %w", err)
	}
	ws := ex.currentWorkspace()
	if ws == nil {
		return nil
	}
	return ex.resizeBoundary(ws, dir, int32(px))
}

func (ex *Executor) resizeBoundary(ws *model.Workspace, dir model.Direction, delta int32) error {
	col, row := ws.CurrentCol, ws.CurrentRow
	switch dir {
	case model.DirRight:
		if col+1 < ws.Cols {
			table.ResizeBoundary(table.Cols, ws.WidthFactor, uint32(ws.Rect.Width), col, col+1, delta, model.MinClientWidth)
		}
	case model.DirLeft:
		if col-1 >= 0 {
			table.ResizeBoundary(table.Cols, ws.WidthFactor, uint32(ws.Rect.Width), col-1, col, -delta, model.MinClientWidth)
		}
	case model.DirDown:
		if row+1 < ws.Rows {
			table.ResizeBoundary(table.Rows, ws.HeightFactor, uint32(ws.Rect.Height), row, row+1, delta, model.MinClientHeight)
		}
	case model.DirUp:
		if row-1 >= 0 {
			table.ResizeBoundary(table.Rows, ws.HeightFactor, uint32(ws.Rect.Height), row-1, row, -delta, model.MinClientHeight)
		}
	}
	return nil
}

func (ex *Executor) stackLimit(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("command: stack-limit: want 'stack-limit (rows|cols) <n>'")
	}
	cont := ex.currentContainer()
	if cont == nil {
		return nil
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("command: stack-limit: bad count: %w", err)
	}
	switch fields[1] {
	case "rows":
		cont.StackLimit = model.StackLimitRows
	case "cols":
		cont.StackLimit = model.StackLimitCols
	default:
		return fmt.Errorf("command: stack-limit: bad axis %q", fields[1])
	}
	cont.StackLimitValue = n
	return nil
}

// borderToggle is the style value parseBorderCommand returns for "bt";
// setBorder turns it into one step through the three styles.
const borderToggle model.BorderStyle = -1

func parseBorderCommand(tok string) (model.BorderStyle, bool) {
	switch tok {
	case "bn":
		return model.BorderNormal, true
	case "bp":
		return model.BorderPixel, true
	case "bb":
		return model.BorderNone, true
	case "bt":
		return borderToggle, true
	}
	return 0, false
}

func (ex *Executor) setBorder(style model.BorderStyle) error {
	cl := ex.currentClient()
	if cl == nil {
		return nil
	}
	if style == borderToggle {
		// "bt": toggle cycles through the three styles rather than
		// jumping straight to borderless (§12 supplement,
		// original_source/src/client.c:client_change_border).
		cl.Border = (cl.Border + 1) % 3
		return nil
	}
	cl.Border = style
	return nil
}

func parseDirection(tok string) (model.Direction, bool) {
	switch tok {
	case "h", "left":
		return model.DirLeft, true
	case "j", "down":
		return model.DirDown, true
	case "k", "up":
		return model.DirUp, true
	case "l", "right":
		return model.DirRight, true
	}
	return 0, false
}
