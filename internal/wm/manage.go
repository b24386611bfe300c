// Package wm implements the window manager core (C9): the manage/unmanage
// protocol, configure-request arbitration, stacking order, the drag
// pointer loop and its callbacks, and urgency propagation.
package wm

import (
	"path/filepath"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/layout"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/x11"
)

// Manager ties the pure model/table/layout packages to a live X
// connection, matching the way _teacher_ref/main.go threads a single
// xgbutil.XUtil through every helper instead of passing raw window ids
// around.
type Manager struct {
	State *model.State
	Conn  *x11.Conn

	Metrics     layout.Metrics
	Assignments []model.Assignment
	Palette     geom.Palette

	DefaultBorder   model.BorderStyle
	DefaultTitlebar model.TitlebarPosition

	// activeDrag is the callback the in-progress Drag loop applies to
	// each coalesced MotionNotify (§4.4.5/4.4.6).
	activeDrag DragCallback
}

func matchPattern(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	ok, err := filepath.Match(pattern, value)
	return err == nil && ok
}

// matchAssignment returns the first assignment whose class/title patterns
// both match, or nil.
func (m *Manager) matchAssignment(class, title string) *model.Assignment {
	for i := range m.Assignments {
		a := &m.Assignments[i]
		if matchPattern(a.ClassPattern, class) && matchPattern(a.TitlePattern, title) {
			return a
		}
	}
	return nil
}

// Manage implements §4.4.1: frame, reparent, read hints, place and map a
// newly seen child window. startup is true during the initial sweep of
// already-mapped windows (§12 supplement); the manage protocol is
// otherwise identical, except step 1's "unmapped during startup" check
// only applies then.
func (m *Manager) Manage(child xproto.Window, overrideRedirect, alreadyUnmapped, startup bool) (*model.Client, error) {
	if overrideRedirect {
		return nil, nil
	}
	if startup && alreadyUnmapped {
		return nil, nil
	}
	for _, cl := range m.State.Clients {
		if cl.Child == uint32(child) {
			return nil, nil
		}
	}

	conn := m.Conn
	geomReply, err := xproto.GetGeometry(conn.XU.Conn(), xproto.Drawable(child)).Reply()
	if err != nil {
		return nil, err
	}

	frame, err := xproto.NewWindowId(conn.XU.Conn())
	if err != nil {
		return nil, err
	}
	root := conn.Root()
	screen := conn.XU.Screen()
	mask := uint32(xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
	values := []uint32{
		0,
		1,
		xproto.EventMaskExposure | xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
			xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow | xproto.EventMaskStructureNotify,
	}
	err = xproto.CreateWindowChecked(conn.XU.Conn(), screen.RootDepth, frame, root,
		int16(geomReply.X), int16(geomReply.Y), geomReply.Width, geomReply.Height, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, mask, values).Check()
	if err != nil {
		return nil, err
	}

	xproto.ChangeSaveSetChecked(conn.XU.Conn(), xproto.SetModeInsert, child)

	titleH := m.Metrics.TitleLineHeight
	reparentY := int16(0)
	if m.DefaultTitlebar == model.TitlebarTop {
		reparentY = int16(titleH)
	}
	xproto.ReparentWindowChecked(conn.XU.Conn(), child, frame, 0, reparentY)

	xproto.ChangeWindowAttributesChecked(conn.XU.Conn(), child, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange | xproto.EventMaskEnterWindow | xproto.EventMaskStructureNotify})

	cl := m.State.NewClient()
	cl.Child = uint32(child)
	cl.Frame = uint32(frame)
	cl.Border = m.DefaultBorder
	cl.TitlebarPosition = m.DefaultTitlebar
	cl.NeverFloated = true
	cl.Rect = geom.Rect{X: int32(geomReply.X), Y: int32(geomReply.Y), Width: uint32(geomReply.Width), Height: uint32(geomReply.Height)}
	cl.BorderWidth = int32(geomReply.BorderWidth)

	name, usesNet, err := conn.Name(child)
	if err == nil {
		cl.Name = name
		cl.UsesNetWMName = usesNet
	}
	cl.ClassInstance, cl.ClassClass = conn.Class(child)

	targetWorkspace := m.State.WorkspaceGet(1)
	floatingOnly := false
	for _, t := range conn.WindowTypes(child) {
		switch t {
		case x11.WindowTypeDock:
			cl.Dock = true
			cl.Borderless = true
			cl.TitlebarPosition = model.TitlebarOff
		case x11.WindowTypeDialog, x11.WindowTypeUtility, x11.WindowTypeToolbar, x11.WindowTypeSplash:
			cl.FloatingState = model.FloatingAutoOn
		}
	}

	if cl.Dock {
		if strut, ok := conn.StrutPartial(child); ok && (strut.Top != 0 || strut.Bottom != 0) {
			cl.DesiredHeight = strut.Top + strut.Bottom
		} else {
			cl.DesiredHeight = cl.Rect.Height
		}
	}

	cl.Leader = conn.ClientLeader(child)
	var leader *model.Client
	if cl.Leader != 0 {
		cl.Urgent = true
		leader = m.ClientByWindow(xproto.Window(cl.Leader))
	}

	if a := m.matchAssignment(cl.ClassClass, cl.Name); a != nil {
		switch a.Target {
		case model.AssignFloating:
			cl.FloatingState = model.FloatingAutoOn
		case model.AssignWorkspace:
			targetWorkspace = m.State.WorkspaceGet(a.TargetWorkspace)
		case model.AssignFloatingAndWorkspace:
			cl.FloatingState = model.FloatingAutoOn
			targetWorkspace = m.State.WorkspaceGet(a.TargetWorkspace)
			floatingOnly = false
		}
		if a.Target == model.AssignFloating {
			floatingOnly = true
		}
	}
	_ = floatingOnly

	cl.Workspace = targetWorkspace.ID
	cl.Output = targetWorkspace.Output

	if cl.Dock {
		if o := m.State.Output(targetWorkspace.Output); o != nil {
			o.DockClients.PushBack(cl.ID)
		}
	} else if cl.FloatingState.IsFloating() {
		targetWorkspace.Floating.PushBack(cl.ID)
		if targetWorkspace.FullscreenClient.Valid() {
			targetWorkspace.FocusStack.InsertAfter(targetWorkspace.FullscreenClient, cl.ID)
		} else {
			targetWorkspace.FocusStack.PushFront(cl.ID)
		}
		centerFloating(m.State, cl, targetWorkspace)
	} else {
		containerID := targetWorkspace.CurrentContainer()
		if leader != nil && leader.Container.Valid() {
			if lc := m.State.Container(leader.Container); lc != nil && lc.Workspace == targetWorkspace.ID {
				containerID = leader.Container
			}
		}
		cont := m.State.Container(containerID)
		if cont != nil {
			if cont.CurrentlyFocused != 0 {
				cont.Clients.InsertAfter(cont.CurrentlyFocused, cl.ID)
			} else {
				cont.Clients.PushBack(cl.ID)
			}
			cl.Container = cont.ID
		}
		if targetWorkspace.FullscreenClient.Valid() {
			targetWorkspace.FocusStack.InsertAfter(targetWorkspace.FullscreenClient, cl.ID)
		} else {
			targetWorkspace.FocusStack.PushFront(cl.ID)
		}
	}

	if conn.NetWMStateFullscreen(child) {
		cl.Fullscreen = true
		targetWorkspace.FullscreenClient = cl.ID
	}

	xproto.MapWindowChecked(conn.XU.Conn(), child)
	if m.State.WorkspaceIsVisible(targetWorkspace) {
		xproto.MapWindowChecked(conn.XU.Conn(), frame)
	}

	if !cl.Dock && (!m.State.Workspace(cl.Workspace).FullscreenClient.Valid() || m.State.Workspace(cl.Workspace).FullscreenClient == cl.ID) {
		m.State.SetFocus(cl, false)
		conn.SetActiveWindow(child)
	}

	return cl, nil
}

// centerFloating implements §4.4.1 step 13: center a newly floated client
// on its leader (if any) or on the workspace, the first time it floats.
func centerFloating(s *model.State, cl *model.Client, ws *model.Workspace) {
	if !cl.NeverFloated {
		return
	}
	cl.NeverFloated = false
	var target geom.Rect
	if cl.Leader != 0 {
		for _, other := range s.Clients {
			if other.Child == cl.Leader {
				target = other.Rect
				break
			}
		}
	}
	if target.Width == 0 {
		target = ws.Rect
	}
	center := target.Center()
	w, h := cl.Rect.Width, cl.Rect.Height
	if w == 0 {
		w = model.MinClientWidth
	}
	if h == 0 {
		h = model.MinClientHeight
	}
	cl.FloatingRect = geom.Rect{X: center.X - int32(w/2), Y: center.Y - int32(h/2), Width: w, Height: h}
	cl.Rect = cl.FloatingRect
}
