package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/table"
)

// DragCallback receives the client's rect as of drag start and the
// pointer's current root coordinates; it returns the client's updated
// rect (§4.4.5/4.4.6).
type DragCallback func(old geom.Rect, rootX, rootY int32) geom.Rect

// sanityMargin is the minimum number of client pixels §4.4.6 requires to
// stay inside the workspace rect during a floating move.
const sanityMargin = 5

// Drag runs the synchronous pointer-drag loop described in §4.4.5: grab
// the pointer, dispatch coalesced MotionNotify events to cb, and stop on
// ButtonRelease (normal end) or UnmapNotify of the dragged client (abort).
// next is called by the caller's event-reading loop to pull one X event;
// it returns ok=false when the connection is closed.
func (m *Manager) Drag(cl *model.Client, cb DragCallback, next func() (interface{}, bool)) (aborted bool, err error) {
	m.activeDrag = cb
	defer func() { m.activeDrag = nil }()
	conn := m.Conn.XU.Conn()
	root := m.Conn.Root()

	grabErr := xproto.GrabPointerChecked(conn, false, root,
		xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, 0, xproto.TimeCurrentTime).Check()
	if grabErr != nil {
		return false, grabErr
	}
	defer xproto.UngrabPointerChecked(conn, xproto.TimeCurrentTime)

	var pendingMotion *xproto.MotionNotifyEvent
	for {
		ev, ok := next()
		if !ok {
			return false, nil
		}
		switch e := ev.(type) {
		case xproto.MotionNotifyEvent:
			cp := e
			pendingMotion = &cp // only the most recent motion between polls is delivered
		case xproto.UnmapNotifyEvent:
			if e.Window == xproto.Window(cl.Child) {
				return true, nil
			}
		case xproto.ButtonReleaseEvent:
			if pendingMotion != nil {
				m.dispatchMotion(cl, pendingMotion)
			}
			return false, nil
		default:
			if pendingMotion != nil {
				m.dispatchMotion(cl, pendingMotion)
				pendingMotion = nil
			}
		}
	}
}

func (m *Manager) dispatchMotion(cl *model.Client, e *xproto.MotionNotifyEvent) {
	// Drag stores its cb argument in m.activeDrag for the length of its
	// loop; each coalesced motion is applied through it here.
	if m.activeDrag != nil {
		cl.Rect = m.activeDrag(cl.Rect, int32(e.RootX), int32(e.RootY))
	}
}

// MoveFloating implements the "move floating" drag callback (§4.4.6): the
// new rect is old translated by (root - start), dropped (rect unchanged)
// if fewer than sanityMargin client pixels would remain inside ws.Rect.
func MoveFloating(ws *model.Workspace, startRootX, startRootY int32) DragCallback {
	return func(old geom.Rect, rootX, rootY int32) geom.Rect {
		dx, dy := rootX-startRootX, rootY-startRootY
		moved := geom.Rect{X: old.X + dx, Y: old.Y + dy, Width: old.Width, Height: old.Height}
		visibleW := overlap1D(moved.X, int32(moved.Width), ws.Rect.X, int32(ws.Rect.Width))
		visibleH := overlap1D(moved.Y, int32(moved.Height), ws.Rect.Y, int32(ws.Rect.Height))
		if visibleW < sanityMargin || visibleH < sanityMargin {
			return old
		}
		return moved
	}
}

func overlap1D(pos, size, boundStart, boundSize int32) int32 {
	lo := pos
	if boundStart > lo {
		lo = boundStart
	}
	hi := pos + size
	if boundStart+boundSize < hi {
		hi = boundStart + boundSize
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}

// Corner selects which edge(s) a resize drag moves.
type Corner int

const (
	CornerNE Corner = iota
	CornerNW
	CornerSE
	CornerSW
)

// ResizeFloating implements the "resize floating" drag callback (§4.4.6):
// the delta is applied to width and/or x (symmetrically for height/y)
// depending on corner, clamped to the client minimums.
func ResizeFloating(corner Corner, startRootX, startRootY int32) DragCallback {
	return func(old geom.Rect, rootX, rootY int32) geom.Rect {
		dx, dy := rootX-startRootX, rootY-startRootY
		r := old
		switch corner {
		case CornerNE:
			r.Width = clampDim(int32(old.Width)+dx, model.MinClientWidth)
			r.Height = clampDim(int32(old.Height)-dy, model.MinClientHeight)
			r.Y = old.Y + int32(old.Height) - int32(r.Height)
		case CornerNW:
			r.Width = clampDim(int32(old.Width)-dx, model.MinClientWidth)
			r.Height = clampDim(int32(old.Height)-dy, model.MinClientHeight)
			r.X = old.X + int32(old.Width) - int32(r.Width)
			r.Y = old.Y + int32(old.Height) - int32(r.Height)
		case CornerSE:
			r.Width = clampDim(int32(old.Width)+dx, model.MinClientWidth)
			r.Height = clampDim(int32(old.Height)+dy, model.MinClientHeight)
		case CornerSW:
			r.Width = clampDim(int32(old.Width)-dx, model.MinClientWidth)
			r.Height = clampDim(int32(old.Height)+dy, model.MinClientHeight)
			r.X = old.X + int32(old.Width) - int32(r.Width)
		}
		return r
	}
}

func clampDim(v int32, min int) uint32 {
	if v < int32(min) {
		return uint32(min)
	}
	return uint32(v)
}

// ResizeTiledBoundary implements the "resize tiled (border drag)"
// callback (§4.4.6): it calls into the table engine with the two
// neighboring tracks and a pixel delta, leaving current_col/current_row
// and container membership untouched.
func ResizeTiledBoundary(ws *model.Workspace, axis table.Axis, first, second int, total uint32, delta int32, minSize uint32) {
	factors := ws.WidthFactor
	if axis == table.Rows {
		factors = ws.HeightFactor
	}
	table.ResizeBoundary(axis, factors, total, first, second, delta, minSize)
}
