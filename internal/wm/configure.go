package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/layout"
	"github.com/i3/i3-sub000/internal/model"
)

// ConfigureRequest implements §4.4.3's arbitration: unmanaged windows get
// their request honored verbatim; managed windows are steered back to the
// manager's own idea of their geometry except where the mode allows the
// client a say (floating position/size, dock height).
func (m *Manager) ConfigureRequest(ev xproto.ConfigureRequestEvent, cl *model.Client) error {
	conn := m.Conn.XU.Conn()
	if cl == nil {
		return xproto.ConfigureWindowChecked(conn, ev.Window, ev.ValueMask, requestedValues(ev)).Check()
	}

	ws := m.State.Workspace(cl.Workspace)

	switch {
	case cl.Fullscreen:
		return sendSyntheticConfigure(conn, xproto.Window(cl.Child), layout.FullscreenRect(m.State, ws, false))

	case cl.FloatingState.IsFloating():
		rect := cl.Rect
		if ev.ValueMask&xproto.ConfigWindowX != 0 {
			rect.X = int32(ev.X)
		}
		if ev.ValueMask&xproto.ConfigWindowY != 0 {
			rect.Y = int32(ev.Y)
		}
		if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
			rect.Width = uint32(ev.Width)
		}
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			rect.Height = uint32(ev.Height)
		}
		cl.Rect = rect
		cl.FloatingRect = rect
		return xproto.ConfigureWindowChecked(conn, xproto.Window(cl.Frame),
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(rect.X), uint32(rect.Y), rect.Width, rect.Height}).Check()

	case cl.Dock:
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			cl.DesiredHeight = uint32(ev.Height)
		}
		return nil // re-render is triggered by the caller, which owns layout state

	default: // tiled
		return sendSyntheticConfigure(conn, xproto.Window(cl.Child), cl.ChildRect)
	}
}

// requestedValues packs whichever x/y/width/height/border-width/sibling/
// stack-mode fields ev's ValueMask selects, in protocol order, for a
// pass-through ConfigureWindow on an unmanaged client.
func requestedValues(ev xproto.ConfigureRequestEvent) []uint32 {
	var vals []uint32
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		vals = append(vals, uint32(ev.X))
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		vals = append(vals, uint32(ev.Y))
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		vals = append(vals, uint32(ev.Width))
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		vals = append(vals, uint32(ev.Height))
	}
	if ev.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		vals = append(vals, uint32(ev.BorderWidth))
	}
	if ev.ValueMask&xproto.ConfigWindowSibling != 0 {
		vals = append(vals, uint32(ev.Sibling))
	}
	if ev.ValueMask&xproto.ConfigWindowStackMode != 0 {
		vals = append(vals, uint32(ev.StackMode))
	}
	return vals
}

// sendSyntheticConfigure tells child its geometry is rect without actually
// moving/resizing anything the manager owns, matching the tiled/fullscreen
// branches of §4.4.3.
func sendSyntheticConfigure(conn *xgb.Conn, child xproto.Window, rect geom.Rect) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            child,
		Window:           child,
		AboveSibling:     0,
		X:                int16(rect.X),
		Y:                int16(rect.Y),
		Width:            uint16(rect.Width),
		Height:           uint16(rect.Height),
		BorderWidth:      0,
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(conn, false, child, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}
