package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/table"
)

// UnmanageResult reports the bits of cleanup the caller (C9's event loop,
// via C12) needs to act on after a client dies.
type UnmanageResult struct {
	WorkspaceEmptied bool
	WorkspaceID      model.WorkspaceID
	NextFocus        model.ClientID // 0 means focus the root window
}

// Unmanage implements §4.4.2 for a child that has already been confirmed
// dead (UnmapNotify/DestroyNotify not caused by our own reparent). The
// awaiting_useless_unmap short-circuit (step 1) is the caller's
// responsibility since it must be checked before Unmanage is even
// invoked, to avoid destroying a client that merely got reparented.
func (m *Manager) Unmanage(cl *model.Client) UnmanageResult {
	s := m.State
	ws := s.Workspace(cl.Workspace)
	var res UnmanageResult
	if ws != nil {
		res.WorkspaceID = ws.ID
	}

	if cl.Dock {
		if o := s.Output(cl.Output); o != nil {
			o.DockClients.Remove(cl.ID)
		}
	} else if cl.FloatingState.IsFloating() {
		if ws != nil {
			ws.Floating.Remove(cl.ID)
		}
	} else if cl.Container.Valid() {
		if cont := s.Container(cl.Container); cont != nil {
			cont.Clients.Remove(cl.ID)
			if cont.CurrentlyFocused == cl.ID {
				if next, ok := s.GetLastFocusedClientInContainer(cont, cl); ok {
					cont.CurrentlyFocused = next
				} else {
					cont.CurrentlyFocused = 0
				}
			}
		}
	}
	if ws != nil {
		ws.FocusStack.Remove(cl.ID)
		if ws.FullscreenClient == cl.ID {
			ws.FullscreenClient = 0
		}
	}

	xproto.ReparentWindowChecked(m.Conn.XU.Conn(), xproto.Window(cl.Child), m.Conn.Root(), int16(cl.Rect.X), int16(cl.Rect.Y))
	xproto.DestroyWindowChecked(m.Conn.XU.Conn(), xproto.Window(cl.Frame))

	s.DeleteClient(cl.ID)

	if ws != nil {
		workspaceEmpty := ws.FocusStack.Len() == 0 && ws.Floating.Len() == 0
		if workspaceEmpty && !s.WorkspaceIsVisible(ws) {
			ws.Output = 0
			res.WorkspaceEmptied = true
		}

		table.CleanupTable(s, ws)
		table.FixColRowSpan(s, ws)

		if s.FocusedOutput != 0 {
			if o := s.Output(s.FocusedOutput); o != nil && o.Current == ws.ID {
				if next, ok := s.GetLastFocusedClient(ws, nil); ok {
					res.NextFocus = next
				}
			}
		}
	}

	return res
}
