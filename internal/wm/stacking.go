package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/model"
)

// StackingOrder computes bottom-to-top window order for ws per §4.4.4:
// tiled, then docks, then floating (list order), then the fullscreen
// client either above tiled-but-below-floating (local) or as the absolute
// top (global).
func StackingOrder(s *model.State, ws *model.Workspace, globalFullscreen bool) []model.ClientID {
	var order []model.ClientID
	seen := make(map[model.ClientID]bool)
	add := func(id model.ClientID) {
		if id == 0 || seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
	}

	for c := 0; c < ws.Cols; c++ {
		for r := 0; r < ws.Rows; r++ {
			cont := s.Container(ws.Table[c][r])
			if cont == nil {
				continue
			}
			for _, cid := range cont.Clients.Items() {
				if cid != ws.FullscreenClient {
					add(cid)
				}
			}
		}
	}

	if o := s.Output(ws.Output); o != nil {
		for _, cid := range o.DockClients.Items() {
			add(cid)
		}
	}

	fs := ws.FullscreenClient
	if fs.Valid() && globalFullscreen {
		for _, cid := range ws.Floating.Items() {
			add(cid)
		}
		add(fs)
		return order
	}

	for _, cid := range ws.Floating.Items() {
		if cid != fs {
			add(cid)
		}
	}
	if fs.Valid() {
		// local fullscreen: above tiled/docks, below floating. Since
		// floating was already appended above, reinsert fullscreen just
		// before the floating block.
		floatingStart := len(order) - ws.Floating.Len()
		if ws.Floating.Contains(fs) {
			floatingStart++
		}
		if floatingStart < 0 {
			floatingStart = 0
		}
		order = append(order[:floatingStart], append([]model.ClientID{fs}, order[floatingStart:]...)...)
	}
	return order
}

// ApplyStacking pushes order (bottom to top) to the X server by
// restacking each frame above the previous one in turn.
func ApplyStacking(s *model.State, conn *xgb.Conn, order []model.ClientID) error {
	var prev xproto.Window
	for _, cid := range order {
		cl := s.Client(cid)
		if cl == nil {
			continue
		}
		if prev == 0 {
			prev = xproto.Window(cl.Frame)
			continue
		}
		err := xproto.ConfigureWindowChecked(conn, xproto.Window(cl.Frame),
			xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			[]uint32{uint32(prev), uint32(xproto.StackModeAbove)}).Check()
		if err != nil {
			return err
		}
		prev = xproto.Window(cl.Frame)
	}
	return nil
}

// RaiseFloating moves cid to the top of its workspace's floating z-order,
// the behavior triggered on click, drag start, or focus (§4.4.4).
func RaiseFloating(s *model.State, cl *model.Client) {
	if ws := s.Workspace(cl.Workspace); ws != nil {
		ws.Floating.MoveToBack(cl.ID)
	}
}

// Restack recomputes ws's bottom-to-top order and pushes it to the X
// server. Every manage/unmanage/fullscreen-toggle/output-reconcile path
// already ends in Render, which calls this; callers that change focus or
// z-order without otherwise touching geometry (raising a floating client,
// running a command) call it directly.
func (m *Manager) Restack(ws *model.Workspace) error {
	if ws == nil {
		return nil
	}
	order := StackingOrder(m.State, ws, false)
	return ApplyStacking(m.State, m.Conn.XU.Conn(), order)
}

// RestackAll applies Restack to every currently visible workspace, for
// callers (command dispatch) that don't know which workspace a focus
// change landed on.
func (m *Manager) RestackAll() error {
	for _, ws := range m.State.Workspaces {
		if !m.State.WorkspaceIsVisible(ws) {
			continue
		}
		if err := m.Restack(ws); err != nil {
			return err
		}
	}
	return nil
}
