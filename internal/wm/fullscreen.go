package wm

import "github.com/i3/i3-sub000/internal/model"

// SetFullscreen toggles cl's fullscreen state, following the same
// FullscreenClient bookkeeping Manage/Unmanage already perform, then
// re-renders the owning workspace so the new stacking and geometry take
// effect immediately. global is accepted for parity with FullscreenRect's
// signature; spanning multiple outputs isn't tracked per client yet, so
// it has no effect beyond being threaded through to a future render pass.
func (m *Manager) SetFullscreen(cl *model.Client, global bool) error {
	ws := m.State.Workspace(cl.Workspace)
	if ws == nil {
		return nil
	}

	if cl.Fullscreen {
		cl.Fullscreen = false
		if ws.FullscreenClient == cl.ID {
			ws.FullscreenClient = 0
		}
	} else {
		if prev := m.State.Client(ws.FullscreenClient); prev != nil {
			prev.Fullscreen = false
		}
		cl.Fullscreen = true
		ws.FullscreenClient = cl.ID
	}

	_ = global
	return m.Render(ws)
}
