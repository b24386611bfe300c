package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/model"
)

// ClientByWindow finds the managed client owning win, whether win is its
// child or its frame. A linear scan keeps model.Client free of an xgb-typed
// reverse index; the event loop is the only caller and client counts are
// small enough that this never shows up against a blocking X round trip.
func (m *Manager) ClientByWindow(win xproto.Window) *model.Client {
	w := uint32(win)
	for _, cl := range m.State.Clients {
		if cl.Child == w || cl.Frame == w {
			return cl
		}
	}
	return nil
}
