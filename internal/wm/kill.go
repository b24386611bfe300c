package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/model"
)

// Kill implements the §12 supplement's kill semantics
// (original_source/src/client.c:client_kill): send a synthetic
// WM_DELETE_WINDOW ClientMessage through WM_PROTOCOLS when the client
// advertises it, falling back to XKillClient otherwise. The unmanage
// protocol itself runs later, off the resulting UnmapNotify/DestroyNotify.
func (m *Manager) Kill(cl *model.Client) error {
	conn := m.Conn
	for _, p := range conn.Protocols(xproto.Window(cl.Child)) {
		if p != "WM_DELETE_WINDOW" {
			continue
		}
		deleteAtom, err := conn.Atom("WM_DELETE_WINDOW")
		if err != nil {
			break
		}
		protocolsAtom, err := conn.Atom("WM_PROTOCOLS")
		if err != nil {
			break
		}
		ev := xproto.ClientMessageEvent{
			Format: 32,
			Window: xproto.Window(cl.Child),
			Type:   protocolsAtom,
			Data: xproto.ClientMessageDataUnionData32New([]uint32{
				uint32(deleteAtom), xproto.TimeCurrentTime, 0, 0, 0,
			}),
		}
		return xproto.SendEventChecked(conn.XU.Conn(), false, xproto.Window(cl.Child),
			xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
	}
	return xproto.KillClientChecked(conn.XU.Conn(), uint32(cl.Child)).Check()
}
