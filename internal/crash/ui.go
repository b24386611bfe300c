package crash

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/keys"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/x11"
)

// Drawer is the font/draw boundary the popup renders through — the same
// external service layout.RenderContainer leaves for its caller to supply,
// kept here as a narrow interface so the crash popup stays testable
// without a real font backend.
type Drawer interface {
	DrawText(win xproto.Window, rect geom.Rect, text string)
}

const (
	keysymE = 0x65
	keysymR = 0x72
)

// popupWindow is the override-redirect window created on one output.
type popupWindow struct {
	output xproto.Window // root of the screen this popup belongs to (unused beyond bookkeeping)
	win    xproto.Window
}

// UI drives the crash popup: one override-redirect window per active
// output, a keyboard grab, and the e/r choice.
type UI struct {
	conn   *x11.Conn
	trans  *keys.Translator
	drawer Drawer

	windows []popupWindow
}

// NewUI builds a UI bound to conn; drawer may be nil in tests that never
// call Show.
func NewUI(conn *x11.Conn, trans *keys.Translator, drawer Drawer) *UI {
	return &UI{conn: conn, trans: trans, drawer: drawer}
}

// Show creates one popup window per active output and grabs the keyboard.
// message is rendered via the Drawer boundary.
func (u *UI) Show(s *model.State, message string) error {
	conn := u.conn.XU.Conn()
	root := u.conn.Root()
	screen := u.conn.XU.Screen()

	for _, o := range s.Outputs {
		if !o.Active {
			continue
		}
		win, err := xproto.NewWindowId(conn)
		if err != nil {
			return err
		}
		mask := uint32(xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
		values := []uint32{0, 1, xproto.EventMaskExposure | xproto.EventMaskKeyPress}
		err = xproto.CreateWindowChecked(conn, screen.RootDepth, win, root,
			int16(o.Rect.X), int16(o.Rect.Y), uint16(o.Rect.Width), uint16(o.Rect.Height), 0,
			xproto.WindowClassInputOutput, screen.RootVisual, mask, values).Check()
		if err != nil {
			return err
		}
		if err := xproto.MapWindowChecked(conn, win).Check(); err != nil {
			return err
		}
		u.windows = append(u.windows, popupWindow{output: root, win: win})
		if u.drawer != nil {
			u.drawer.DrawText(win, o.Rect, message)
		}
	}

	reply, err := xproto.GrabKeyboard(conn, true, root, xproto.TimeCurrentTime,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("crash: grab keyboard: status %d", reply.Status)
	}
	return nil
}

// Choice is the resolved crash-popup decision (§4.9: "e" or "r").
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceReRaise
	ChoiceReExec
)

// HandleKeyPress resolves a KeyPress event's keycode against the e/r
// keysym set; any other key is ignored, matching "the crash UI cancels
// only on key press (e/r)".
func (u *UI) HandleKeyPress(keycode byte) Choice {
	return choiceForKeycode(
		u.trans.KeycodesForKeysym(keysymE),
		u.trans.KeycodesForKeysym(keysymR),
		keycode,
	)
}

// choiceForKeycode is the pure matching logic behind HandleKeyPress,
// split out so it can be exercised without a live keyboard mapping.
func choiceForKeycode(eKeycodes, rKeycodes []byte, keycode byte) Choice {
	for _, kc := range eKeycodes {
		if kc == keycode {
			return ChoiceReRaise
		}
	}
	for _, kc := range rKeycodes {
		if kc == keycode {
			return ChoiceReExec
		}
	}
	return ChoiceNone
}

// Dismiss ungrabs the keyboard and destroys every popup window.
func (u *UI) Dismiss() error {
	conn := u.conn.XU.Conn()
	if err := xproto.UngrabKeyboardChecked(conn, xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("crash: ungrab keyboard: %w", err)
	}
	for _, w := range u.windows {
		xproto.DestroyWindowChecked(conn, w.win)
	}
	u.windows = nil
	return nil
}
