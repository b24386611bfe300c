package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// WindowType classifies a managed window's _NET_WM_WINDOW_TYPE for the
// manage protocol's dock/dialog policy (§4.4.1 step 5).
type WindowType int

const (
	WindowTypeNormal WindowType = iota
	WindowTypeDock
	WindowTypeDialog
	WindowTypeUtility
	WindowTypeToolbar
	WindowTypeSplash
)

// Strut is a window's reserved screen-edge space, read from
// _NET_WM_STRUT_PARTIAL (§4.4.1 step 6).
type Strut struct {
	Top, Bottom uint32
}

// AspectHints mirrors the subset of WM_NORMAL_HINTS the layout engine's
// aspect-ratio correction needs (§4.3.4); zero means "not present."
type AspectHints struct {
	MinNum, MinDen, MaxNum, MaxDen int
	BaseWidth, BaseHeight          int
	WidthInc, HeightInc            int
}

// Name resolves a window's title, preferring _NET_WM_NAME (UTF-8) over
// WM_NAME, and reports which one it used so the caller can remember which
// property should govern future updates (§4.4.1 step 7, §9: once
// _NET_WM_NAME has been seen it stays authoritative even if later cleared).
func (c *Conn) Name(win xproto.Window) (name string, usesNetWMName bool, err error) {
	if n, err := ewmh.WmNameGet(c.XU, win); err == nil && n != "" {
		return n, true, nil
	}
	n, err := icccm.WmNameGet(c.XU, win)
	if err != nil {
		return "", false, err
	}
	return n, false, nil
}

// Class returns a window's WM_CLASS (instance, class); an absent property
// is not an error, it yields two empty strings.
func (c *Conn) Class(win xproto.Window) (instance, class string) {
	wc, err := icccm.WmClassGet(c.XU, win)
	if err != nil || wc == nil {
		return "", ""
	}
	return wc.Instance, wc.Class
}

// WindowTypes returns the ordered _NET_WM_WINDOW_TYPE atoms translated to
// the WindowType enum, most-specific first; an unrecognized or absent hint
// yields an empty slice (treated as WindowTypeNormal by the caller).
func (c *Conn) WindowTypes(win xproto.Window) []WindowType {
	raw, err := ewmh.WmWindowTypeGet(c.XU, win)
	if err != nil {
		return nil
	}
	var out []WindowType
	for _, s := range raw {
		switch s {
		case "_NET_WM_WINDOW_TYPE_DOCK":
			out = append(out, WindowTypeDock)
		case "_NET_WM_WINDOW_TYPE_DIALOG":
			out = append(out, WindowTypeDialog)
		case "_NET_WM_WINDOW_TYPE_UTILITY":
			out = append(out, WindowTypeUtility)
		case "_NET_WM_WINDOW_TYPE_TOOLBAR":
			out = append(out, WindowTypeToolbar)
		case "_NET_WM_WINDOW_TYPE_SPLASH":
			out = append(out, WindowTypeSplash)
		}
	}
	return out
}

// StrutPartial reads _NET_WM_STRUT_PARTIAL's top/bottom reservation
// (§4.4.1 step 6). The property carries twelve CARD32 values; only indices
// 2 (top) and 3 (bottom) matter here since docks in this system only ever
// reserve horizontal strips.
func (c *Conn) StrutPartial(win xproto.Window) (Strut, bool) {
	reply, err := xprop.GetProperty(c.XU, win, "_NET_WM_STRUT_PARTIAL")
	if err != nil {
		return Strut{}, false
	}
	nums, err := xprop.PropValNums(reply, err)
	if err != nil || len(nums) < 4 {
		return Strut{}, false
	}
	return Strut{Top: uint32(nums[2]), Bottom: uint32(nums[3])}, true
}

// TransientFor returns the WM_TRANSIENT_FOR target, or 0 if unset.
func (c *Conn) TransientFor(win xproto.Window) xproto.Window {
	w, err := icccm.WmTransientForGet(c.XU, win)
	if err != nil {
		return 0
	}
	return w
}

// ClientLeader returns the WM_CLIENT_LEADER window, or 0 if unset.
func (c *Conn) ClientLeader(win xproto.Window) xproto.Window {
	reply, err := xprop.GetProperty(c.XU, win, "WM_CLIENT_LEADER")
	if err != nil {
		return 0
	}
	w, err := xprop.PropValWindow(reply, err)
	if err != nil {
		return 0
	}
	return w
}

// Protocols returns the WM_PROTOCOLS atoms a client advertises, used to
// decide between WM_DELETE_WINDOW and XKillClient on kill (§12 supplement,
// original_source/src/client.c:client_kill).
func (c *Conn) Protocols(win xproto.Window) []string {
	p, err := icccm.WmProtocolsGet(c.XU, win)
	if err != nil {
		return nil
	}
	return p
}

// Urgent reports whether WM_HINTS carries the urgency bit.
func (c *Conn) Urgent(win xproto.Window) bool {
	h, err := icccm.WmHintsGet(c.XU, win)
	if err != nil {
		return false
	}
	const urgencyHintFlag = 1 << 8
	return h.Flags&urgencyHintFlag != 0
}

// Aspect reads the subset of WM_NORMAL_HINTS the layout engine's aspect
// and increment adjustments need (§4.3.3, §4.3.4).
func (c *Conn) Aspect(win xproto.Window) AspectHints {
	nh, err := icccm.WmNormalHintsGet(c.XU, win)
	if err != nil || nh == nil {
		return AspectHints{}
	}
	return AspectHints{
		MinNum: int(nh.MinAspectNum), MinDen: int(nh.MinAspectDen),
		MaxNum: int(nh.MaxAspectNum), MaxDen: int(nh.MaxAspectDen),
		BaseWidth: int(nh.BaseWidth), BaseHeight: int(nh.BaseHeight),
		WidthInc: int(nh.WidthInc), HeightInc: int(nh.HeightInc),
	}
}

// NetWMStateFullscreen reports whether _NET_WM_STATE currently lists
// _NET_WM_STATE_FULLSCREEN (§4.4.1 step 14).
func (c *Conn) NetWMStateFullscreen(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XU, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_FULLSCREEN" {
			return true
		}
	}
	return false
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW (§4.1, set_focus).
func (c *Conn) SetActiveWindow(win xproto.Window) error {
	return ewmh.ActiveWindowSet(c.XU, win)
}

// SetClientList publishes _NET_CLIENT_LIST and _NET_CLIENT_LIST_STACKING
// in the given stacking-bottom-to-top order (§4.4.4).
func (c *Conn) SetClientList(wins []xproto.Window) error {
	if err := ewmh.ClientListSet(c.XU, wins); err != nil {
		return err
	}
	return ewmh.ClientListStackingSet(c.XU, wins)
}

// AnnounceSupported advertises _NET_SUPPORTED and creates the
// _NET_SUPPORTING_WM_CHECK window pair at startup (§12 supplement,
// original_source/src/ewmh.c).
func (c *Conn) AnnounceSupported(checkWin xproto.Window, atomNames []string) error {
	if err := ewmh.SupportedSet(c.XU, atomNames); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XU, c.Root(), checkWin); err != nil {
		return err
	}
	return ewmh.SupportingWmCheckSet(c.XU, checkWin, checkWin)
}
