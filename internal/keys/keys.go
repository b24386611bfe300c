// Package keys translates keysym-based bindings into grabbed keycodes and
// resolves incoming KeyPress events back to a binding, including the
// NumLock/Lock/Mode_switch modifier folding described in §4.6.
package keys

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/x11"
)

// LockMasks holds the modifier bits the grab/lookup logic must fold over:
// NumLock (discovered per-keyboard) and the ever-present Caps Lock.
type LockMasks struct {
	NumLock uint16
	CapsLock uint16
}

// Translator resolves keysyms to keycodes using a cached copy of the
// server's keyboard mapping. It holds no per-mode binding state.
type Translator struct {
	conn *x11.Conn

	minKeycode, maxKeycode byte
	keysymsPerKeycode      byte
	keyboardMapping        []xproto.Keysym

	locks LockMasks

	// modeSwitchActive mirrors the XKB group-2 state; set by the caller
	// from KeyPress/KeyRelease state bits carrying Mode_switch.
	modeSwitchActive bool
}

// NewTranslator reads the server's min/max keycode range and NumLock mask.
func NewTranslator(conn *x11.Conn) (*Translator, error) {
	setup := conn.XU.Conn().Setup()
	t := &Translator{
		conn:       conn,
		minKeycode: byte(setup.MinKeycode),
		maxKeycode: byte(setup.MaxKeycode),
		locks:      LockMasks{CapsLock: xproto.ModMaskLock},
	}
	if err := t.refresh(); err != nil {
		return nil, err
	}
	return t, nil
}

// refresh reloads the keyboard mapping and recomputes the NumLock mask;
// called at startup and again on MappingNotify (§4.6 "ungrab,
// re-translate, re-grab").
func (t *Translator) refresh() error {
	count := int(t.maxKeycode-t.minKeycode) + 1
	reply, err := xproto.GetKeyboardMapping(t.conn.XU.Conn(), t.minKeycode, byte(count)).Reply()
	if err != nil {
		return err
	}
	t.keysymsPerKeycode = reply.KeysymsPerKeycode
	t.keyboardMapping = reply.Keysyms

	modReply, err := xproto.GetModifierMapping(t.conn.XU.Conn()).Reply()
	if err != nil {
		return err
	}
	t.locks.NumLock = t.findNumLockMask(modReply)
	return nil
}

// findNumLockMask scans the modifier mapping for the keycode that
// produces the NumLock keysym and returns the modifier bit it occupies.
func (t *Translator) findNumLockMask(mods *xproto.GetModifierMappingReply) uint16 {
	const numLockKeysym = 0xff7f
	perMod := int(mods.KeycodesPerModifier)
	for i, kc := range mods.Keycodes {
		if kc == 0 {
			continue
		}
		for _, ks := range t.keysymsForKeycode(kc) {
			if ks == numLockKeysym {
				return 1 << uint(i/perMod)
			}
		}
	}
	return 0
}

// keysymsForKeycode returns every keysym the server's mapping table lists
// for kc.
func (t *Translator) keysymsForKeycode(kc xproto.Keycode) []xproto.Keysym {
	idx := int(kc-xproto.Keycode(t.minKeycode)) * int(t.keysymsPerKeycode)
	if idx < 0 || idx+int(t.keysymsPerKeycode) > len(t.keyboardMapping) {
		return nil
	}
	return t.keyboardMapping[idx : idx+int(t.keysymsPerKeycode)]
}

// KeycodesForKeysym returns every keycode whose mapping contains ks.
func (t *Translator) KeycodesForKeysym(ks xproto.Keysym) []byte {
	var out []byte
	count := int(t.maxKeycode-t.minKeycode) + 1
	for i := 0; i < count; i++ {
		kc := xproto.Keycode(t.minKeycode) + xproto.Keycode(i)
		for _, sym := range t.keysymsForKeycode(kc) {
			if sym == ks {
				out = append(out, byte(kc))
				break
			}
		}
	}
	return out
}

// Resolve fills in Binding.Keycodes for every binding in mode from its
// Keysym (or leaves Keycode-based bindings untouched).
func (t *Translator) Resolve(bindings []model.Binding, resolver func(name string) xproto.Keysym) []model.Binding {
	out := make([]model.Binding, len(bindings))
	for i, b := range bindings {
		out[i] = b
		if b.Keysym != "" {
			out[i].Keycodes = t.KeycodesForKeysym(resolver(b.Keysym))
		} else {
			out[i].Keycodes = []byte{b.Keycode}
		}
	}
	return out
}

// grabMasks enumerates the mask ∪ (mask+NumLock) ∪ (mask+NumLock+Lock)
// combinations a binding must be grabbed under so the binding still fires
// regardless of lock state (§4.6).
func (t *Translator) grabMasks(base uint16) []uint16 {
	return []uint16{
		base,
		base | t.locks.NumLock,
		base | t.locks.NumLock | t.locks.CapsLock,
	}
}

// Grab issues GrabKey for every keycode/mask combination a binding needs.
func (t *Translator) Grab(root xproto.Window, b model.Binding) error {
	base := b.Modifiers &^ model.BindModeSwitch
	for _, kc := range b.Keycodes {
		for _, mask := range t.grabMasks(base) {
			err := xproto.GrabKeyChecked(t.conn.XU.Conn(), true, root,
				mask, xproto.Keycode(kc), xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// UngrabAll releases every keybinding grab on root.
func (t *Translator) UngrabAll(root xproto.Window) error {
	return xproto.UngrabKeyChecked(t.conn.XU.Conn(), xproto.GrabAny, root, xproto.ModMaskAny).Check()
}

// SetModeSwitch updates whether XKB group 2 (Mode_switch) is currently
// active, as tracked from the state field of incoming key events.
func (t *Translator) SetModeSwitch(active bool) {
	t.modeSwitchActive = active
}

// Lookup finds the binding matching keycode under the current modifier
// state: it first tries state|BIND_MODE_SWITCH when Mode_switch is
// active, falling back to state alone (§4.6).
func Lookup(bindings []model.Binding, keycode byte, state uint16, modeSwitchActive bool) (model.Binding, bool) {
	normalize := func(s uint16) uint16 { return s &^ (xproto.ModMaskLock) }
	state = normalize(state)

	tryState := state
	if modeSwitchActive {
		tryState |= model.BindModeSwitch
	}
	if b, ok := findBinding(bindings, keycode, tryState); ok {
		return b, true
	}
	if modeSwitchActive {
		if b, ok := findBinding(bindings, keycode, state); ok {
			return b, true
		}
	}
	return model.Binding{}, false
}

func findBinding(bindings []model.Binding, keycode byte, state uint16) (model.Binding, bool) {
	for _, b := range bindings {
		if b.Modifiers != state {
			continue
		}
		for _, kc := range b.Keycodes {
			if kc == keycode {
				return b, true
			}
		}
	}
	return model.Binding{}, false
}
