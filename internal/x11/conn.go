// Package x11 opens the X display connection, caches interned atoms, and
// wraps the ICCCM/EWMH hint calls the window manager core needs behind a
// small checked-request surface (C3). It is the only package below
// cmd/i3wm that imports xgbutil; other packages issue xgb requests
// directly.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Conn wraps an xgbutil connection plus an atom name cache. Every atom the
// rest of the tree needs is interned once, on first use, the way the
// teacher's fixWindowClass opens its own throwaway xgbutil.Conn per call
// (_teacher_ref/main.go) — here the connection is long-lived and shared.
type Conn struct {
	XU    *xgbutil.XUtil
	atoms map[string]xproto.Atom
}

// Connect opens the display named by the DISPLAY environment variable (or
// display if non-empty) and enables the RandR extension.
func Connect(display string) (*Conn, error) {
	var xu *xgbutil.XUtil
	var err error
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	if err := randr.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("x11: randr init: %w", err)
	}
	return &Conn{XU: xu, atoms: make(map[string]xproto.Atom)}, nil
}

// Close releases the underlying connection.
func (c *Conn) Close() {
	c.XU.Conn().Close()
}

// Root returns the root window of the connection's default screen.
func (c *Conn) Root() xproto.Window {
	return c.XU.RootWin()
}

// Atom returns the interned atom for name, caching it across calls. A
// failed InternAtom is a protocol-level error worth surfacing rather than
// silently returning AtomNone, since every caller treats 0 as "hint
// absent."
func (c *Conn) Atom(name string) (xproto.Atom, error) {
	if a, ok := c.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(c.XU.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11: intern atom %q: %w", name, err)
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// MustAtom is Atom without an error return, for the small set of atoms
// resolved once at startup and assumed to always succeed thereafter (a
// live connection cannot fail to intern a well-known name).
func (c *Conn) MustAtom(name string) xproto.Atom {
	a, err := c.Atom(name)
	if err != nil {
		panic(err)
	}
	return a
}

// CheckedVoid runs a void request and reports its protocol error, if any,
// wrapped with ctx for logging — the same "checked request" idiom the
// component share table calls out for C3.
func CheckedVoid(ctx string, cookie interface{ Check() error }) error {
	if err := cookie.Check(); err != nil {
		return fmt.Errorf("x11: %s: %w", ctx, err)
	}
	return nil
}
