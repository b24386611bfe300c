package main

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/config"
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

// bootstrapConfig builds a minimal, hardcoded Config. Parsing the actual
// configuration language is an external lexer/parser boundary the spec
// places out of scope; this stands in for that boundary's output with a
// small but workable default binding set, the way a window manager would
// fall back to compiled-in defaults if no config file were found.
func bootstrapConfig() *config.Config {
	const mod = xproto.ModMask4

	bindings := []model.Binding{
		{Modifiers: mod, Keysym: "Return", Command: "exec xterm"},
		{Modifiers: mod, Keysym: "d", Command: "exec dmenu_run"},
		{Modifiers: mod | xproto.ModMaskShift, Keysym: "q", Command: "kill"},
		{Modifiers: mod, Keysym: "f", Command: "f"},

		{Modifiers: mod, Keysym: "h", Command: "h"},
		{Modifiers: mod, Keysym: "j", Command: "j"},
		{Modifiers: mod, Keysym: "k", Command: "k"},
		{Modifiers: mod, Keysym: "l", Command: "l"},

		{Modifiers: mod | xproto.ModMaskShift, Keysym: "h", Command: "mh"},
		{Modifiers: mod | xproto.ModMaskShift, Keysym: "j", Command: "mj"},
		{Modifiers: mod | xproto.ModMaskShift, Keysym: "k", Command: "mk"},
		{Modifiers: mod | xproto.ModMaskShift, Keysym: "l", Command: "ml"},

		{Modifiers: mod, Keysym: "r", Command: "reload"},
		{Modifiers: mod | xproto.ModMaskShift, Keysym: "r", Command: "restart"},
		{Modifiers: mod | xproto.ModMaskShift, Keysym: "e", Command: "exit"},
	}
	for n := 1; n <= 9; n++ {
		bindings = append(bindings, model.Binding{
			Modifiers: mod, Keysym: digitKeysymName(n), Command: digitFocusCommand(n),
		})
	}

	return &config.Config{
		Bindings: bindings,
		Palette:  defaultPalette(),
		Border:   model.BorderNormal,
		Titlebar: model.TitlebarTop,
	}
}

func digitKeysymName(n int) string {
	return string(rune('0' + n))
}

func digitFocusCommand(n int) string {
	return "focus " + digitKeysymName(n)
}

// resolveKeysym maps the small vocabulary bootstrapConfig uses to X11
// keysym values. Digits and lowercase Latin letters share their ASCII
// code as a keysym, the same convention internal/crash/ui.go already
// relies on for 'e'/'r'; only the handful of named keys need a lookup.
func resolveKeysym(name string) xproto.Keysym {
	switch name {
	case "Return":
		return 0xff0d
	case "space":
		return 0x0020
	}
	if len(name) == 1 {
		r := name[0]
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return xproto.Keysym(r)
		}
	}
	return 0
}

// defaultPalette packs each triple's RGB as a TrueColor pixel value
// (R<<16 | G<<8 | B); a real deployment would have the external draw
// service (C4) allocate pixels against the connection's actual visual.
func defaultPalette() geom.Palette {
	mk := func(border, bg, text uint32) geom.Triple {
		return geom.Triple{
			Border:     packColor(border),
			Background: packColor(bg),
			Text:       packColor(text),
		}
	}
	return geom.Palette{
		Focused:         mk(0x4c7899, 0x285577, 0xffffff),
		FocusedInactive: mk(0x333333, 0x5f676a, 0xffffff),
		Unfocused:       mk(0x333333, 0x222222, 0x888888),
		Urgent:          mk(0x900000, 0x900000, 0xffffff),
	}
}

func packColor(rgb uint32) geom.Color {
	return geom.Color{
		R:     uint8(rgb >> 16),
		G:     uint8(rgb >> 8),
		B:     uint8(rgb),
		A:     0xff,
		Pixel: rgb,
	}
}
