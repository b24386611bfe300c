// Package config applies an already-parsed configuration into the live
// model/keys/wm state (C14): installing keybinding grabs, assignments,
// the decoration palette and bar configs. Parsing the configuration
// language itself is an external lexer/parser boundary, out of scope
// here; Config is the structured result that boundary hands over.
package config

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/keys"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/wm"
)

// Config is the parsed, ready-to-apply configuration (§3.5).
type Config struct {
	Bindings    []model.Binding
	Modes       []model.KeyMode
	Assignments []model.Assignment
	Bars        []model.BarConfig

	Palette  geom.Palette
	Border   model.BorderStyle
	Titlebar model.TitlebarPosition
}

// Applier ties a Config to the live translator/manager it installs into.
type Applier struct {
	Trans *keys.Translator
	Mgr   *wm.Manager
	Root  xproto.Window
}

// Apply installs grabs for the default mode's bindings (every KeyMode's
// bindings are grabbed too; grabs are static for the session, matching
// the teacher's "grab everything up front, filter in the handler" style;
// the `mode` command does not change which bindings Lookup consults),
// assignments, and the default border/titlebar onto the manager.
func (ap *Applier) Apply(c *Config) error {
	if err := ap.Trans.UngrabAll(ap.Root); err != nil {
		return err
	}
	for _, b := range c.Bindings {
		if err := ap.Trans.Grab(ap.Root, b); err != nil {
			return err
		}
	}
	for _, mode := range c.Modes {
		for _, b := range mode.Bindings {
			if err := ap.Trans.Grab(ap.Root, b); err != nil {
				return err
			}
		}
	}

	ap.Mgr.Assignments = c.Assignments
	ap.Mgr.DefaultBorder = c.Border
	ap.Mgr.DefaultTitlebar = c.Titlebar
	ap.Mgr.Palette = c.Palette

	return nil
}

// ModeByName finds a named alternative binding set, or reports false for
// the implicit default mode ("").
func (c *Config) ModeByName(name string) (model.KeyMode, bool) {
	for _, m := range c.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return model.KeyMode{}, false
}

// BarByID finds the bar configuration with the given id, used when the
// IPC server answers a bar-config request.
func (c *Config) BarByID(id string) (model.BarConfig, bool) {
	for _, b := range c.Bars {
		if b.ID == id {
			return b, true
		}
	}
	return model.BarConfig{}, false
}
