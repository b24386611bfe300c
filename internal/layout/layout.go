// Package layout implements the per-container layout engine (C8): it turns
// a container's assigned rect and its member clients into per-client frame
// and child geometry, decides decoration colors, and sizes the stack/tab
// strip for non-default modes.
package layout

import (
	"math"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

// Metrics carries the font-service-derived measurements the layout engine
// needs but does not compute itself (C4 is an external boundary; see
// SPEC_FULL.md §4.3 and §6).
type Metrics struct {
	TitleLineHeight uint32
}

// ClientGeometry is the computed placement for one client: its frame (the
// outer, override-redirect window) and the child rect within it.
type ClientGeometry struct {
	Frame geom.Rect
	Child geom.Rect
}

// StripCell is one cell of a Stack/Tabbed decoration strip.
type StripCell struct {
	Client model.ClientID
	Rect   geom.Rect
}

// RenderResult is everything RenderContainer computes for one container.
type RenderResult struct {
	Strip   []StripCell
	StripAt geom.Rect // zero Rect when the mode has no strip (Default)
	Clients map[model.ClientID]ClientGeometry
}

// RenderContainer lays out every member of cont within rect according to
// cont's effective mode (§4.3.1).
func RenderContainer(s *model.State, cont *model.Container, rect geom.Rect, m Metrics) RenderResult {
	res := RenderResult{Clients: make(map[model.ClientID]ClientGeometry)}
	members := cont.Clients.Items()
	if len(members) == 0 {
		return res
	}

	mode := cont.EffectiveMode(true)
	switch mode {
	case model.ModeStack:
		res.StripAt, res.Strip = stackStrip(s, cont, members, rect, m)
		inner := geom.Rect{X: rect.X, Y: rect.Y + int32(res.StripAt.Height), Width: rect.Width, Height: rect.Height - res.StripAt.Height}
		for _, cid := range members {
			res.Clients[cid] = frameAndChild(s.Client(cid), inner, mode, m)
		}
	case model.ModeTabbed:
		stripH := m.TitleLineHeight
		res.StripAt = geom.Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: stripH}
		tabW := rect.Width / uint32(len(members))
		for i, cid := range members {
			res.Strip = append(res.Strip, StripCell{Client: cid, Rect: geom.Rect{
				X: rect.X + int32(uint32(i)*tabW), Y: rect.Y, Width: tabW, Height: stripH,
			}})
		}
		inner := geom.Rect{X: rect.X, Y: rect.Y + int32(stripH), Width: rect.Width, Height: rect.Height - stripH}
		for _, cid := range members {
			res.Clients[cid] = frameAndChild(s.Client(cid), inner, mode, m)
		}
	default: // ModeDefault
		renderable := members
		var fullscreen model.ClientID
		if ws := s.Workspace(cont.Workspace); ws != nil && ws.FullscreenClient.Valid() {
			fullscreen = ws.FullscreenClient
		}
		n := 0
		for _, cid := range renderable {
			if cid == fullscreen {
				continue
			}
			n++
		}
		if n == 0 {
			return res
		}
		share := rect.Height / uint32(n)
		y := rect.Y
		i := 0
		for _, cid := range renderable {
			if cid == fullscreen {
				continue
			}
			h := share
			if i == n-1 {
				h = rect.Height - share*uint32(n-1) // absorb rounding remainder into the last slot
			}
			frame := geom.Rect{X: rect.X, Y: y, Width: rect.Width, Height: h}
			res.Clients[cid] = frameAndChild(s.Client(cid), frame, mode, m)
			y += int32(h)
			i++
		}
	}
	return res
}

// stackStrip sizes the Stack-mode decoration strip, honoring StackLimit
// (§4.3.1): by default one line per client; Cols/Rows limits turn it into
// a grid.
func stackStrip(s *model.State, cont *model.Container, members []model.ClientID, rect geom.Rect, m Metrics) (geom.Rect, []StripCell) {
	n := len(members)
	lines := n
	limit := cont.StackLimitValue
	var cols, rows int
	switch cont.StackLimit {
	case model.StackLimitCols:
		if limit <= 0 {
			limit = n
		}
		cols = limit
		rows = ceilDiv(n, limit)
		lines = rows
	case model.StackLimitRows:
		if limit <= 0 {
			limit = n
		}
		rows = limit
		cols = ceilDiv(n, limit)
		lines = rows
	default:
		cols = 1
		rows = n
	}

	stripH := m.TitleLineHeight * uint32(lines)
	strip := geom.Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: stripH}

	cells := make([]StripCell, 0, n)
	if cont.StackLimit == model.StackLimitNone {
		for i, cid := range members {
			cells = append(cells, StripCell{Client: cid, Rect: geom.Rect{
				X: rect.X, Y: rect.Y + int32(uint32(i)*m.TitleLineHeight),
				Width: rect.Width, Height: m.TitleLineHeight,
			}})
		}
		return strip, cells
	}

	colWidth := rect.Width / uint32(cols)
	for i, cid := range members {
		col := i % cols
		row := i / cols
		cells = append(cells, StripCell{Client: cid, Rect: geom.Rect{
			X: rect.X + int32(uint32(col)*colWidth), Y: rect.Y + int32(uint32(row)*m.TitleLineHeight),
			Width: colWidth, Height: m.TitleLineHeight,
		}})
	}
	return strip, cells
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// frameAndChild computes both the client's outer frame and the inner
// child rect per the §4.3.2 table, then applies aspect/increment
// adjustments (§4.3.3).
func frameAndChild(cl *model.Client, frame geom.Rect, mode model.Mode, m Metrics) ClientGeometry {
	if cl == nil {
		return ClientGeometry{Frame: frame, Child: frame}
	}
	child := childRect(cl, frame, mode, m)
	child = adjustAspectAndIncrement(cl, child)
	child = child.Shrink(int32(cl.BorderWidth))
	return ClientGeometry{Frame: frame, Child: child}
}

// childRect implements the §4.3.2 table mapping a frame rect (and the
// client's decoration flags) to the child's position within it.
func childRect(cl *model.Client, frame geom.Rect, mode model.Mode, m Metrics) geom.Rect {
	switch {
	case mode == model.ModeStack || mode == model.ModeTabbed:
		return geom.Rect{X: frame.X + 2, Y: frame.Y, Width: frame.Width - 4, Height: frame.Height - 2}
	case cl.Borderless && cl.TitlebarPosition == model.TitlebarOff:
		return frame
	case cl.Border == model.BorderPixel && cl.TitlebarPosition == model.TitlebarOff:
		return geom.Rect{X: frame.X + 1, Y: frame.Y + 1, Width: frame.Width - 2, Height: frame.Height - 2}
	default: // normal, titlebar on
		titleH := int32(m.TitleLineHeight)
		return geom.Rect{
			X: frame.X + 2, Y: frame.Y + titleH + 4,
			Width: frame.Width - 4, Height: frame.Height - uint32(titleH) - 6,
		}
	}
}

// adjustAspectAndIncrement reduces child to satisfy proportional
// width/height and width/height increment hints (§4.3.3), centering the
// result within the original rect.
func adjustAspectAndIncrement(cl *model.Client, child geom.Rect) geom.Rect {
	w, h := child.Width, child.Height
	if cl.ProportionalWidth > 0 && cl.ProportionalHeight > 0 {
		wantH := uint32(float64(cl.ProportionalHeight) / float64(cl.ProportionalWidth) * float64(w))
		if wantH > h {
			w = uint32(float64(cl.ProportionalWidth) / float64(cl.ProportionalHeight) * float64(h))
		} else {
			h = wantH
		}
	}
	if cl.WidthIncrement > 1 {
		w -= uint32(mod(int(w)-cl.BaseWidth, cl.WidthIncrement))
	}
	if cl.HeightIncrement > 1 {
		h -= uint32(mod(int(h)-cl.BaseHeight, cl.HeightIncrement))
	}
	dx := int32(child.Width-w) / 2
	dy := int32(child.Height-h) / 2
	return geom.Rect{X: child.X + dx, Y: child.Y + dy, Width: w, Height: h}
}

func mod(a, b int) int {
	if b == 0 {
		return 0
	}
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// FixAspectRatioHints implements §4.3.4: when WM_NORMAL_HINTS specifies a
// min/max aspect ratio and the client's current proportional width/height
// falls outside it, clamp to the nearest in-range ratio. Any non-positive
// input is treated as "hint absent" — this corrects the original's
// min_aspect_den handling rather than reproducing its bug, per the spec's
// redesign note.
func FixAspectRatioHints(cl *model.Client, minNum, minDen, maxNum, maxDen int) {
	if minNum <= 0 || minDen <= 0 || maxNum <= 0 || maxDen <= 0 {
		return
	}
	if cl.ProportionalWidth <= 0 || cl.ProportionalHeight <= 0 {
		return
	}
	ratio := float64(cl.ProportionalWidth) / float64(cl.ProportionalHeight)
	minRatio := float64(minNum) / float64(minDen)
	maxRatio := float64(maxNum) / float64(maxDen)
	switch {
	case ratio < minRatio:
		cl.ProportionalWidth, cl.ProportionalHeight = minNum, minDen
	case ratio > maxRatio:
		cl.ProportionalWidth, cl.ProportionalHeight = maxNum, maxDen
	}
}

// DecorationColor picks the color triple for cl per the priority order in
// §4.3.6.
func DecorationColor(s *model.State, cl *model.Client, palette geom.Palette) geom.Triple {
	if cl.Urgent {
		return palette.Urgent
	}
	ws := s.Workspace(cl.Workspace)
	if cl.FloatingState.IsFloating() {
		if ws != nil {
			if last, ok := s.GetLastFocusedClient(ws, nil); ok && last == cl.ID {
				return palette.Focused
			}
		}
		return palette.Unfocused
	}
	if !cl.Container.Valid() {
		return palette.Unfocused
	}
	cont := s.Container(cl.Container)
	if cont == nil {
		return palette.Unfocused
	}
	if cont.CurrentlyFocused == cl.ID {
		if ws != nil && ws.CurrentCol == cont.Col && ws.CurrentRow == cont.Row {
			return palette.Focused
		}
		return palette.FocusedInactive
	}
	return palette.Unfocused
}

// FullscreenRect computes the rect a fullscreen client renders to: the
// workspace rect for local fullscreen, or the union of every active
// output's rect for global fullscreen (§4.3.5).
func FullscreenRect(s *model.State, ws *model.Workspace, global bool) geom.Rect {
	if !global {
		return ws.Rect
	}
	var rects []geom.Rect
	for _, o := range s.Outputs {
		if o.Active {
			rects = append(rects, o.Rect)
		}
	}
	if len(rects) == 0 {
		return ws.Rect
	}
	return geom.Union(rects...)
}

// titleHeight returns the font_h+4 title-bar height relation. Nothing in
// the tree calls it: the reparent offset in wm.Manage and the renderer
// read Metrics.TitleLineHeight directly.
func titleHeight(fontHeight uint32) uint32 {
	return uint32(math.Max(float64(fontHeight)+4, float64(fontHeight)))
}
