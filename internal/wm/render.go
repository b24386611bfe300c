package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/layout"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/table"
)

// Render recomputes every container's cell rect on ws from its current
// width/height factors, runs the layout engine over each, and pushes the
// result to the X server: frame/child geometry via ConfigureWindow. Docks
// and the floating layer get simpler placement, and a workspace-level
// fullscreen client overrides whatever its container would have given it
// (§4.3's computed geometry, actually applied — layout.RenderContainer
// itself only computes rects). Finishes by restacking ws so window order
// always matches the geometry just applied.
func (m *Manager) Render(ws *model.Workspace) error {
	if !m.State.WorkspaceIsVisible(ws) {
		return nil
	}

	colTracks := table.ComputeTracks(ws.WidthFactor, ws.Rect.Width)
	rowTracks := table.ComputeTracks(ws.HeightFactor, ws.Rect.Height)
	colOff := offsets(colTracks)
	rowOff := offsets(rowTracks)

	seen := make(map[model.ContainerID]bool)
	for c := 0; c < ws.Cols; c++ {
		for r := 0; r < ws.Rows; r++ {
			cont := m.State.Container(ws.Table[c][r])
			if cont == nil || seen[cont.ID] || cont.Clients.Len() == 0 {
				continue
			}
			seen[cont.ID] = true
			rect := cellRect(ws.Rect, colOff, rowOff, cont)
			cont.X, cont.Y, cont.Width, cont.Height = rect.X, rect.Y, rect.Width, rect.Height
			if err := m.renderOneContainer(cont, rect); err != nil {
				return err
			}
		}
	}

	if o := m.State.Output(ws.Output); o != nil {
		if err := m.renderDocks(o); err != nil {
			return err
		}
	}

	for _, cid := range ws.Floating.Items() {
		cl := m.State.Client(cid)
		if cl == nil || cl.Fullscreen {
			continue
		}
		if err := m.applyClientRect(cl, cl.FloatingRect); err != nil {
			return err
		}
	}

	if ws.FullscreenClient.Valid() {
		if cl := m.State.Client(ws.FullscreenClient); cl != nil {
			if err := m.applyClientRect(cl, layout.FullscreenRect(m.State, ws, false)); err != nil {
				return err
			}
		}
	}

	return m.Restack(ws)
}

// offsets turns a slice of track sizes into cumulative start positions,
// with one extra trailing entry so a span's end offset is always in range.
func offsets(tracks []uint32) []uint32 {
	out := make([]uint32, len(tracks)+1)
	for i, t := range tracks {
		out[i+1] = out[i] + t
	}
	return out
}

func cellRect(base geom.Rect, colOff, rowOff []uint32, cont *model.Container) geom.Rect {
	colspan, rowspan := cont.Colspan, cont.Rowspan
	if colspan < 1 {
		colspan = 1
	}
	if rowspan < 1 {
		rowspan = 1
	}
	cEnd := cont.Col + colspan
	if max := len(colOff) - 1; cEnd > max {
		cEnd = max
	}
	rEnd := cont.Row + rowspan
	if max := len(rowOff) - 1; rEnd > max {
		rEnd = max
	}
	return geom.Rect{
		X:      base.X + int32(colOff[cont.Col]),
		Y:      base.Y + int32(rowOff[cont.Row]),
		Width:  colOff[cEnd] - colOff[cont.Col],
		Height: rowOff[rEnd] - rowOff[cont.Row],
	}
}

func (m *Manager) renderOneContainer(cont *model.Container, rect geom.Rect) error {
	res := layout.RenderContainer(m.State, cont, rect, m.Metrics)
	for cid, g := range res.Clients {
		cl := m.State.Client(cid)
		if cl == nil {
			continue
		}
		cl.Rect = g.Frame
		cl.ChildRect = g.Child
		if err := m.applyFrameAndChild(cl, g); err != nil {
			return err
		}
		if err := m.applyDecoration(cl); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) applyFrameAndChild(cl *model.Client, g layout.ClientGeometry) error {
	conn := m.Conn.XU.Conn()
	if err := xproto.ConfigureWindowChecked(conn, xproto.Window(cl.Frame),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(g.Frame.X), uint32(g.Frame.Y), g.Frame.Width, g.Frame.Height}).Check(); err != nil {
		return err
	}
	return xproto.ConfigureWindowChecked(conn, xproto.Window(cl.Child),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(g.Child.X), uint32(g.Child.Y), g.Child.Width, g.Child.Height}).Check()
}

// applyDecoration sets the frame's background pixel to the triple
// get_colorpixel already resolved for cl's current focus state (§4.3.6);
// actual glyph drawing stays with the external draw service (C4).
func (m *Manager) applyDecoration(cl *model.Client) error {
	triple := layout.DecorationColor(m.State, cl, m.Palette)
	conn := m.Conn.XU.Conn()
	return xproto.ChangeWindowAttributesChecked(conn, xproto.Window(cl.Frame),
		xproto.CwBackPixel, []uint32{triple.Background.Pixel}).Check()
}

func (m *Manager) applyClientRect(cl *model.Client, rect geom.Rect) error {
	cl.Rect = rect
	conn := m.Conn.XU.Conn()
	return xproto.ConfigureWindowChecked(conn, xproto.Window(cl.Frame),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(rect.X), uint32(rect.Y), rect.Width, rect.Height}).Check()
}

// renderDocks stacks o's dock clients top-down from the output's origin,
// each reserving DesiredHeight (falling back to its current height).
func (m *Manager) renderDocks(o *model.Output) error {
	y := o.Rect.Y
	for _, cid := range o.DockClients.Items() {
		cl := m.State.Client(cid)
		if cl == nil {
			continue
		}
		h := cl.DesiredHeight
		if h == 0 {
			h = cl.Rect.Height
		}
		rect := geom.Rect{X: o.Rect.X, Y: y, Width: o.Rect.Width, Height: h}
		if err := m.applyClientRect(cl, rect); err != nil {
			return err
		}
		y += int32(h)
	}
	return nil
}
